package server

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"
)

// handleExportLeads streams all leads as CSV, newest first.
func (s *Server) handleExportLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.records.Leads(r.Context())
	if err != nil {
		s.logger.Error("leads export failed", "err", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	cw := beginCSV(w, "leads.csv")
	_ = cw.Write([]string{"id", "phone", "name", "intent", "last_message", "created_at"})
	for _, l := range leads {
		_ = cw.Write([]string{l.ID, l.Conversation, l.Name, l.Intent, l.LastMessage, stamp(l.CreatedAt)})
	}
	cw.Flush()
}

// handleExportEnrollments streams all finalized enrollments as CSV.
func (s *Server) handleExportEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := s.records.Enrollments(r.Context())
	if err != nil {
		s.logger.Error("enrollments export failed", "err", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	cw := beginCSV(w, "enrollments.csv")
	_ = cw.Write([]string{"id", "phone", "name", "identifier", "course", "level", "schedule_pref", "id_photo", "created_at"})
	for _, e := range enrollments {
		_ = cw.Write([]string{
			e.ID, e.Conversation, e.Name, e.Identifier, e.Course, e.Level,
			e.SchedulePref, strconv.FormatBool(e.IDPhoto), stamp(e.CreatedAt),
		})
	}
	cw.Flush()
}

func beginCSV(w http.ResponseWriter, filename string) *csv.Writer {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	return csv.NewWriter(w)
}

func stamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
