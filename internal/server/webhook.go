package server

import (
	"encoding/json"
	"net/http"

	"github.com/eiescz/idiomasbot/internal/adapters/whatsapp"
)

// handleVerify answers the Meta webhook subscription handshake.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == s.verifyToken {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	writeJSON(w, http.StatusForbidden, map[string]string{"error": "token incorrecto"})
}

// handleWebhook receives inbound message events. The transport expects a fast
// 2xx regardless of how the turn went; processing failures are contained
// per-turn and never surface here.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var event whatsapp.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	in, ok := whatsapp.Decode(event)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"status": "no_message"})
		return
	}

	s.dispatcher.Handle(r.Context(), in)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
