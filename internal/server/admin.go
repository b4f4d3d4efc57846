package server

import (
	"encoding/json"
	"net/http"
)

// handleReload re-reads the content file and swaps the live snapshot.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.content.Reload(); err != nil {
		s.logger.Error("content reload failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "msg": "contenido recargado"})
}

// handleOverride merges operator faq/rules patches over the live snapshot.
func (s *Server) handleOverride(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "cuerpo inválido"})
		return
	}
	if err := s.content.Override(raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "msg": "datos modificados"})
}
