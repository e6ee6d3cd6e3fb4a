package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"lodgify_sync/internal/app"
	"lodgify_sync/internal/domain"
)

const serviceName = "lodgify-monday-sync"

type Handlers struct {
	Sync     *app.SyncService
	BoardID  string
	PageSize int
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/health", h.health)
	s.mux.Get("/lodgify-sync-all", h.syncAll)
	s.mux.Post("/webhook/lodgify", h.webhook)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"ok": false, "error": err.Error()})
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"service":  serviceName,
		"board_id": h.BoardID,
	})
}

func (h *Handlers) syncAll(w http.ResponseWriter, r *http.Request) {
	limit := h.PageSize
	if limit <= 0 {
		limit = 50
	}
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if l, err := strconv.Atoi(ls); err == nil && l > 0 {
			limit = l
		}
	}
	skip := 0
	if ss := r.URL.Query().Get("skip"); ss != "" {
		if s, err := strconv.Atoi(ss); err == nil && s >= 0 {
			skip = s
		}
	}
	debug := r.URL.Query().Get("debug") == "1"

	rep, err := h.Sync.SyncAll(r.Context(), limit, skip, debug)
	if err != nil {
		log.Error().Err(err).Msg("sync-all failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		OK bool `json:"ok"`
		domain.SyncReport
	}{OK: true, SyncReport: rep})
}

func (h *Handlers) webhook(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid JSON body"})
		return
	}

	// accept both {"booking": {...}} and a bare booking object
	booking := payload
	if sub, ok := payload["booking"].(map[string]any); ok {
		booking = sub
	}

	res := h.Sync.UpsertBooking(r.Context(), domain.Booking(booking))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "result": res})
}
