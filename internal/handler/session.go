package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskchecker-api/internal/session"
	"github.com/BuzzLyutic/taskchecker-api/pkg/respond"
)

// SessionHandler - административные ручки для отладки и зачистки сессий
type SessionHandler struct {
	registry *session.Registry
	logger   *zap.Logger
}

func NewSessionHandler(registry *session.Registry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		logger:   logger,
	}
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, map[string]interface{}{
		"activeSessions": h.registry.Active(),
		"count":          h.registry.Count(),
	})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if !h.registry.Evict(sessionID) {
		respond.Error(w, r, http.StatusNotFound, "Session not found")
		return
	}

	respond.JSON(w, r, http.StatusOK, map[string]string{
		"message":   "Session cleaned up",
		"sessionId": sessionID,
	})
}
