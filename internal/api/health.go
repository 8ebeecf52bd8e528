package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apperrors "recruitment-portal/internal/common/errors"
)

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	apperrors.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// handleReady pings the application store and, when configured, the
// notification queue connection.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := s.store.Ping(ctx)
	if err == nil && s.queue != nil {
		if qerr := s.queue.HealthCheck(); qerr != nil {
			err = fmt.Errorf("notification queue: %w", qerr)
		}
	}
	if err != nil {
		s.logger.Warn("readiness check failed", map[string]interface{}{"error": err})
		apperrors.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, healthResponse{Status: "ready"})
}
