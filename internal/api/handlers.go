package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tolucodes/vaultpay/internal/records"
)

const (
	defaultDeliveryLimit = 50
	maxDeliveryLimit     = 500
)

// HealthzResponse is the GET /healthz response body.
type HealthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// DeliveriesResponse is the GET /v1/deliveries response body.
type DeliveriesResponse struct {
	Deliveries []records.Delivery `json:"deliveries"`
	Count      int                `json:"count"`
}

// ErrorResponse is the common error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleHealthz handles GET /healthz (no auth).
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	})
}

// handleDeliveries handles GET /v1/deliveries. The optional limit query
// parameter caps the page size.
func (s *Server) handleDeliveries(w http.ResponseWriter, r *http.Request) {
	limit := defaultDeliveryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > maxDeliveryLimit {
			n = maxDeliveryLimit
		}
		limit = n
	}

	deliveries, err := s.deliveries.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to read delivery history", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to read delivery history")
		return
	}
	if deliveries == nil {
		deliveries = []records.Delivery{}
	}

	s.writeJSON(w, http.StatusOK, DeliveriesResponse{
		Deliveries: deliveries,
		Count:      len(deliveries),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
