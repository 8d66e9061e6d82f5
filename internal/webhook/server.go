package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tolucodes/vaultpay/internal/records"
)

// Svix-style delivery headers. All three are required and the first two are
// part of the signed content.
const (
	HeaderDeliveryID = "svix-id"
	HeaderTimestamp  = "svix-timestamp"
	HeaderSignature  = "svix-signature"
)

// DefaultMaxBodySize bounds webhook payloads.
const DefaultMaxBodySize = 1048576 // 1 MB

// Config holds webhook listener configuration.
type Config struct {
	Listen string

	// Path is the URL path the provider posts deliveries to.
	Path string

	// Secret is the Svix-style signing secret ("whsec_<base64>").
	Secret string

	// MaxBodySize is the maximum allowed request body size in bytes.
	MaxBodySize int64

	// MaxSkew, when positive, rejects deliveries whose timestamp is further
	// than this from now. Zero preserves the baseline behavior of accepting
	// any validly signed timestamp.
	MaxSkew time.Duration
}

// Response is the acknowledgment envelope the provider expects.
type Response struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Status  int    `json:"status"`
}

// Server is the inbound webhook HTTP server.
type Server struct {
	config     Config
	reconciler *Reconciler
	deliveries DeliveryRecorder
	logger     *slog.Logger
	server     *http.Server
}

// New creates a webhook server. deliveries may be nil to disable the delivery log.
func New(config Config, reconciler *Reconciler, deliveries DeliveryRecorder, logger *slog.Logger) *Server {
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}
	return &Server{
		config:     config,
		reconciler: reconciler,
		deliveries: deliveries,
		logger:     logger,
	}
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting", "listen", s.config.Listen, "path", s.config.Path)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Post(s.config.Path, s.HandleDelivery)

	return r
}

// loggingMiddleware logs HTTP requests (excludes sensitive payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// HandleDelivery handles one inbound webhook POST. The body is consumed as
// raw bytes; the framework must never parse it first, because the signature
// covers the exact bytes on the wire.
func (s *Server) HandleDelivery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limitedReader := io.LimitReader(r.Body, s.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		s.respond(w, http.StatusInternalServerError, "Failed to read request body")
		return
	}
	if int64(len(body)) > s.config.MaxBodySize {
		s.respond(w, http.StatusRequestEntityTooLarge, "Payload too large")
		return
	}

	deliveryID := r.Header.Get(HeaderDeliveryID)
	timestamp := r.Header.Get(HeaderTimestamp)
	signature := r.Header.Get(HeaderSignature)
	if deliveryID == "" || timestamp == "" || signature == "" {
		s.respond(w, http.StatusBadRequest, "Missing required Svix headers")
		return
	}

	logger := s.logger.With("delivery_id", deliveryID)

	if s.config.MaxSkew > 0 && !s.timestampFresh(timestamp) {
		logger.Warn("webhook timestamp outside freshness window", "timestamp", timestamp)
		s.respond(w, http.StatusBadRequest, "Stale webhook timestamp")
		return
	}

	valid, err := Verify(deliveryID, timestamp, body, signature, s.config.Secret)
	switch {
	case errors.Is(err, ErrNoV1Signature):
		logger.Warn("webhook signature header has no v1 token")
		s.respond(w, http.StatusBadRequest, "Missing v1 signature")
		return
	case err != nil:
		// Secret absent or undecodable: an operational fault, not a
		// per-request condition.
		logger.Error("webhook verification unavailable", "error", err)
		s.respond(w, http.StatusInternalServerError, "Failed to compute signature")
		return
	case !valid:
		// Expected outcome for forged or corrupted deliveries; not a fault.
		logger.Warn("webhook signature mismatch")
		s.respond(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	env, err := ParseEnvelope(body)
	if err != nil {
		logger.Warn("webhook payload malformed", "error", err)
		s.respond(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if s.deliveries != nil {
		if seen, err := s.deliveries.Seen(ctx, deliveryID); err == nil && seen {
			logger.Debug("duplicate webhook delivery", "event", env.Event)
		}
	}

	outcome := s.reconciler.Handle(ctx, env)

	if s.deliveries != nil {
		_, err := s.deliveries.Append(ctx, records.Delivery{
			DeliveryID: deliveryID,
			Event:      env.Event,
			Reference:  correlationKey(env),
			Outcome:    string(outcome),
		})
		if err != nil {
			logger.Warn("failed to log webhook delivery", "error", err)
		}
	}

	// Verified and parsed deliveries are always acknowledged, whatever
	// reconciliation did: the sender retrying cannot fix a handler failure.
	s.respond(w, http.StatusOK, "Webhook received successfully")
}

// timestampFresh checks the sender timestamp against the configured skew.
func (s *Server) timestampFresh(timestamp string) bool {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	sent := time.Unix(ts, 0)
	now := time.Now()
	return now.Sub(sent) <= s.config.MaxSkew && sent.Sub(now) <= s.config.MaxSkew
}

// correlationKey returns whichever identifier the event correlates on.
func correlationKey(env *Envelope) string {
	if env.Reference != "" {
		return env.Reference
	}
	return env.ID
}

// respond writes the standard acknowledgment envelope.
func (s *Server) respond(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		Message: message,
		Success: status < 400,
		Status:  status,
	})
}
