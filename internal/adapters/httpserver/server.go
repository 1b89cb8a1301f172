// Package httpserver exposes the inbound HTTP surface: the webhook the
// messaging relay posts deliveries to, plus health and metrics.
package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GibaTrindade/bot-seplag/internal/logging"
)

// Handler is the engine surface the webhook needs.
type Handler interface {
	HandleMessage(ctx context.Context, from, body string) error
}

// InboundMessage is the delivery shape the relay posts.
type InboundMessage struct {
	From string `json:"from"`
	Body string `json:"body"`
}

// Server routes inbound HTTP to the engine.
type Server struct {
	handler  Handler
	logger   *slog.Logger
	inbound  prometheus.Counter
	registry *prometheus.Registry
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithInboundCounter counts accepted webhook deliveries.
func WithInboundCounter(c prometheus.Counter) Option {
	return func(s *Server) {
		s.inbound = c
	}
}

// WithRegistry serves /metrics from a dedicated registry instead of the
// global default.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// NewHandler builds the chi router for the bot.
func NewHandler(handler Handler, opts ...Option) http.Handler {
	s := &Server{
		handler: handler,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	metricsHandler := promhttp.Handler()
	if s.registry != nil {
		metricsHandler = promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	}

	r := chi.NewRouter()
	r.Post("/webhook", s.webhook)
	r.Get("/health", s.health)
	r.Handle("/metrics", metricsHandler)
	return r
}

// webhook acknowledges every delivery with 200 regardless of processing
// outcome; the relay would otherwise retry and replay user input.
func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusOK)

	var msg InboundMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		s.logger.Warn("webhook: invalid payload", "err", err)
		return
	}
	if msg.From == "" {
		s.logger.Warn("webhook: delivery without sender")
		return
	}

	log := s.logger.With("request_id", uuid.NewString(), "user_id", msg.From)
	log.Info("inbound message")
	if s.inbound != nil {
		s.inbound.Inc()
	}

	if err := s.handler.HandleMessage(r.Context(), msg.From, msg.Body); err != nil {
		log.Error("message processing failed", "err", err)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
