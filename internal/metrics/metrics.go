// Package metrics exposes prometheus collectors for the conversation engine,
// wired through the domain lifecycle hooks.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
)

// Metrics holds the engine collectors.
type Metrics struct {
	SessionsStarted prometheus.Counter
	SessionsExpired prometheus.Counter
	StepTransitions *prometheus.CounterVec
	UpstreamErrors  *prometheus.CounterVec
	MessagesInbound prometheus.Counter
}

// New registers the collectors on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "botseplag_sessions_started_total",
			Help: "Total number of sessions created on first contact",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "botseplag_sessions_expired_total",
			Help: "Total number of sessions removed by idle expiry",
		}),
		StepTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botseplag_step_transitions_total",
				Help: "Total number of step transitions",
			},
			[]string{"from", "to"},
		),
		UpstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botseplag_upstream_errors_total",
				Help: "Total number of failed backend operations",
			},
			[]string{"operation"},
		),
		MessagesInbound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "botseplag_messages_inbound_total",
			Help: "Total number of inbound webhook deliveries",
		}),
	}

	reg.MustRegister(
		m.SessionsStarted,
		m.SessionsExpired,
		m.StepTransitions,
		m.UpstreamErrors,
		m.MessagesInbound,
	)
	return m
}

// Hooks returns engine hooks that record into the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnSessionStart: func(context.Context, *domain.SessionEvent) {
			m.SessionsStarted.Inc()
		},
		OnSessionExpire: func(context.Context, *domain.SessionEvent) {
			m.SessionsExpired.Inc()
		},
		OnStepChange: func(_ context.Context, e *domain.StepEvent) {
			m.StepTransitions.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
		OnUpstreamError: func(_ context.Context, e *domain.UpstreamEvent) {
			m.UpstreamErrors.WithLabelValues(e.Operation).Inc()
		},
	}
}
