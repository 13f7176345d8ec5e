package observability

import (
	"context"

	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the controller hooks.
type Metrics struct {
	Turns               *prometheus.CounterVec
	StepVisits          *prometheus.CounterVec
	CollaboratorLatency *prometheus.HistogramVec
	CollaboratorErrors  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticketchat_turns_total",
				Help: "Turns routed by the agent step, by intent kind.",
			},
			[]string{"intent"},
		),
		StepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticketchat_step_visits_total",
				Help: "Total number of controller step visits.",
			},
			[]string{"step"},
		),
		CollaboratorLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ticketchat_collaborator_duration_seconds",
				Help:    "Duration of ticket source and language model calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"collaborator", "operation"},
		),
		CollaboratorErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticketchat_collaborator_errors_total",
				Help: "Failed ticket source and language model calls.",
			},
			[]string{"collaborator", "operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Turns, m.StepVisits, m.CollaboratorLatency, m.CollaboratorErrors)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			m.StepVisits.WithLabelValues(string(e.Step)).Inc()
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			if e.Step == domain.StepAgent {
				m.Turns.WithLabelValues(string(e.Intent.Kind)).Inc()
			}
		},
		OnCollaboratorReturn: func(ctx context.Context, e *domain.CollaboratorEvent) {
			m.CollaboratorLatency.WithLabelValues(e.Collaborator, e.Operation).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.CollaboratorErrors.WithLabelValues(e.Collaborator, e.Operation).Inc()
			}
		},
	}
}
