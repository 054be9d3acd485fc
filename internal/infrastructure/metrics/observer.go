// Package metrics reports mutation status to prometheus and the log.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/mutation"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/logger"
)

var (
	mutationsPending = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "invoice_service",
			Name:      "mutations_pending",
			Help:      "Mutations that have started and not yet settled",
		},
		[]string{"op"},
	)

	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invoice_service",
			Name:      "mutations_total",
			Help:      "Settled mutations by outcome",
		},
		[]string{"op", "outcome", "code"}, // outcome: succeeded, failed
	)

	mutationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "invoice_service",
			Name:      "mutation_duration_seconds",
			Help:      "Time from start to settle",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op"},
	)
)

// Observer implements mutation.Observer.
type Observer struct{}

func NewObserver() Observer { return Observer{} }

func (Observer) Pending(ctx context.Context, op mutation.Operation) {
	mutationsPending.WithLabelValues(string(op)).Inc()
}

func (Observer) Settled(ctx context.Context, op mutation.Operation, res mutation.Result, took time.Duration) {
	mutationsPending.WithLabelValues(string(op)).Dec()

	code := ""
	if res.Err != nil {
		code = res.Err.Code
	}
	mutationsTotal.WithLabelValues(string(op), string(res.Stage), code).Inc()
	mutationDuration.WithLabelValues(string(op)).Observe(took.Seconds())

	logger.WithCtx(ctx).Debug().
		Str("op", string(op)).
		Str("outcome", string(res.Stage)).
		Str("code", code).
		Dur("took", took).
		Msg("mutation settled")
}
