// Package metrics exposes shop floor activity as Prometheus metrics. The
// Recorder observes committed transitions and receives periodic snapshots
// from the jobs package.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/domain/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopfloor"

// Recorder owns a private registry so tests and multiple servers in one
// process never collide on the default one.
type Recorder struct {
	registry *prometheus.Registry

	transitions         *prometheus.CounterVec
	rejections          *prometheus.CounterVec
	completedWorkOrders prometheus.Counter
	workOrders          *prometheus.GaugeVec
	progress            *prometheus.GaugeVec
	stalledSteps        prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Committed step transitions by kind.",
			},
			[]string{"kind"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scan_rejections_total",
				Help:      "Scans rejected by the engine, by reason.",
			},
			[]string{"reason"},
		),
		completedWorkOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_orders_completed_total",
			Help:      "Work orders whose last step ended.",
		}),
		workOrders: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "work_orders",
				Help:      "Work orders by status at the last snapshot.",
			},
			[]string{"status"},
		),
		progress: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "work_order_progress_percent",
				Help:      "Progress percentage of unfinished work orders at the last snapshot.",
			},
			[]string{"work_order"},
		),
		stalledSteps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stalled_steps",
			Help:      "Steps in progress for longer than the stall threshold.",
		}),
	}

	r.registry.MustRegister(
		r.transitions,
		r.rejections,
		r.completedWorkOrders,
		r.workOrders,
		r.progress,
		r.stalledSteps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// OnTransition implements ports.TransitionObserver.
func (r *Recorder) OnTransition(_ context.Context, tr workorder.Transition) {
	r.transitions.WithLabelValues(tr.Kind.String()).Inc()
	if tr.Kind == scantoken.End && tr.WorkOrderStatus == workorder.Completed {
		r.completedWorkOrders.Inc()
	}
}

// ObserveRejection counts a failed scan under a reason derived from err.
func (r *Recorder) ObserveRejection(err error) {
	r.rejections.WithLabelValues(RejectionReason(err)).Inc()
}

// SetSnapshot replaces the status and progress gauges. Completed work orders
// are counted but get no progress series.
func (r *Recorder) SetSnapshot(rows []services.Progress) {
	r.workOrders.Reset()
	r.progress.Reset()
	for _, s := range []workorder.Status{workorder.Pending, workorder.InProgress, workorder.Completed, workorder.Blocked} {
		r.workOrders.WithLabelValues(s.String()).Set(0)
	}

	for _, p := range rows {
		r.workOrders.WithLabelValues(p.Status.String()).Inc()
		if p.Status != workorder.Completed {
			r.progress.WithLabelValues(p.WorkOrderNumber).Set(float64(p.Percentage))
		}
	}
}

func (r *Recorder) SetStalledSteps(n int) {
	r.stalledSteps.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry is exposed for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RejectionReason maps engine errors to a bounded label set.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, scantoken.ErrUnknownToken):
		return "unknown_token"
	case errors.Is(err, workorder.ErrInstanceNotFound):
		return "instance_not_found"
	case errors.Is(err, workorder.ErrOutOfSequence):
		return "out_of_sequence"
	case errors.Is(err, workorder.ErrAlreadyStarted):
		return "already_started"
	case errors.Is(err, workorder.ErrAlreadyCompleted):
		return "already_completed"
	case errors.Is(err, workorder.ErrNotStarted):
		return "not_started"
	default:
		return "other"
	}
}
