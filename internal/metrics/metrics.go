// Package metrics exposes GraphQL execution statistics to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quillgraph/quill/internal/graph"
)

const namespace = "quill"

// Metrics holds the Prometheus collectors for the GraphQL endpoint. It is used as a gqlgen
// handler extension.
type Metrics struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	depthRejections   prometheus.Counter
	resolverDuration  *prometheus.HistogramVec
	resolverErrors    *prometheus.CounterVec
}

var _ interface {
	graphql.HandlerExtension
	graphql.ResponseInterceptor
	graphql.FieldInterceptor
} = (*Metrics)(nil)

// New creates the collectors and registers them, together with the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "operations_total",
			Help:      "GraphQL operations by type and outcome",
		}, []string{"operation", "outcome"}),

		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "operation_duration_seconds",
			Help:      "Time spent executing GraphQL operations",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"operation"}),

		depthRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "depth_rejections_total",
			Help:      "Operations rejected for exceeding the maximum depth",
		}),

		resolverDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "resolver_duration_seconds",
			Help:      "Time spent in resolvers that reach the store",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"field"}),

		resolverErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "resolver_errors_total",
			Help:      "Resolver calls that returned an error",
		}, []string{"field"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.operationsTotal,
		m.operationDuration,
		m.depthRejections,
		m.resolverDuration,
		m.resolverErrors,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) ExtensionName() string {
	return "Metrics"
}

func (m *Metrics) Validate(graphql.ExecutableSchema) error {
	return nil
}

// InterceptResponse records one executed request, including requests rejected before
// execution.
func (m *Metrics) InterceptResponse(ctx context.Context, next graphql.ResponseHandler) *graphql.Response {
	start := time.Now()
	op := "unknown"
	if graphql.HasOperationContext(ctx) {
		opCtx := graphql.GetOperationContext(ctx)
		if !opCtx.Stats.OperationStart.IsZero() {
			start = opCtx.Stats.OperationStart
		}
		if opCtx.Operation != nil {
			op = string(opCtx.Operation.Operation)
		}
	}

	resp := next(ctx)
	if resp == nil {
		return nil
	}

	outcome := "ok"
	switch {
	case len(resp.Data) == 0 && len(resp.Errors) > 0:
		outcome = "rejected"
	case len(resp.Errors) > 0:
		outcome = "field_errors"
	}
	m.operationsTotal.WithLabelValues(op, outcome).Inc()
	m.operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	for _, err := range resp.Errors {
		if code, _ := err.Extensions["code"].(string); code == graph.ErrDepthLimit {
			m.depthRejections.Inc()
			break
		}
	}
	return resp
}

// InterceptField records calls to fields backed by a resolver method.
func (m *Metrics) InterceptField(ctx context.Context, next graphql.Resolver) (any, error) {
	fc := graphql.GetFieldContext(ctx)
	if fc == nil || !fc.IsResolver {
		return next(ctx)
	}

	start := time.Now()
	res, err := next(ctx)
	name := fc.Object + "." + fc.Field.Name
	m.resolverDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		m.resolverErrors.WithLabelValues(name).Inc()
	}
	return res, err
}
