package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stackdeck"

// PrometheusHooks implements DeckHooks, StoreHooks and HTTPHooks on top of
// Prometheus collectors registered with one registry.
type PrometheusHooks struct {
	gatherer prometheus.Gatherer

	dispatches   *prometheus.CounterVec
	opDuration   *prometheus.HistogramVec
	timeouts     *prometheus.CounterVec
	stackUpdates prometheus.Counter
	deckItems    prometheus.Gauge

	storeLookups *prometheus.CounterVec
	storeBytes   *prometheus.CounterVec

	requests    *prometheus.CounterVec
	reqDuration *prometheus.HistogramVec
}

// NewPrometheusHooks registers the stackdeck collectors with reg.
func NewPrometheusHooks(reg *prometheus.Registry) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		gatherer: reg,
		dispatches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Deck operations dispatched, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		opDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time from operation start to completion.",
			Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		timeouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_timeouts_total",
			Help:      "Operations forced to complete after their timeout.",
		}, []string{"kind"}),
		stackUpdates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stack_updates_total",
			Help:      "Rank reassignments across all decks.",
		}),
		deckItems: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_stack_items",
			Help:      "Item count of the most recently updated deck.",
		}),
		storeLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_lookups_total",
			Help:      "Snapshot store lookups, by backend and result.",
		}, []string{"backend", "result"}),
		storeBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_written_bytes_total",
			Help:      "Bytes written to the snapshot store.",
		}, []string{"backend"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		reqDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusHooks) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

func (p *PrometheusHooks) OnDispatch(kind, outcome string) {
	p.dispatches.WithLabelValues(kind, outcome).Inc()
}

func (p *PrometheusHooks) OnOperationComplete(kind string, d time.Duration) {
	p.opDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnTimeout(kind string) {
	p.timeouts.WithLabelValues(kind).Inc()
}

func (p *PrometheusHooks) OnStackUpdated(items int) {
	p.stackUpdates.Inc()
	p.deckItems.Set(float64(items))
}

func (p *PrometheusHooks) OnStoreHit(_ context.Context, backend string) {
	p.storeLookups.WithLabelValues(backend, "hit").Inc()
}

func (p *PrometheusHooks) OnStoreMiss(_ context.Context, backend string) {
	p.storeLookups.WithLabelValues(backend, "miss").Inc()
}

func (p *PrometheusHooks) OnStoreSet(_ context.Context, backend string, size int) {
	p.storeBytes.WithLabelValues(backend).Add(float64(size))
}

func (p *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.reqDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ DeckHooks  = (*PrometheusHooks)(nil)
	_ StoreHooks = (*PrometheusHooks)(nil)
	_ HTTPHooks  = (*PrometheusHooks)(nil)
)
