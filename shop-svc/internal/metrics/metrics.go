package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use through a nil pointer, which records nothing.
type Metrics struct {
	ordersCreated prometheus.Counter
	statusChanges *prometheus.CounterVec
	menuSyncs     *prometheus.CounterVec
	gatherer      prometheus.Gatherer
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Orders accepted from the storefront.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_order_status_changes_total",
			Help: "Order status transitions made from the back office.",
		}, []string{"status"}),
		menuSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_menu_sync_total",
			Help: "Menu exports and imports against the partner platform.",
		}, []string{"direction", "result"}),
		gatherer: reg,
	}
	reg.MustRegister(m.ordersCreated, m.statusChanges, m.menuSyncs)
	return m
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) MenuSync(direction string, ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.menuSyncs.WithLabelValues(direction, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
