package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vitrine"

// Metrics agrupa os coletores Prometheus da aplicação.
// Todos os métodos aceitam receptor nil, o que simplifica os testes.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
	ordersPlaced         *prometheus.CounterVec
	orderTransitions     *prometheus.CounterVec
	stockShortfalls      prometheus.Counter
	persistenceFallbacks *prometheus.CounterVec
	persistenceDegraded  *prometheus.GaugeVec
}

// New cria um registry próprio com os coletores de runtime e da aplicação.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de requisições HTTP por rota e status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duração das requisições HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersPlaced: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Pedidos criados no checkout por forma de pagamento.",
		}, []string{"payment_method"}),
		orderTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Transições de status de pedido por status de destino.",
		}, []string{"status"}),
		stockShortfalls: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_shortfalls_total",
			Help:      "Consumos de estoque recusados por falta de estoque.",
		}),
		persistenceFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_fallbacks_total",
			Help:      "Operações redirecionadas ao armazenamento local por falha do backend primário.",
		}, []string{"collection"}),
		persistenceDegraded: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "persistence_degraded",
			Help:      "1 quando a coleção está operando em modo degradado (fallback local).",
		}, []string{"collection"}),
	}
}

// Handler expõe o registry no formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) OrderPlaced(paymentMethod string) {
	if m == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(paymentMethod).Inc()
}

func (m *Metrics) OrderTransition(status string) {
	if m == nil {
		return
	}
	m.orderTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) StockShortfall() {
	if m == nil {
		return
	}
	m.stockShortfalls.Inc()
}

func (m *Metrics) PersistenceFallback(collection string) {
	if m == nil {
		return
	}
	m.persistenceFallbacks.WithLabelValues(collection).Inc()
}

// SetDegraded publica o estado de modo degradado da coleção.
func (m *Metrics) SetDegraded(collection string, degraded bool) {
	if m == nil {
		return
	}
	v := 0.0
	if degraded {
		v = 1
	}
	m.persistenceDegraded.WithLabelValues(collection).Set(v)
}

// Acessores usados pelos testes dos serviços.

func (m *Metrics) OrdersPlacedCounter(paymentMethod string) prometheus.Counter {
	return m.ordersPlaced.WithLabelValues(paymentMethod)
}

func (m *Metrics) StockShortfallCounter() prometheus.Counter {
	return m.stockShortfalls
}

func (m *Metrics) DegradedGauge(collection string) prometheus.Gauge {
	return m.persistenceDegraded.WithLabelValues(collection)
}

func (m *Metrics) OrderStatusTransitionCounter(status string) prometheus.Counter {
	return m.orderTransitions.WithLabelValues(status)
}
