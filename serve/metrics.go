package serve

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "bimultimap"

type metrics struct {
	ops      *prometheus.CounterVec
	sessions prometheus.Gauge
}

// newMetrics builds collectors for the handler.
// If reg is nil they are still usable but not registered anywhere.
func newMetrics(reg prometheus.Registerer, store *Store) *metrics {
	factory := promauto.With(reg)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "entries",
		Help:      "Number of pairs currently stored.",
	}, func() float64 {
		return float64(store.Map().Len())
	})

	return &metrics{
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ops_total",
			Help:      "Requests handled, by op and result.",
		}, []string{"op", "result"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions",
			Help:      "Open WebSocket sessions.",
		}),
	}
}

func (m *metrics) observe(resp *Response, op string) {
	result := "ok"
	if resp.Err != "" {
		result = "error"
		op = "invalid"
	} else if !resp.Ok {
		result = "miss"
	}
	m.ops.WithLabelValues(op, result).Inc()
}
