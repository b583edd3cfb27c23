package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics records cart mutations and load-time repairs.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	dropped   prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations",
		Help: "Applied cart mutations by action.",
	}, []string{"action"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_invalid_entries_dropped",
		Help: "Persisted cart entries dropped at load time as invalid.",
	})
	reg.MustRegister(mutations, dropped)
	return &CartMetrics{mutations: mutations, dropped: dropped}
}

// IncMutation counts one applied mutation for the named action.
func (c *CartMetrics) IncMutation(action string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(action)).Inc()
}

// AddDropped counts entries discarded during initialization.
func (c *CartMetrics) AddDropped(n int) {
	if c == nil || c.dropped == nil || n <= 0 {
		return
	}
	c.dropped.Add(float64(n))
}
