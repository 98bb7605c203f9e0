package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector reports to prometheus.
type Collector struct {
	relayOutcomes    *prometheus.CounterVec
	relayDuration    *prometheus.HistogramVec
	relayGasFallback prometheus.Counter
	resolverLookups  *prometheus.CounterVec
	resolverRetries  prometheus.Counter
	purchaseResults  *prometheus.CounterVec
	purchaseTickets  prometheus.Counter
}

var _ Metrics = (*Collector)(nil)

func NewCollector(registerer prometheus.Registerer) *Collector {
	factory := promauto.With(registerer)
	return &Collector{
		relayOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceBuy4me,
			Subsystem: subsystemRelay,
			Name:      "outcomes_total",
			Help:      "number of proof relay attempts by outcome",
		}, []string{LabelStatus}),
		relayDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespaceBuy4me,
			Subsystem: subsystemRelay,
			Name:      "duration_seconds",
			Help:      "time from receiving a proof to its final outcome",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
		}, []string{LabelStatus}),
		relayGasFallback: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceBuy4me,
			Subsystem: subsystemRelay,
			Name:      "gas_fallback_total",
			Help:      "number of relay transactions sent with the fallback gas limit",
		}),
		resolverLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceBuy4me,
			Subsystem: subsystemResolver,
			Name:      "lookups_total",
			Help:      "number of delegation lookups by result",
		}, []string{LabelResult}),
		resolverRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceBuy4me,
			Subsystem: subsystemResolver,
			Name:      "retries_total",
			Help:      "number of delegation lookups retried after a network failure",
		}),
		purchaseResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceBuy4me,
			Subsystem: subsystemPurchase,
			Name:      "results_total",
			Help:      "number of batch purchases by result",
		}, []string{LabelResult}),
		purchaseTickets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceBuy4me,
			Subsystem: subsystemPurchase,
			Name:      "tickets_total",
			Help:      "number of tickets in confirmed purchases, including the buyer's own",
		}),
	}
}

func (c *Collector) RelayOutcome(status string, duration time.Duration) {
	c.relayOutcomes.WithLabelValues(status).Inc()
	c.relayDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func (c *Collector) RelayGasFallback() {
	c.relayGasFallback.Inc()
}

func (c *Collector) ResolverLookup(result string) {
	c.resolverLookups.WithLabelValues(result).Inc()
}

func (c *Collector) ResolverRetry() {
	c.resolverRetries.Inc()
}

func (c *Collector) PurchaseResult(result string, tickets int) {
	c.purchaseResults.WithLabelValues(result).Inc()
	if result == PurchaseConfirmed {
		c.purchaseTickets.Add(float64(tickets))
	}
}
