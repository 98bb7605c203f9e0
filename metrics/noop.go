package metrics

import "time"

type NoopCollector struct{}

var _ Metrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (nc *NoopCollector) RelayOutcome(status string, duration time.Duration) {}
func (nc *NoopCollector) RelayGasFallback()                                  {}
func (nc *NoopCollector) ResolverLookup(result string)                       {}
func (nc *NoopCollector) ResolverRetry()                                     {}
func (nc *NoopCollector) PurchaseResult(result string, tickets int)          {}
