package metrics

import "time"

// RelayMetrics tracks proof relay attempts.
type RelayMetrics interface {
	// RelayOutcome counts a finished relay attempt by outcome status.
	RelayOutcome(status string, duration time.Duration)
	// RelayGasFallback counts attempts that used the fallback gas limit.
	RelayGasFallback()
}

// ResolverMetrics tracks delegation lookups.
type ResolverMetrics interface {
	ResolverLookup(result string)
	ResolverRetry()
}

// PurchaseMetrics tracks batch purchases.
type PurchaseMetrics interface {
	PurchaseResult(result string, tickets int)
}

// Metrics is everything the service reports.
type Metrics interface {
	RelayMetrics
	ResolverMetrics
	PurchaseMetrics
}
