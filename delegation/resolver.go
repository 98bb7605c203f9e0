package delegation

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/chain"
	"github.com/seanhuang1228/buy4me/constants"
	"github.com/seanhuang1228/buy4me/identifier"
	"github.com/seanhuang1228/buy4me/metrics"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// ResolverOption configures an ETHResolver.
type ResolverOption func(*ETHResolver)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ResolverOption {
	return func(r *ETHResolver) {
		r.logger = l
	}
}

// WithMetrics sets the lookup metrics.
func WithMetrics(m metrics.ResolverMetrics) ResolverOption {
	return func(r *ETHResolver) {
		r.metrics = m
	}
}

// WithRetry sets the exponential backoff base and the number of retries on
// network failures. maxRetries 0 disables retrying.
func WithRetry(base time.Duration, maxRetries uint64) ResolverOption {
	return func(r *ETHResolver) {
		r.retryBase = base
		r.maxRetries = maxRetries
	}
}

// ETHResolver resolves delegations against a deployed pass contract. Results
// are never cached: delegation can be revoked at any time.
type ETHResolver struct {
	getter     PassGetter
	logger     *zap.Logger
	metrics    metrics.ResolverMetrics
	retryBase  time.Duration
	maxRetries uint64
}

// NewETHResolver creates a resolver over getter.
func NewETHResolver(getter PassGetter, opts ...ResolverOption) *ETHResolver {
	r := &ETHResolver{
		getter:     getter,
		logger:     zap.NewNop(),
		metrics:    metrics.NewNoopCollector(),
		retryBase:  constants.ResolverRetryBase,
		maxRetries: constants.ResolverMaxRetries,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve resolves candidate for caller, retrying network failures.
func (r *ETHResolver) Resolve(ctx context.Context, candidate identifier.Candidate, caller common.Address) (*Resolution, error) {
	var res *Resolution
	err := r.do(ctx, func(ctx context.Context) error {
		var err error
		res, err = Resolve(ctx, r.getter, candidate, caller)
		return err
	})

	switch {
	case err == nil && res.Authorized:
		r.metrics.ResolverLookup(metrics.ResolverAuthorized)
	case err == nil:
		r.metrics.ResolverLookup(metrics.ResolverUnauthorized)
	case errors.Is(err, ErrNotFound):
		r.metrics.ResolverLookup(metrics.ResolverNotFound)
	default:
		r.metrics.ResolverLookup(metrics.ResolverError)
		r.logger.Warn("delegation lookup failed",
			zap.String("candidate", candidate.Raw),
			zap.String("caller", caller.Hex()),
			zap.Error(err))
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("delegation resolved",
		zap.String("candidate", candidate.Raw),
		zap.String("owner", res.Owner.Hex()),
		zap.Stringer("ownerID", res.OwnerID),
		zap.Bool("authorized", res.Authorized))
	return res, nil
}

// IsEligible reports whether account holds a pass, retrying network failures.
func (r *ETHResolver) IsEligible(ctx context.Context, account common.Address) (bool, error) {
	var ok bool
	err := r.do(ctx, func(ctx context.Context) error {
		var err error
		ok, err = IsEligible(ctx, r.getter, account)
		return err
	})
	return ok, err
}

func (r *ETHResolver) do(ctx context.Context, f func(ctx context.Context) error) error {
	if r.maxRetries == 0 {
		return f(ctx)
	}
	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewExponential(r.retryBase))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if attempt > 0 {
			r.metrics.ResolverRetry()
		}
		attempt++
		err := f(ctx)
		if chain.IsNetworkError(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
