package purchase

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/delegation"
	"github.com/seanhuang1228/buy4me/identifier"
)

// CandidateChecker checks candidates as the user types. Only the result for
// the latest input is delivered; older checks are cancelled.
type CandidateChecker struct {
	resolver Resolver
	caller   common.Address

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewCandidateChecker(resolver Resolver, caller common.Address) *CandidateChecker {
	return &CandidateChecker{resolver: resolver, caller: caller}
}

// Check resolves raw for the caller. It returns ErrSuperseded if Check was
// called again before this lookup finished.
func (c *CandidateChecker) Check(ctx context.Context, raw string) (*delegation.Resolution, error) {
	ctx, gen := c.start(ctx)
	defer c.done(gen)

	candidate, err := identifier.ParseCandidate(raw)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedCandidate, err.Error())
	}
	res, err := c.resolver.Resolve(ctx, candidate, c.caller)
	if !c.latest(gen) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, mapResolveError(err)
	}
	return res, nil
}

func (c *CandidateChecker) start(parent context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.gen++
	c.cancel = cancel
	return ctx, c.gen
}

func (c *CandidateChecker) latest(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

func (c *CandidateChecker) done(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen && c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
