// Package purchase builds a set of delegates and buys tickets for the caller
// and every delegate in one transaction.
package purchase

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/chain"
	"github.com/seanhuang1228/buy4me/constants"
	"github.com/seanhuang1228/buy4me/delegation"
	"github.com/seanhuang1228/buy4me/identifier"
	"github.com/seanhuang1228/buy4me/metrics"
	"go.uber.org/zap"
)

// Resolver answers eligibility and delegation questions. *delegation.ETHResolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, candidate identifier.Candidate, caller common.Address) (*delegation.Resolution, error)
	IsEligible(ctx context.Context, account common.Address) (bool, error)
}

// Purchaser sends a purchase and waits for it.
type Purchaser interface {
	Purchase(ctx context.Context, req PurchaseRequest) (*chain.Receipt, error)
}

// Delegate is a validated pass holder the caller buys for.
type Delegate struct {
	OwnerID *big.Int       `json:"ownerId"`
	Owner   common.Address `json:"owner"`
	// Input is what the user typed.
	Input string `json:"input"`
}

// PurchaseRequest is one buyTicket call.
type PurchaseRequest struct {
	Buyer       common.Address
	DelegateIDs []*big.Int
	UnitPrice   *big.Int
	// Value is UnitPrice * (1 + len(DelegateIDs)).
	Value *big.Int
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithMetrics(m metrics.PurchaseMetrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithMaxTickets caps the tickets of one purchase, the caller's own included.
func WithMaxTickets(n int) Option {
	return func(s *Session) { s.maxTickets = n }
}

// Session is one caller's purchase in progress. All methods are safe for
// concurrent use; mutations of the delegate set are serialized.
type Session struct {
	ID     uuid.UUID
	caller common.Address

	resolver  Resolver
	purchaser Purchaser

	logger     *zap.Logger
	metrics    metrics.PurchaseMetrics
	maxTickets int

	mu        sync.Mutex
	buying    atomic.Bool
	delegates []Delegate
}

// NewSession starts an empty session for caller.
func NewSession(caller common.Address, resolver Resolver, purchaser Purchaser, opts ...Option) *Session {
	s := &Session{
		ID:         uuid.New(),
		caller:     caller,
		resolver:   resolver,
		purchaser:  purchaser,
		logger:     zap.NewNop(),
		metrics:    metrics.NewNoopCollector(),
		maxTickets: constants.DefaultMaxTicketsPerPurchase,
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With(zap.Stringer("sessionID", s.ID), zap.String("caller", caller.Hex()))
	return s
}

// MaxTickets is the cap on tickets per purchase, the caller's own included.
func (s *Session) MaxTickets() int {
	return s.maxTickets
}

// Caller returns the account the session buys from.
func (s *Session) Caller() common.Address {
	return s.caller
}

// AddDelegate validates raw and appends its holder to the delegate set. On any
// error the set is unchanged. The returned slice is a copy of the new set.
func (s *Session) AddDelegate(ctx context.Context, raw string) ([]Delegate, error) {
	candidate, err := identifier.ParseCandidate(raw)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedCandidate, err.Error())
	}
	if s.buying.Load() {
		return nil, ErrPurchaseInProgress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEligible(ctx); err != nil {
		return nil, err
	}
	res, err := s.resolver.Resolve(ctx, candidate, s.caller)
	if err != nil {
		return nil, mapResolveError(err)
	}
	if !res.Authorized {
		return nil, errors.Wrapf(ErrUnauthorized, "pass %s", res.OwnerID)
	}
	if res.Owner == s.caller {
		return nil, ErrSelfDelegate
	}
	for _, d := range s.delegates {
		if d.OwnerID.Cmp(res.OwnerID) == 0 {
			return nil, errors.Wrapf(ErrAlreadyAdded, "pass %s", res.OwnerID)
		}
	}
	if s.maxTickets > 0 && len(s.delegates)+2 > s.maxTickets {
		return nil, errors.Wrapf(ErrTicketLimit, "at most %d tickets per purchase", s.maxTickets)
	}

	s.delegates = append(s.delegates, Delegate{OwnerID: res.OwnerID, Owner: res.Owner, Input: candidate.Raw})
	s.logger.Debug("delegate added", zap.Stringer("ownerID", res.OwnerID), zap.String("owner", res.Owner.Hex()))
	return s.snapshot(), nil
}

// RemoveDelegate drops the delegate with ownerID, if present.
func (s *Session) RemoveDelegate(ownerID *big.Int) []Delegate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ownerID == nil {
		return s.snapshot()
	}

	kept := s.delegates[:0]
	for _, d := range s.delegates {
		if d.OwnerID.Cmp(ownerID) != 0 {
			kept = append(kept, d)
		}
	}
	s.delegates = kept
	return s.snapshot()
}

// Delegates returns a copy of the delegate set in insertion order.
func (s *Session) Delegates() []Delegate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// TotalPrice is unitPrice * (1 + number of delegates).
func (s *Session) TotalPrice(unitPrice *big.Int) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(unitPrice, len(s.delegates))
}

// Request returns the purchase that Buy would send now.
func (s *Session) Request(unitPrice *big.Int) PurchaseRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.request(unitPrice)
}

// Buy purchases one ticket for the caller and one per delegate.
// A confirmed purchase clears the set. A pending one is returned without
// error and leaves the set as is. A revert leaves the set intact and returns
// ErrTransactionFailed with the reason.
func (s *Session) Buy(ctx context.Context, unitPrice *big.Int) (*chain.Receipt, error) {
	if unitPrice == nil || unitPrice.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	if !s.buying.CompareAndSwap(false, true) {
		return nil, ErrPurchaseInProgress
	}
	defer s.buying.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEligible(ctx); err != nil {
		return nil, err
	}
	req := s.request(unitPrice)
	tickets := len(req.DelegateIDs) + 1
	log := s.logger.With(zap.Int("tickets", tickets), zap.Stringer("value", req.Value))
	log.Info("purchasing tickets")

	receipt, err := s.purchaser.Purchase(ctx, req)
	if err != nil {
		s.metrics.PurchaseResult(metrics.PurchaseError, tickets)
		log.Error("purchase failed", zap.Error(err))
		return nil, err
	}

	switch receipt.Status {
	case chain.ReceiptConfirmed:
		s.metrics.PurchaseResult(metrics.PurchaseConfirmed, tickets)
		log.Info("purchase confirmed", zap.String("txHash", receipt.TxHash.Hex()))
		s.delegates = nil
		return receipt, nil
	case chain.ReceiptPending:
		s.metrics.PurchaseResult(metrics.PurchasePending, tickets)
		log.Warn("purchase not confirmed in time", zap.String("txHash", receipt.TxHash.Hex()))
		return receipt, nil
	default:
		s.metrics.PurchaseResult(metrics.PurchaseReverted, tickets)
		log.Warn("purchase reverted", zap.String("txHash", receipt.TxHash.Hex()), zap.String("reason", receipt.RevertReason))
		reason := receipt.RevertReason
		if reason == "" {
			reason = "transaction reverted"
		}
		return receipt, errors.Wrap(ErrTransactionFailed, reason)
	}
}

func (s *Session) checkEligible(ctx context.Context) error {
	ok, err := s.resolver.IsEligible(ctx, s.caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotEligible
	}
	return nil
}

func (s *Session) request(unitPrice *big.Int) PurchaseRequest {
	ids := make([]*big.Int, len(s.delegates))
	for i, d := range s.delegates {
		ids[i] = new(big.Int).Set(d.OwnerID)
	}
	return PurchaseRequest{
		Buyer:       s.caller,
		DelegateIDs: ids,
		UnitPrice:   unitPrice,
		Value:       totalPrice(unitPrice, len(ids)),
	}
}

func (s *Session) snapshot() []Delegate {
	out := make([]Delegate, len(s.delegates))
	copy(out, s.delegates)
	return out
}

func totalPrice(unitPrice *big.Int, delegates int) *big.Int {
	if unitPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(unitPrice, big.NewInt(int64(delegates+1)))
}
