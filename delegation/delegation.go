// Package delegation resolves a candidate pass holder and checks whether the
// caller may act on their behalf.
package delegation

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/chain"
	"github.com/seanhuang1228/buy4me/identifier"
)

var (
	// ErrNotFound is returned when no pass holder matches the candidate.
	ErrNotFound = errors.New("no pass holder found for candidate")
	// ErrInvalidInput is returned for malformed candidates or callers.
	ErrInvalidInput = errors.New("invalid delegation input")
)

// PassGetter reads the pass contract.
//
//go:generate mockgen -destination=mock/PassGetterMock.go . PassGetter
type PassGetter interface {
	BalanceOf(opts *bind.CallOpts, owner common.Address) (*big.Int, error)
	OwnerOf(opts *bind.CallOpts, tokenID *big.Int) (common.Address, error)
	Address2ID(opts *bind.CallOpts, owner common.Address) (*big.Int, error)
	CanActOnBehalf(opts *bind.CallOpts, owner, actor common.Address) (bool, error)
}

// Resolution is the result of a delegation lookup. An unauthorized caller is
// a valid resolution, not an error.
type Resolution struct {
	// OwnerID is the canonical pass id of the holder, used for dedup and purchase.
	OwnerID    *big.Int
	Owner      common.Address
	Authorized bool
}

// Resolve maps candidate to its pass holder and checks that caller may act on
// their behalf. It only reads chain state.
func Resolve(ctx context.Context, getter PassGetter, candidate identifier.Candidate, caller common.Address) (*Resolution, error) {
	if caller == (common.Address{}) {
		return nil, errors.Wrap(ErrInvalidInput, "caller address is empty")
	}
	opts := &bind.CallOpts{Context: ctx}

	var owner common.Address
	switch candidate.Kind {
	case identifier.KindAddress:
		owner = candidate.Address
	case identifier.KindTokenID:
		if candidate.TokenID == nil || candidate.TokenID.Sign() <= 0 {
			return nil, errors.Wrap(ErrInvalidInput, "token id must be positive")
		}
		o, err := getter.OwnerOf(opts, candidate.TokenID)
		if err != nil {
			if chain.IsRevert(err) {
				return nil, errors.Wrapf(ErrNotFound, "token %s", candidate.TokenID)
			}
			return nil, errors.WithMessagef(err, "failed to get owner of token %s", candidate.TokenID)
		}
		owner = o
	default:
		return nil, errors.Wrapf(ErrInvalidInput, "unsupported candidate %q", candidate.Raw)
	}
	if owner == (common.Address{}) {
		return nil, errors.Wrapf(ErrNotFound, "candidate %s", candidate)
	}

	id, err := getter.Address2ID(opts, owner)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to get pass id of %s", owner.Hex())
	}
	if id == nil || id.Sign() == 0 {
		return nil, errors.Wrapf(ErrNotFound, "%s holds no pass", owner.Hex())
	}

	authorized, err := getter.CanActOnBehalf(opts, owner, caller)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to check delegation from %s", owner.Hex())
	}

	return &Resolution{OwnerID: id, Owner: owner, Authorized: authorized}, nil
}

// IsEligible reports whether account holds at least one pass.
func IsEligible(ctx context.Context, getter PassGetter, account common.Address) (bool, error) {
	if account == (common.Address{}) {
		return false, errors.Wrap(ErrInvalidInput, "account address is empty")
	}
	bal, err := getter.BalanceOf(&bind.CallOpts{Context: ctx}, account)
	if err != nil {
		return false, errors.WithMessagef(err, "failed to get pass balance of %s", account.Hex())
	}
	return bal != nil && bal.Sign() > 0, nil
}
