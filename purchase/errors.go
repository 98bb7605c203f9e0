package purchase

import (
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/delegation"
)

var (
	// ErrMalformedCandidate is returned before any network call for input that
	// is neither an address nor a token id.
	ErrMalformedCandidate = errors.New("candidate is not a valid address or pass id")
	ErrPurchaseInProgress = errors.New("a purchase is in progress")
	ErrNotEligible        = errors.New("caller holds no pass")
	ErrNotFound           = errors.New("candidate holds no pass")
	ErrUnauthorized       = errors.New("caller is not authorized to act on behalf of candidate")
	ErrAlreadyAdded       = errors.New("candidate is already a delegate")
	ErrSelfDelegate       = errors.New("caller cannot delegate to themselves")
	ErrTicketLimit        = errors.New("ticket limit reached")
	ErrInvalidPrice       = errors.New("unit price must be positive")
	// ErrTransactionFailed wraps the on-chain revert reason of a purchase.
	ErrTransactionFailed = errors.New("purchase transaction failed")
	// ErrSuperseded is returned by checks overtaken by newer input.
	ErrSuperseded = errors.New("check superseded by newer input")
)

func mapResolveError(err error) error {
	switch {
	case errors.Is(err, delegation.ErrNotFound):
		return errors.Wrap(ErrNotFound, err.Error())
	case errors.Is(err, delegation.ErrInvalidInput):
		return errors.Wrap(ErrMalformedCandidate, err.Error())
	default:
		return err
	}
}
