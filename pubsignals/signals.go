package pubsignals

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidSignal declares that a public signal is not a number.
	ErrInvalidSignal = errors.New("public signal is not a valid number")
	// ErrSignalOutOfField declares that a public signal is outside the scalar field.
	ErrSignalOutOfField = errors.New("public signal is not in the field")
	// ErrSignalsLength declares that the signal vector does not match the circuit.
	ErrSignalsLength = errors.New("unexpected number of public signals")
)

// Signals is the circuit-independent view the relay needs.
type Signals interface {
	PubSignalsUnmarshal(data []byte) error
	UserAddress() common.Address
	NullifierKey() string
}
