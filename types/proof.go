package types

import (
	"github.com/pkg/errors"
)

var (
	// ErrMissingProof is returned when a bundle has no proof or no public signals.
	ErrMissingProof = errors.New("proof and publicSignals are required")
	// ErrMalformedProof is returned when proof coordinates have the wrong shape.
	ErrMalformedProof = errors.New("malformed proof")
)

// ProofData holds the three Groth16 proof components as decimal or hex strings,
// in the coordinate order produced by the prover.
type ProofData struct {
	A []string   `json:"a"`
	B [][]string `json:"b"`
	C []string   `json:"c"`
}

// IdentityProofBundle is what the client posts to the relay.
type IdentityProofBundle struct {
	Proof         *ProofData `json:"proof"`
	PublicSignals []string   `json:"publicSignals"`
}

// Validate checks presence and shape. It does not check field membership or
// cryptographic validity.
func (b *IdentityProofBundle) Validate() error {
	if b == nil || b.Proof == nil || len(b.PublicSignals) == 0 {
		return ErrMissingProof
	}
	p := b.Proof
	if len(p.A) < 2 {
		return errors.WithMessage(ErrMalformedProof, "a must have at least 2 coordinates")
	}
	if len(p.C) < 2 {
		return errors.WithMessage(ErrMalformedProof, "c must have at least 2 coordinates")
	}
	if len(p.B) < 2 {
		return errors.WithMessage(ErrMalformedProof, "b must have 2 rows")
	}
	for i := 0; i < 2; i++ {
		if len(p.B[i]) < 2 {
			return errors.WithMessagef(ErrMalformedProof, "b[%d] must have at least 2 coordinates", i)
		}
	}
	return nil
}
