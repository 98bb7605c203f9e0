package proofs

import (
	snarktypes "github.com/iden3/go-rapidsnark/types"
	"github.com/iden3/go-rapidsnark/verifier"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/loaders"
	"github.com/seanhuang1228/buy4me/types"
)

var (
	// ErrVerificationKeyNotFound means no key is configured for the circuit and
	// the off-chain check cannot run.
	ErrVerificationKeyNotFound = errors.New("verification key not found")
	// ErrInvalidProof is returned when the pairing check fails.
	ErrInvalidProof = errors.New("invalid proof")
)

// Verifier checks Groth16 proofs off-chain before any gas is spent.
type Verifier struct {
	loader loaders.VerificationKeyLoader
}

// NewVerifier creates a verifier reading keys from loader.
func NewVerifier(loader loaders.VerificationKeyLoader) *Verifier {
	return &Verifier{loader: loader}
}

// Verify runs the pairing check of bundle against the key of circuit.
// The bundle is expected in snarkjs coordinate order, not the verifier's.
func (v *Verifier) Verify(circuit types.CircuitID, bundle *types.IdentityProofBundle) error {
	if err := bundle.Validate(); err != nil {
		return err
	}
	key, err := v.loader.Load(circuit)
	if errors.Is(err, loaders.ErrKeyNotFound) {
		return errors.Wrapf(ErrVerificationKeyNotFound, "circuit %s", circuit)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to load verification key for %s", circuit)
	}

	zkProof, err := toZKProof(bundle)
	if err != nil {
		return err
	}
	if err := verifier.VerifyGroth16(zkProof, key); err != nil {
		return errors.Wrap(ErrInvalidProof, err.Error())
	}
	return nil
}

// toZKProof rewrites coordinates and signals as decimal strings and fills in
// the projective coordinates snarkjs drops when exporting solidity calldata.
func toZKProof(bundle *types.IdentityProofBundle) (snarktypes.ZKProof, error) {
	p := bundle.Proof
	a, err := projectiveG1(p.A)
	if err != nil {
		return snarktypes.ZKProof{}, errors.WithMessage(err, "a")
	}
	c, err := projectiveG1(p.C)
	if err != nil {
		return snarktypes.ZKProof{}, errors.WithMessage(err, "c")
	}
	b := make([][]string, 0, 3)
	for i := 0; i < 2; i++ {
		row, err := decimals(p.B[i][:2])
		if err != nil {
			return snarktypes.ZKProof{}, errors.WithMessagef(err, "b[%d]", i)
		}
		b = append(b, row)
	}
	b = append(b, []string{"1", "0"})

	signals, err := decimals(bundle.PublicSignals)
	if err != nil {
		return snarktypes.ZKProof{}, errors.WithMessage(err, "publicSignals")
	}
	return snarktypes.ZKProof{
		Proof: &snarktypes.ProofData{
			A:        a,
			B:        b,
			C:        c,
			Protocol: "groth16",
		},
		PubSignals: signals,
	}, nil
}

func projectiveG1(coords []string) ([]string, error) {
	xy, err := decimals(coords[:2])
	if err != nil {
		return nil, err
	}
	return append(xy, "1"), nil
}

func decimals(in []string) ([]string, error) {
	out := make([]string, len(in))
	for i, s := range in {
		v, err := parseCoordinate(s)
		if err != nil {
			return nil, err
		}
		out[i] = v.String()
	}
	return out, nil
}
