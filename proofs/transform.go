package proofs

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/contracts"
	"github.com/seanhuang1228/buy4me/pubsignals"
	"github.com/seanhuang1228/buy4me/types"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ToVerifierProof converts a snarkjs-style proof into the on-chain verifier's
// tuple. The two coordinates of every b row are swapped: snarkjs emits G2
// points as (c0, c1) while the verifier expects (c1, c0). Public signals are
// copied in the order received.
func ToVerifierProof(bundle *types.IdentityProofBundle, signals *pubsignals.VcAndDisclose) (contracts.VcAndDiscloseProof, error) {
	var out contracts.VcAndDiscloseProof
	if err := bundle.Validate(); err != nil {
		return out, err
	}
	if signals == nil {
		return out, errors.Wrap(types.ErrMalformedProof, "public signals are not parsed")
	}
	p := bundle.Proof

	var err error
	if out.A, err = parsePair(p.A, "a"); err != nil {
		return out, err
	}
	for i := 0; i < 2; i++ {
		row, err := parsePair(p.B[i], "b")
		if err != nil {
			return out, err
		}
		out.B[i] = [2]*big.Int{row[1], row[0]}
	}
	if out.C, err = parsePair(p.C, "c"); err != nil {
		return out, err
	}
	out.PubSignals = signals.Array()
	return out, nil
}

// parsePair reads the first two coordinates. A projective third coordinate,
// when present, is ignored.
func parsePair(coords []string, name string) ([2]*big.Int, error) {
	var out [2]*big.Int
	for i := 0; i < 2; i++ {
		v, err := parseCoordinate(coords[i])
		if err != nil {
			return out, errors.Wrapf(err, "%s[%d]", name, i)
		}
		out[i] = v
	}
	return out, nil
}

func parseCoordinate(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	var (
		v  *big.Int
		ok bool
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, ok = new(big.Int).SetString(s[2:], 16)
	} else {
		v, ok = new(big.Int).SetString(s, 10)
	}
	if !ok || v.Sign() < 0 || v.Cmp(maxUint256) > 0 {
		return nil, errors.Wrapf(types.ErrMalformedProof, "invalid coordinate %q", s)
	}
	return v, nil
}
