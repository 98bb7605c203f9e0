package contracts

import (
	"math/big"
)

// VcAndDiscloseProof is the verifier's proof tuple. B is already in the
// verifier's coordinate order.
type VcAndDiscloseProof struct {
	A          [2]*big.Int
	B          [2][2]*big.Int
	C          [2]*big.Int
	PubSignals [21]*big.Int
}

// PackVerifySelfProof encodes verifySelfProof(proof).
func PackVerifySelfProof(proof VcAndDiscloseProof) ([]byte, error) {
	return MinterABI.Pack("verifySelfProof", proof)
}
