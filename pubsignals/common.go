package pubsignals

import (
	"math/big"
	"strings"

	"github.com/iden3/go-iden3-crypto/utils"
	"github.com/pkg/errors"
)

// ArrayStringToBigInt converts decimal or 0x-hex strings to field elements.
func ArrayStringToBigInt(s []string) ([]*big.Int, error) {
	o := make([]*big.Int, 0, len(s))
	for i := 0; i < len(s); i++ {
		si, err := stringToBigInt(s[i])
		if err != nil {
			return nil, errors.WithMessagef(err, "signal %d", i)
		}
		o = append(o, si)
	}
	return o, nil
}

func stringToBigInt(s string) (*big.Int, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidSignal, "can not parse string to *big.Int: %q", s)
	}
	if n.Sign() < 0 || !utils.CheckBigIntInField(n) {
		return nil, errors.Wrapf(ErrSignalOutOfField, "%s", n)
	}
	return n, nil
}
