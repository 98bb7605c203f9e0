// Package identifier validates account identifiers and parses delegate candidates.
package identifier

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// ErrInvalidIdentifier is returned when input is neither an address nor a token id.
var ErrInvalidIdentifier = errors.New("invalid identifier")

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// IsValid reports whether s is a canonical 0x-prefixed account address.
// Mixed-case input must carry a valid EIP-55 checksum.
func IsValid(s string) bool {
	if len(s) != 2+2*common.AddressLength || !strings.HasPrefix(s, "0x") {
		return false
	}
	body := s[2:]
	if !isHex(body) {
		return false
	}
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return common.HexToAddress(s).Hex() == s
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Kind tags which form a Candidate was supplied in.
type Kind int

const (
	KindAddress Kind = iota + 1
	KindTokenID
)

func (k Kind) String() string {
	switch k {
	case KindAddress:
		return "address"
	case KindTokenID:
		return "token_id"
	default:
		return "unknown"
	}
}

// Candidate is a delegate as entered by the caller: either an owner address
// or the numeric id of the owner's eligibility credential.
type Candidate struct {
	Kind    Kind
	Address common.Address
	TokenID *big.Int
	Raw     string
}

// ParseCandidate classifies raw input. It never touches the network.
func ParseCandidate(raw string) (Candidate, error) {
	s := strings.TrimSpace(raw)
	if IsValid(s) {
		return Candidate{Kind: KindAddress, Address: common.HexToAddress(s), Raw: s}, nil
	}
	if s == "" || !isDecimal(s) {
		return Candidate{}, errors.Wrapf(ErrInvalidIdentifier, "%q", raw)
	}
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Sign() <= 0 || id.Cmp(maxUint256) > 0 {
		return Candidate{}, errors.Wrapf(ErrInvalidIdentifier, "token id %q out of range", raw)
	}
	return Candidate{Kind: KindTokenID, TokenID: id, Raw: s}, nil
}

func isDecimal(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (c Candidate) String() string {
	switch c.Kind {
	case KindAddress:
		return c.Address.Hex()
	case KindTokenID:
		return c.TokenID.String()
	default:
		return c.Raw
	}
}
