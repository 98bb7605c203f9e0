package pubsignals

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Offsets of the vc_and_disclose public signals.
const (
	RevealedDataPackedIndex       = 0
	RevealedDataPackedLen         = 3
	ForbiddenCountriesPackedIndex = 3
	ForbiddenCountriesPackedLen   = 4
	NullifierIndex                = 7
	AttestationIDIndex            = 8
	MerkleRootIndex               = 9
	CurrentDateIndex              = 10
	CurrentDateLen                = 6
	PassportNoSMTRootIndex        = 16
	NameDOBSMTRootIndex           = 17
	NameYOBSMTRootIndex           = 18
	ScopeIndex                    = 19
	UserIdentifierIndex           = 20

	VcAndDiscloseSignalsLen = 21
)

const (
	revealedBytesPerElement = 31
	dateOfBirthStart        = 57
	dateOfBirthEnd          = 63
)

// VcAndDisclose is a typed view over the ordered public signals. The raw
// order is retained so the vector can be forwarded untouched.
type VcAndDisclose struct {
	RevealedDataPacked       [RevealedDataPackedLen]*big.Int
	ForbiddenCountriesPacked [ForbiddenCountriesPackedLen]*big.Int
	Nullifier                *big.Int
	AttestationID            *big.Int
	MerkleRoot               *big.Int
	CurrentDate              [CurrentDateLen]*big.Int
	PassportNoSMTRoot        *big.Int
	NameDOBSMTRoot           *big.Int
	NameYOBSMTRoot           *big.Int
	Scope                    *big.Int
	UserIdentifier           *big.Int

	raw []*big.Int
}

// Parse builds a VcAndDisclose from the client's signal strings.
func Parse(signals []string) (*VcAndDisclose, error) {
	if len(signals) != VcAndDiscloseSignalsLen {
		return nil, errors.Wrapf(ErrSignalsLength, "got %d, want %d", len(signals), VcAndDiscloseSignalsLen)
	}
	values, err := ArrayStringToBigInt(signals)
	if err != nil {
		return nil, err
	}
	s := &VcAndDisclose{raw: values}
	copy(s.RevealedDataPacked[:], values[RevealedDataPackedIndex:RevealedDataPackedIndex+RevealedDataPackedLen])
	copy(s.ForbiddenCountriesPacked[:], values[ForbiddenCountriesPackedIndex:ForbiddenCountriesPackedIndex+ForbiddenCountriesPackedLen])
	s.Nullifier = values[NullifierIndex]
	s.AttestationID = values[AttestationIDIndex]
	s.MerkleRoot = values[MerkleRootIndex]
	copy(s.CurrentDate[:], values[CurrentDateIndex:CurrentDateIndex+CurrentDateLen])
	s.PassportNoSMTRoot = values[PassportNoSMTRootIndex]
	s.NameDOBSMTRoot = values[NameDOBSMTRootIndex]
	s.NameYOBSMTRoot = values[NameYOBSMTRootIndex]
	s.Scope = values[ScopeIndex]
	s.UserIdentifier = values[UserIdentifierIndex]
	return s, nil
}

// PubSignalsUnmarshal unmarshals a JSON array of signal strings.
func (s *VcAndDisclose) PubSignalsUnmarshal(data []byte) error {
	var signals []string
	if err := json.Unmarshal(data, &signals); err != nil {
		return err
	}
	parsed, err := Parse(signals)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// UserAddress interprets the user identifier as a hex account address.
func (s *VcAndDisclose) UserAddress() common.Address {
	return common.BigToAddress(s.UserIdentifier)
}

// NullifierKey identifies a verification: one per nullifier and scope.
func (s *VcAndDisclose) NullifierKey() string {
	return fmt.Sprintf("%s:%s", s.Scope.String(), s.Nullifier.String())
}

// Array returns the signals in the order they were received.
func (s *VcAndDisclose) Array() [VcAndDiscloseSignalsLen]*big.Int {
	var out [VcAndDiscloseSignalsLen]*big.Int
	for i, v := range s.raw {
		out[i] = new(big.Int).Set(v)
	}
	return out
}

// RevealedData unpacks the disclosed bytes. Each packed element carries 31
// little-endian bytes.
func (s *VcAndDisclose) RevealedData() []byte {
	out := make([]byte, 0, RevealedDataPackedLen*revealedBytesPerElement)
	mask := big.NewInt(0xff)
	for _, packed := range s.RevealedDataPacked {
		v := new(big.Int).Set(packed)
		for i := 0; i < revealedBytesPerElement; i++ {
			out = append(out, byte(new(big.Int).And(v, mask).Uint64()))
			v.Rsh(v, 8)
		}
	}
	return out
}

// DateOfBirth returns the disclosed YYMMDD date of birth, if any.
func (s *VcAndDisclose) DateOfBirth() (string, bool) {
	dob := s.RevealedData()[dateOfBirthStart:dateOfBirthEnd]
	for _, b := range dob {
		if b != 0 {
			return string(dob), true
		}
	}
	return "", false
}

var _ Signals = (*VcAndDisclose)(nil)
