package proofs

import (
	"testing"

	"github.com/seanhuang1228/buy4me/loaders"
	"github.com/seanhuang1228/buy4me/types"
	"github.com/stretchr/testify/require"
)

type staticKeyLoader map[types.CircuitID][]byte

func (s staticKeyLoader) Load(id types.CircuitID) ([]byte, error) {
	if k, ok := s[id]; ok {
		return k, nil
	}
	return nil, loaders.ErrKeyNotFound
}

func TestVerifier_NoKey(t *testing.T) {
	v := NewVerifier(loaders.NewKeyLoader())
	err := v.Verify(types.VcAndDiscloseCircuitID, testBundle())
	require.ErrorIs(t, err, ErrVerificationKeyNotFound)
}

func TestVerifier_MalformedBundle(t *testing.T) {
	v := NewVerifier(staticKeyLoader{})
	err := v.Verify(types.VcAndDiscloseCircuitID, &types.IdentityProofBundle{})
	require.ErrorIs(t, err, types.ErrMissingProof)
}

func TestToZKProof(t *testing.T) {
	zk, err := toZKProof(testBundle())
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "1"}, zk.Proof.A)
	require.Equal(t, [][]string{{"3", "4"}, {"5", "6"}, {"1", "0"}}, zk.Proof.B)
	require.Equal(t, []string{"7", "8", "1"}, zk.Proof.C)
	require.Equal(t, "groth16", zk.Proof.Protocol)
	require.Equal(t, testPublicSignals(), zk.PubSignals)
}

func TestToZKProof_ProjectiveInput(t *testing.T) {
	b := testBundle()
	b.Proof.A = []string{"1", "2", "1"}
	b.Proof.B = append(b.Proof.B, []string{"1", "0"})
	zk, err := toZKProof(b)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "1"}, zk.Proof.A)
	require.Len(t, zk.Proof.B, 3)
}
