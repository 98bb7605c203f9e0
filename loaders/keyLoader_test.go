package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockKeyLoader implements VerificationKeyLoader for testing
type MockKeyLoader struct {
	keys  map[types.CircuitID][]byte
	err   error
	calls int
}

func (m *MockKeyLoader) Load(id types.CircuitID) ([]byte, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if key, ok := m.keys[id]; ok {
		return key, nil
	}
	return nil, ErrKeyNotFound
}

func TestNewKeyLoader(t *testing.T) {
	t.Run("default configuration", func(t *testing.T) {
		loader := NewKeyLoader()
		assert.True(t, loader.useCache)
		assert.NotNil(t, loader.cache)
		assert.Nil(t, loader.keyLoader)
	})

	t.Run("multiple options", func(t *testing.T) {
		mockLoader := &MockKeyLoader{}
		loader := NewKeyLoader(
			WithKeyLoader(mockLoader),
			WithCacheDisabled(),
		)
		assert.False(t, loader.useCache)
		assert.Nil(t, loader.cache)
		assert.Equal(t, mockLoader, loader.keyLoader)
	})
}

func TestKeyLoader_Load(t *testing.T) {
	testKey := []byte("test-key-data")
	testID := types.VcAndDiscloseCircuitID

	t.Run("load and cache", func(t *testing.T) {
		mockLoader := &MockKeyLoader{keys: map[types.CircuitID][]byte{testID: testKey}}
		loader := NewKeyLoader(WithKeyLoader(mockLoader))

		for i := 0; i < 2; i++ {
			key, err := loader.Load(testID)
			require.NoError(t, err)
			assert.Equal(t, testKey, key)
		}
		assert.Equal(t, 1, mockLoader.calls)
		assert.Equal(t, testKey, loader.getFromCache(testID))
	})

	t.Run("no cache", func(t *testing.T) {
		mockLoader := &MockKeyLoader{keys: map[types.CircuitID][]byte{testID: testKey}}
		loader := NewKeyLoader(WithKeyLoader(mockLoader), WithCacheDisabled())

		for i := 0; i < 2; i++ {
			_, err := loader.Load(testID)
			require.NoError(t, err)
		}
		assert.Equal(t, 2, mockLoader.calls)
	})

	t.Run("source error is returned", func(t *testing.T) {
		loader := NewKeyLoader(WithKeyLoader(&MockKeyLoader{err: errors.New("disk on fire")}))
		_, err := loader.Load(testID)
		require.EqualError(t, err, "disk on fire")
	})

	t.Run("no source", func(t *testing.T) {
		_, err := NewKeyLoader().Load(testID)
		require.ErrorIs(t, err, ErrKeyNotFound)
	})
}

func TestFSKeyLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vc_and_disclose.json"), []byte(`{"protocol":"groth16"}`), 0o600))

	key, err := FSKeyLoader{Dir: dir}.Load(types.VcAndDiscloseCircuitID)
	require.NoError(t, err)
	require.JSONEq(t, `{"protocol":"groth16"}`, string(key))

	_, err = FSKeyLoader{Dir: dir}.Load("missing")
	require.ErrorIs(t, err, ErrKeyNotFound)

	_, err = FSKeyLoader{}.Load(types.VcAndDiscloseCircuitID)
	require.ErrorIs(t, err, ErrKeyNotFound)
}
