package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/types"
)

// VerificationKeyLoader load verification key bytes for specific circuit
type VerificationKeyLoader interface {
	Load(id types.CircuitID) ([]byte, error)
}

// FSKeyLoader read keys from filesystem
type FSKeyLoader struct {
	Dir string
}

// Load reads <Dir>/<id>.json. A missing file is ErrKeyNotFound.
func (m FSKeyLoader) Load(id types.CircuitID) ([]byte, error) {
	if m.Dir == "" {
		return nil, ErrKeyNotFound
	}
	key, err := os.ReadFile(filepath.Join(m.Dir, fmt.Sprintf("%v.json", id)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(ErrKeyNotFound, "circuit %s", id)
	}
	return key, err
}
