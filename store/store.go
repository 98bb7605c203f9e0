// Package store keeps identity proofs on disk, one JSON file per user.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/identifier"
	"github.com/seanhuang1228/buy4me/types"
)

var (
	// ErrProofNotFound is returned by Load when nothing is stored for the user.
	ErrProofNotFound = errors.New("proof not found")
	// ErrInvalidUserID is returned for ids that are not account addresses.
	ErrInvalidUserID = errors.New("invalid user id")
)

// ProofStore saves and loads proof bundles by user id.
type ProofStore interface {
	Save(userID string, bundle *types.IdentityProofBundle) error
	Load(userID string) (*types.IdentityProofBundle, error)
}

// FileStore writes <Dir>/<userID>.json.
type FileStore struct {
	Dir string
}

var _ ProofStore = FileStore{}

// Save writes bundle atomically, replacing any earlier proof of the user.
func (s FileStore) Save(userID string, bundle *types.IdentityProofBundle) error {
	path, err := s.path(userID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return errors.Wrap(err, "failed to create proof directory")
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode proof")
	}

	tmp, err := os.CreateTemp(s.Dir, ".proof-*")
	if err != nil {
		return errors.Wrap(err, "failed to create proof file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write proof")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to write proof")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "failed to store proof")
}

// Load reads the proof stored for userID.
func (s FileStore) Load(userID string) (*types.IdentityProofBundle, error) {
	path, err := s.path(userID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(ErrProofNotFound, "user %s", userID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read proof")
	}
	var bundle types.IdentityProofBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, errors.Wrapf(err, "corrupt proof file for user %s", userID)
	}
	return &bundle, nil
}

// path only accepts account addresses, which keeps ids from escaping Dir.
// Addresses are stored lower-cased so that checksum and plain forms match.
func (s FileStore) path(userID string) (string, error) {
	if !identifier.IsValid(userID) {
		return "", errors.Wrapf(ErrInvalidUserID, "%q", userID)
	}
	return filepath.Join(s.Dir, strings.ToLower(userID)+".json"), nil
}
