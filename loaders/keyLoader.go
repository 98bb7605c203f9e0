package loaders

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/types"
)

// ErrKeyNotFound is returned when key is not found
var ErrKeyNotFound = errors.New("key not found")

// KeyLoader wraps a primary loader with an in-memory cache.
type KeyLoader struct {
	keyLoader VerificationKeyLoader
	cache     map[types.CircuitID][]byte
	cacheMu   *sync.RWMutex
	useCache  bool
}

// NewKeyLoader creates a loader with caching enabled and no key source.
// Use options to customize behavior:
//   - WithKeyLoader to set the key source
//   - WithCacheDisabled to disable caching
//
// Example:
//
//	loader := NewKeyLoader(WithKeyLoader(FSKeyLoader{Dir: "/path/to/keys"}))
func NewKeyLoader(opts ...Option) *KeyLoader {
	loader := &KeyLoader{
		useCache: true,
		cache:    make(map[types.CircuitID][]byte),
		cacheMu:  &sync.RWMutex{},
	}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Option defines functional option for configuring KeyLoader
type Option func(*KeyLoader)

// WithKeyLoader sets the loader keys are read from.
func WithKeyLoader(loader VerificationKeyLoader) Option {
	return func(e *KeyLoader) {
		e.keyLoader = loader
	}
}

// WithCacheDisabled disables caching of loaded keys
func WithCacheDisabled() Option {
	return func(e *KeyLoader) {
		e.useCache = false
		e.cache = nil
	}
}

// Load returns the cached key or reads it from the key source.
// Without a key source every circuit is ErrKeyNotFound.
func (e *KeyLoader) Load(id types.CircuitID) ([]byte, error) {
	if e.useCache {
		if key := e.getFromCache(id); key != nil {
			return key, nil
		}
	}
	if e.keyLoader == nil {
		return nil, errors.Wrapf(ErrKeyNotFound, "circuit %s", id)
	}

	key, err := e.keyLoader.Load(id)
	if err != nil {
		return nil, err
	}
	e.storeInCache(id, key)
	return key, nil
}

func (e *KeyLoader) getFromCache(id types.CircuitID) []byte {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()
	return e.cache[id]
}

func (e *KeyLoader) storeInCache(id types.CircuitID, key []byte) {
	if !e.useCache {
		return
	}
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.cache[id] = key
}
