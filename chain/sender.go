package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// ErrNoSigningKey is returned by NewSender when no key is given.
var ErrNoSigningKey = errors.New("signing key is required")

// Call describes a state-changing contract call.
type Call struct {
	To       common.Address
	Value    *big.Int
	Data     []byte
	GasLimit uint64
	// GasPrice is optional; the node's suggestion is used when nil.
	GasPrice *big.Int
}

// Sender signs and broadcasts transactions from a single account. Sends are
// serialized so that concurrent callers never reuse a nonce.
type Sender struct {
	backend Backend
	key     *ecdsa.PrivateKey
	from    common.Address

	mu         sync.Mutex
	signer     types.Signer
	chainID    *big.Int
	nonce      uint64
	nonceKnown bool
}

// NewSender returns a sender for key. chainID may be nil, in which case it is
// fetched from the backend on first send.
func NewSender(backend Backend, key *ecdsa.PrivateKey, chainID *big.Int) (*Sender, error) {
	if key == nil {
		return nil, ErrNoSigningKey
	}
	s := &Sender{
		backend: backend,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
	}
	if chainID != nil {
		s.chainID = new(big.Int).Set(chainID)
		s.signer = types.LatestSignerForChainID(s.chainID)
	}
	return s, nil
}

// From returns the sending account.
func (s *Sender) From() common.Address {
	return s.from
}

// Send signs call as a legacy transaction and broadcasts it.
func (s *Sender) Send(ctx context.Context, call Call) (*types.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signer == nil {
		id, err := s.backend.ChainID(ctx)
		if err != nil {
			return nil, WrapNetwork(err, "failed to get chain id")
		}
		s.chainID = id
		s.signer = types.LatestSignerForChainID(id)
	}

	if !s.nonceKnown {
		n, err := s.backend.PendingNonceAt(ctx, s.from)
		if err != nil {
			return nil, WrapNetwork(err, "failed to get nonce")
		}
		s.nonce = n
		s.nonceKnown = true
	}

	gasPrice := call.GasPrice
	if gasPrice == nil {
		p, err := s.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, WrapNetwork(err, "failed to suggest gas price")
		}
		gasPrice = p
	}

	value := call.Value
	if value == nil {
		value = new(big.Int)
	}
	to := call.To
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    s.nonce,
		GasPrice: gasPrice,
		Gas:      call.GasLimit,
		To:       &to,
		Value:    value,
		Data:     call.Data,
	})
	signed, err := types.SignTx(tx, s.signer, s.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}
	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		// the node's view of the nonce is authoritative after a failed send
		s.nonceKnown = false
		return nil, WrapNetwork(err, "failed to send transaction")
	}
	s.nonce++
	return signed, nil
}
