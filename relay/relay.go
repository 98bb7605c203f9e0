// Package relay submits identity proofs to the on-chain verifier on behalf of
// users, paying gas from a dedicated relay account.
package relay

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/cache"
	"github.com/seanhuang1228/buy4me/chain"
	"github.com/seanhuang1228/buy4me/constants"
	"github.com/seanhuang1228/buy4me/contracts"
	"github.com/seanhuang1228/buy4me/metrics"
	"github.com/seanhuang1228/buy4me/proofs"
	"github.com/seanhuang1228/buy4me/pubsignals"
	"github.com/seanhuang1228/buy4me/types"
	"go.uber.org/zap"
)

// ErrMalformedRequest is returned for bundles that cannot be relayed as sent.
var ErrMalformedRequest = errors.New("malformed verification request")

// PreVerifier checks a proof off-chain. *proofs.Verifier implements it.
type PreVerifier interface {
	Verify(circuit types.CircuitID, bundle *types.IdentityProofBundle) error
}

// Relay forwards identity proofs to the verifier contract.
type Relay struct {
	backend  chain.Backend
	sender   *chain.Sender
	verifier common.Address

	logger  *zap.Logger
	metrics metrics.RelayMetrics

	gasPrice      *big.Int
	fallbackGas   uint64
	bufferPercent uint64
	timeout       time.Duration
	poll          time.Duration
	chainID       *big.Int

	preVerifier PreVerifier
	requireDOB  bool

	verified cache.ICache[string]
	inflight *inflight
}

// Option configures a Relay.
type Option func(*Relay)

func WithLogger(l *zap.Logger) Option {
	return func(r *Relay) { r.logger = l }
}

func WithMetrics(m metrics.RelayMetrics) Option {
	return func(r *Relay) { r.metrics = m }
}

// WithGasPrice sets the legacy gas price. nil uses the node's suggestion.
func WithGasPrice(p *big.Int) Option {
	return func(r *Relay) { r.gasPrice = p }
}

// WithFallbackGasLimit sets the gas limit used when estimation fails.
func WithFallbackGasLimit(limit uint64) Option {
	return func(r *Relay) { r.fallbackGas = limit }
}

// WithGasBufferPercent scales successful estimates; 120 adds 20%.
func WithGasBufferPercent(p uint64) Option {
	return func(r *Relay) { r.bufferPercent = p }
}

func WithConfirmationTimeout(d time.Duration) Option {
	return func(r *Relay) { r.timeout = d }
}

func WithPollInterval(d time.Duration) Option {
	return func(r *Relay) { r.poll = d }
}

// WithChainID avoids asking the node for the chain id.
func WithChainID(id *big.Int) Option {
	return func(r *Relay) { r.chainID = id }
}

// WithPreVerifier checks proofs off-chain before spending gas.
func WithPreVerifier(v PreVerifier) Option {
	return func(r *Relay) { r.preVerifier = v }
}

// WithDateOfBirthRequired rejects proofs that do not disclose the date of birth.
func WithDateOfBirthRequired(required bool) Option {
	return func(r *Relay) { r.requireDOB = required }
}

// WithNullifierCache replaces the cache of verified nullifiers.
func WithNullifierCache(c cache.ICache[string]) Option {
	return func(r *Relay) { r.verified = c }
}

// New creates a relay paying gas from key and submitting to verifier.
func New(backend chain.Backend, key *ecdsa.PrivateKey, verifier common.Address, opts ...Option) (*Relay, error) {
	r := &Relay{
		backend:       backend,
		verifier:      verifier,
		logger:        zap.NewNop(),
		metrics:       metrics.NewNoopCollector(),
		gasPrice:      constants.GweiToWei(constants.DefaultRelayGasPriceGwei),
		fallbackGas:   constants.DefaultRelayGasLimit,
		bufferPercent: constants.GasLimitBufferPercent,
		timeout:       constants.ConfirmationTimeout,
		poll:          constants.ReceiptPollInterval,
		inflight:      newInflight(),
	}
	for _, o := range opts {
		o(r)
	}
	if r.verified == nil {
		r.verified = cache.NewInMemoryCache[string](constants.DefaultCacheMaxSize, constants.VerifiedNullifierTTL)
	}
	if verifier == (common.Address{}) {
		return nil, errors.New("verifier address is required")
	}

	sender, err := chain.NewSender(backend, key, r.chainID)
	if err != nil {
		return nil, errors.WithMessage(err, "relay account")
	}
	r.sender = sender
	return r, nil
}

// Address returns the relay account paying for verification.
func (r *Relay) Address() common.Address {
	return r.sender.From()
}

// Submit relays bundle to the verifier and waits for the result.
//
// Rejected proofs, replays and timeouts are outcomes, not errors. Errors are
// ErrMalformedRequest, chain.ErrNetworkFailure or context cancellation; if ctx
// ends after the transaction was broadcast, the pending outcome is returned
// along with the error.
func (r *Relay) Submit(ctx context.Context, bundle *types.IdentityProofBundle) (*Outcome, error) {
	start := time.Now()
	out := &Outcome{ID: uuid.New()}
	out.enter(StageReceived)
	log := r.logger.With(zap.Stringer("attemptID", out.ID))

	if err := bundle.Validate(); err != nil {
		return nil, errors.Wrap(ErrMalformedRequest, err.Error())
	}
	signals, err := pubsignals.Parse(bundle.PublicSignals)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedRequest, err.Error())
	}
	out.UserAddress = signals.UserAddress()
	out.Nullifier = signals.NullifierKey()
	log = log.With(zap.String("user", out.UserAddress.Hex()), zap.String("nullifier", out.Nullifier))
	log.Debug("proof received")

	release, err := r.inflight.acquire(ctx, out.Nullifier)
	if err != nil {
		return nil, err
	}
	defer release()

	if txHash, ok := r.verified.Get(out.Nullifier); ok {
		out.Status = StatusAlreadyVerified
		out.TxHash = txHash
		out.Reason = ReasonNullifierUsed
		return r.finish(log, out, start), nil
	}

	if status, reason := r.precheck(log, bundle, signals); status != "" {
		out.Status = status
		out.Reason = reason
		return r.finish(log, out, start), nil
	}

	proof, err := proofs.ToVerifierProof(bundle, signals)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedRequest, err.Error())
	}
	data, err := contracts.PackVerifySelfProof(proof)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack verifySelfProof")
	}
	out.enter(StageTransformed)
	log.Debug("proof transformed")

	est := chain.EstimateGasLimit(ctx, r.backend, ethereum.CallMsg{
		From:     r.sender.From(),
		To:       &r.verifier,
		GasPrice: r.gasPrice,
		Data:     data,
	}, r.bufferPercent, r.fallbackGas)
	out.GasLimit = est.Limit
	out.GasEstimated = est.Estimated
	if est.Estimated {
		out.enter(StageGasEstimated)
		log.Debug("gas estimated", zap.Uint64("gasLimit", est.Limit))
	} else {
		out.enter(StageGasEstimationFailed)
		r.metrics.RelayGasFallback()
		log.Warn("gas estimation failed, using fallback limit",
			zap.Uint64("gasLimit", est.Limit), zap.Error(est.Err))
	}

	tx, err := r.sender.Send(ctx, chain.Call{
		To:       r.verifier,
		Data:     data,
		GasLimit: est.Limit,
		GasPrice: r.gasPrice,
	})
	if err != nil {
		if chain.IsNetworkError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Error("failed to submit proof", zap.Error(err))
			return nil, err
		}
		out.Status = StatusTransactionFailed
		out.Reason = err.Error()
		return r.finish(log, out, start), nil
	}
	out.TxHash = tx.Hash().Hex()
	out.enter(StageSubmitted)
	log.Debug("proof submitted", zap.String("txHash", out.TxHash))

	receipt, err := chain.WaitForReceipt(ctx, r.backend, tx, r.sender.From(), r.timeout, r.poll)
	if receipt == nil {
		log.Error("failed to wait for verification", zap.String("txHash", out.TxHash), zap.Error(err))
		return nil, err
	}
	switch receipt.Status {
	case chain.ReceiptConfirmed:
		out.enter(StageConfirmed)
		out.Status = StatusConfirmed
	case chain.ReceiptPending:
		out.enter(StagePending)
		out.Status = StatusPending
		out.Reason = chain.ErrConfirmationTimeout.Error()
	case chain.ReceiptReverted:
		out.enter(StageReverted)
		out.Reason = receipt.RevertReason
		out.Status = classifyRevert(receipt.RevertReason)
	}
	if out.Verified() {
		r.verified.Set(out.Nullifier, out.TxHash)
	}
	return r.finish(log, out, start), err
}

// precheck runs the off-chain checks. An empty status means the proof may be sent.
func (r *Relay) precheck(log *zap.Logger, bundle *types.IdentityProofBundle, signals *pubsignals.VcAndDisclose) (Status, string) {
	if r.requireDOB {
		if _, ok := signals.DateOfBirth(); !ok {
			return StatusProofInvalid, ReasonDateOfBirthNotExposed
		}
	}
	if r.preVerifier == nil {
		return "", ""
	}
	err := r.preVerifier.Verify(types.VcAndDiscloseCircuitID, bundle)
	switch {
	case err == nil:
		return "", ""
	case errors.Is(err, proofs.ErrVerificationKeyNotFound):
		log.Debug("no verification key, skipping off-chain check")
		return "", ""
	case errors.Is(err, proofs.ErrInvalidProof), errors.Is(err, types.ErrMalformedProof):
		log.Info("off-chain verification failed", zap.Error(err))
		return StatusProofInvalid, ReasonPreVerificationFailed
	default:
		// the verifier contract still checks the proof
		log.Warn("off-chain verification unavailable", zap.Error(err))
		return "", ""
	}
}

func (r *Relay) finish(log *zap.Logger, out *Outcome, start time.Time) *Outcome {
	r.metrics.RelayOutcome(string(out.Status), time.Since(start))
	fields := []zap.Field{
		zap.String("status", string(out.Status)),
		zap.String("txHash", out.TxHash),
		zap.String("reason", out.Reason),
		zap.Uint64("gasLimit", out.GasLimit),
	}
	if out.Verified() {
		log.Info("verification finished", fields...)
	} else {
		log.Warn("verification not confirmed", fields...)
	}
	return out
}
