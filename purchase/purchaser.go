package purchase

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/chain"
	"github.com/seanhuang1228/buy4me/constants"
	"github.com/seanhuang1228/buy4me/contracts"
	"go.uber.org/zap"
)

// TicketPurchaser sends buyTicket from the buyer's own account.
type TicketPurchaser struct {
	backend chain.Backend
	sender  *chain.Sender
	ticket  common.Address
	logger  *zap.Logger

	GasPrice         *big.Int
	FallbackGasLimit uint64
	GasBufferPercent uint64
	Timeout          time.Duration
	PollInterval     time.Duration
}

// NewTicketPurchaser signs purchases with key. chainID may be nil.
func NewTicketPurchaser(backend chain.Backend, key *ecdsa.PrivateKey, ticket common.Address, chainID *big.Int, logger *zap.Logger) (*TicketPurchaser, error) {
	sender, err := chain.NewSender(backend, key, chainID)
	if err != nil {
		return nil, errors.WithMessage(err, "buyer account")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketPurchaser{
		backend:          backend,
		sender:           sender,
		ticket:           ticket,
		logger:           logger,
		FallbackGasLimit: constants.DefaultPurchaseGasLimit,
		GasBufferPercent: constants.GasLimitBufferPercent,
		Timeout:          constants.ConfirmationTimeout,
		PollInterval:     constants.ReceiptPollInterval,
	}, nil
}

// Buyer returns the paying account.
func (p *TicketPurchaser) Buyer() common.Address {
	return p.sender.From()
}

func (p *TicketPurchaser) Purchase(ctx context.Context, req PurchaseRequest) (*chain.Receipt, error) {
	if req.Buyer != p.sender.From() {
		return nil, errors.Errorf("purchase for %s cannot be signed by %s", req.Buyer.Hex(), p.sender.From().Hex())
	}
	data, err := contracts.PackBuyTicket(req.DelegateIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack buyTicket")
	}

	est := chain.EstimateGasLimit(ctx, p.backend, ethereum.CallMsg{
		From:     p.sender.From(),
		To:       &p.ticket,
		GasPrice: p.GasPrice,
		Value:    req.Value,
		Data:     data,
	}, p.GasBufferPercent, p.FallbackGasLimit)
	if !est.Estimated {
		p.logger.Warn("gas estimation failed, using fallback limit", zap.Uint64("gasLimit", est.Limit), zap.Error(est.Err))
	}

	tx, err := p.sender.Send(ctx, chain.Call{
		To:       p.ticket,
		Value:    req.Value,
		Data:     data,
		GasLimit: est.Limit,
		GasPrice: p.GasPrice,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("purchase submitted", zap.String("txHash", tx.Hash().Hex()))
	return chain.WaitForReceipt(ctx, p.backend, tx, p.sender.From(), p.Timeout, p.PollInterval)
}
