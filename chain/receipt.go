package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// ErrConfirmationTimeout is attached to pending receipts.
var ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")

// ReceiptStatus is the outcome of waiting for a transaction.
type ReceiptStatus string

const (
	ReceiptConfirmed ReceiptStatus = "confirmed"
	ReceiptReverted  ReceiptStatus = "reverted"
	// ReceiptPending means the wait timed out. The transaction may still land.
	ReceiptPending ReceiptStatus = "pending"
)

// OutOfGasReason is reported for reverts that consumed the whole gas limit.
const OutOfGasReason = "out of gas"

// Receipt summarizes a mined (or not yet mined) transaction.
type Receipt struct {
	TxHash       common.Hash
	Status       ReceiptStatus
	BlockNumber  *big.Int
	GasUsed      uint64
	GasLimit     uint64
	RevertReason string
}

// WaitForReceipt polls for the receipt of tx until it is mined or timeout elapses.
// A timeout is not an error: the returned receipt has status ReceiptPending.
// from is used to replay reverted transactions and recover the reason.
func WaitForReceipt(ctx context.Context, b Backend, tx *types.Transaction, from common.Address, timeout, poll time.Duration) (*Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	pending := &Receipt{TxHash: tx.Hash(), Status: ReceiptPending, GasLimit: tx.Gas()}
	for {
		r, err := b.TransactionReceipt(waitCtx, tx.Hash())
		if err == nil && r != nil {
			return classify(ctx, b, tx, from, r), nil
		}
		if err != nil && waitCtx.Err() == nil &&
			!errors.Is(err, ethereum.NotFound) && !IsNetworkError(err) {
			return nil, errors.Wrap(err, "failed to get transaction receipt")
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return pending, ctx.Err()
			}
			return pending, nil
		case <-ticker.C:
		}
	}
}

func classify(ctx context.Context, b Backend, tx *types.Transaction, from common.Address, r *types.Receipt) *Receipt {
	out := &Receipt{
		TxHash:      tx.Hash(),
		BlockNumber: r.BlockNumber,
		GasUsed:     r.GasUsed,
		GasLimit:    tx.Gas(),
	}
	if r.Status == types.ReceiptStatusSuccessful {
		out.Status = ReceiptConfirmed
		return out
	}
	out.Status = ReceiptReverted
	if r.GasUsed >= tx.Gas() {
		out.RevertReason = OutOfGasReason
		return out
	}
	out.RevertReason = replayRevert(ctx, b, tx, from, r.BlockNumber)
	return out
}

// replayRevert re-executes tx at its block to recover the revert reason.
func replayRevert(ctx context.Context, b Backend, tx *types.Transaction, from common.Address, block *big.Int) string {
	msg := ethereum.CallMsg{
		From:     from,
		To:       tx.To(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
		Value:    tx.Value(),
		Data:     tx.Data(),
	}
	_, err := b.CallContract(ctx, msg, block)
	if err == nil {
		return ""
	}
	if reason, ok := RevertReason(err); ok {
		return reason
	}
	return err.Error()
}
