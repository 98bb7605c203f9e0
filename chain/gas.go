package chain

import (
	"context"

	"github.com/ethereum/go-ethereum"
)

// GasEstimate is the gas limit chosen for a transaction.
type GasEstimate struct {
	Limit uint64
	// Estimated is false when the node could not estimate and Limit is the fallback.
	Estimated bool
	// Err is the estimation failure, kept for logging.
	Err error
}

// EstimateGasLimit asks the node for an estimate and scales it by bufferPercent
// (120 means +20%). On any estimation failure the fallback limit is returned.
func EstimateGasLimit(ctx context.Context, b Backend, msg ethereum.CallMsg, bufferPercent, fallback uint64) GasEstimate {
	est, err := b.EstimateGas(ctx, msg)
	if err != nil {
		return GasEstimate{Limit: fallback, Err: err}
	}
	if bufferPercent == 0 {
		bufferPercent = 100
	}
	return GasEstimate{Limit: est * bufferPercent / 100, Estimated: true}
}
