package constants

import (
	"math/big"
	"time"
)

const (
	DefaultCacheMaxSize int64 = 10_000

	// DefaultRelayGasLimit is used when gas estimation for verifySelfProof fails.
	DefaultRelayGasLimit uint64 = 1_000_000
	// DefaultPurchaseGasLimit is used when gas estimation for buyTicket fails.
	DefaultPurchaseGasLimit uint64 = 700_000
	// GasLimitBufferPercent is applied on top of a successful estimate.
	GasLimitBufferPercent uint64 = 120

	DefaultRelayGasPriceGwei int64 = 30

	ConfirmationTimeout  = 2 * time.Minute
	ReceiptPollInterval  = 2 * time.Second
	VerifiedNullifierTTL = 24 * time.Hour
	ResolverRetryBase    = 200 * time.Millisecond

	ResolverMaxRetries uint64 = 3

	// DefaultMaxTicketsPerPurchase mirrors maxTicketAmountCanBuy of the deployed seller.
	DefaultMaxTicketsPerPurchase = 4

	DefaultProofDir   = "tmp/zk-proof"
	DefaultListenAddr = ":3000"
)

var (
	// Gwei is 10^9 wei.
	Gwei = big.NewInt(1_000_000_000)
)

// GweiToWei converts a whole gwei amount to wei.
func GweiToWei(gwei int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(gwei), Gwei)
}
