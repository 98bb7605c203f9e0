// Package buy4me assembles the proof relay, the delegation resolver and
// purchase sessions from a Config.
package buy4me

import (
	"context"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/seanhuang1228/buy4me/chain"
	"github.com/seanhuang1228/buy4me/config"
	"github.com/seanhuang1228/buy4me/constants"
	"github.com/seanhuang1228/buy4me/contracts"
	"github.com/seanhuang1228/buy4me/delegation"
	"github.com/seanhuang1228/buy4me/loaders"
	"github.com/seanhuang1228/buy4me/metrics"
	"github.com/seanhuang1228/buy4me/proofs"
	"github.com/seanhuang1228/buy4me/purchase"
	"github.com/seanhuang1228/buy4me/relay"
	"github.com/seanhuang1228/buy4me/server"
	"github.com/seanhuang1228/buy4me/store"
	"go.uber.org/zap"
)

// App holds the shared chain connection and collectors.
type App struct {
	cfg      *config.Config
	backend  chain.Backend
	chainID  *big.Int
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collector
	closer   func()
}

// Dial connects to cfg.RPCURL. The chain id is read from the node unless configured.
func Dial(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %s", cfg.RPCURL)
	}
	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, chain.WrapNetwork(err, "failed to read chain id")
		}
	}
	app := NewApp(cfg, client, chainID, logger)
	app.closer = client.Close
	return app, nil
}

// NewApp builds an App over an existing backend.
func NewApp(cfg *config.Config, backend chain.Backend, chainID *big.Int, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := prometheus.NewRegistry()
	return &App{
		cfg:      cfg,
		backend:  backend,
		chainID:  chainID,
		logger:   logger,
		registry: registry,
		metrics:  metrics.NewCollector(registry),
		closer:   func() {},
	}
}

// Close releases the chain connection.
func (a *App) Close() {
	a.closer()
}

// Config returns the configuration the App was built from.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Registry is the prometheus registry every collector of the App uses.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Relay builds the proof relay signing with the configured relay key.
func (a *App) Relay() (*relay.Relay, error) {
	key, err := a.cfg.RelayKey()
	if err != nil {
		return nil, err
	}
	verifier, err := a.cfg.Address(config.KeyVerifierAddress)
	if err != nil {
		return nil, err
	}

	opts := []relay.Option{
		relay.WithLogger(a.logger.Named("relay")),
		relay.WithMetrics(a.metrics),
		relay.WithChainID(a.chainID),
		relay.WithGasPrice(constants.GweiToWei(a.cfg.GasPriceGwei)),
		relay.WithFallbackGasLimit(a.cfg.RelayGasLimit),
		relay.WithGasBufferPercent(a.cfg.GasBufferPercent),
		relay.WithConfirmationTimeout(a.cfg.ConfirmationTimeout),
		relay.WithPollInterval(a.cfg.PollInterval),
		relay.WithDateOfBirthRequired(a.cfg.RequireDateOfBirth),
	}
	if a.cfg.VerificationKeyDir != "" {
		keys := loaders.NewKeyLoader(loaders.WithKeyLoader(loaders.FSKeyLoader{Dir: a.cfg.VerificationKeyDir}))
		opts = append(opts, relay.WithPreVerifier(proofs.NewVerifier(keys)))
	}
	return relay.New(a.backend, key, verifier, opts...)
}

// Server builds the HTTP front of r.
func (a *App) Server(r *relay.Relay) *server.Server {
	return server.New(server.Config{
		Addr:           a.cfg.ListenAddr,
		AllowedOrigins: a.cfg.AllowedOrigins,
		RelayAddress:   r.Address().Hex(),
	}, r, store.FileStore{Dir: a.cfg.ProofDir}, a.registry, a.logger.Named("server"))
}

// Resolver builds the delegation resolver over the pass contract.
func (a *App) Resolver() (*delegation.ETHResolver, error) {
	pass, err := a.cfg.Address(config.KeyPassAddress)
	if err != nil {
		return nil, err
	}
	return delegation.NewETHResolver(
		contracts.NewPassCaller(pass, a.backend),
		delegation.WithLogger(a.logger.Named("resolver")),
		delegation.WithMetrics(a.metrics),
		delegation.WithRetry(constants.ResolverRetryBase, constants.ResolverMaxRetries),
	), nil
}

// TicketCaller reads the ticket seller contract.
func (a *App) TicketCaller() (*contracts.TicketCaller, error) {
	ticket, err := a.cfg.Address(config.KeyTicketAddress)
	if err != nil {
		return nil, err
	}
	return contracts.NewTicketCaller(ticket, a.backend), nil
}

// Session opens a purchase session for the configured buyer key. Without a
// max-tickets setting the cap is read from the ticket seller.
func (a *App) Session(ctx context.Context) (*purchase.Session, error) {
	key, err := a.cfg.BuyerKey()
	if err != nil {
		return nil, err
	}
	ticket, err := a.cfg.Address(config.KeyTicketAddress)
	if err != nil {
		return nil, err
	}
	resolver, err := a.Resolver()
	if err != nil {
		return nil, err
	}
	purchaser, err := purchase.NewTicketPurchaser(a.backend, key, ticket, a.chainID, a.logger.Named("purchaser"))
	if err != nil {
		return nil, err
	}
	purchaser.FallbackGasLimit = a.cfg.PurchaseGasLimit
	purchaser.GasBufferPercent = a.cfg.GasBufferPercent
	purchaser.Timeout = a.cfg.ConfirmationTimeout
	purchaser.PollInterval = a.cfg.PollInterval

	maxTickets := a.cfg.MaxTickets
	if maxTickets == 0 {
		if maxTickets, err = a.maxTickets(ctx, ticket); err != nil {
			return nil, err
		}
	}

	return purchase.NewSession(purchaser.Buyer(), resolver, purchaser,
		purchase.WithLogger(a.logger.Named("purchase")),
		purchase.WithMetrics(a.metrics),
		purchase.WithMaxTickets(maxTickets),
	), nil
}

func (a *App) maxTickets(ctx context.Context, ticket common.Address) (int, error) {
	limit, err := contracts.NewTicketCaller(ticket, a.backend).MaxTicketAmountCanBuy(&bind.CallOpts{Context: ctx})
	if err != nil {
		if chain.IsNetworkError(err) {
			return 0, chain.WrapNetwork(err, "failed to read ticket cap")
		}
		return 0, errors.WithMessage(err, "failed to read ticket cap")
	}
	if limit.Sign() <= 0 || !limit.IsInt64() || limit.Int64() > math.MaxInt32 {
		return 0, errors.Errorf("ticket seller reports an unusable cap %s", limit)
	}
	return int(limit.Int64()), nil
}

// Checker returns a latest-input candidate checker for caller.
func (a *App) Checker(caller common.Address) (*purchase.CandidateChecker, error) {
	resolver, err := a.Resolver()
	if err != nil {
		return nil, err
	}
	return purchase.NewCandidateChecker(resolver, caller), nil
}
