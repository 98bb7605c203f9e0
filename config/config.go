// Package config reads buy4me settings from flags, the environment and .env files.
package config

import (
	"crypto/ecdsa"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/constants"
	"github.com/seanhuang1228/buy4me/identifier"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. BUY4ME_RPC_URL.
const EnvPrefix = "BUY4ME"

// Keys shared by viper, cobra flags and the environment.
const (
	KeyStage               = "stage"
	KeyLogLevel            = "log-level"
	KeyRPCURL              = "rpc-url"
	KeyChainID             = "chain-id"
	KeyRelayPrivateKey     = "relay-private-key"
	KeyBuyerPrivateKey     = "buyer-private-key"
	KeyVerifierAddress     = "verifier-address"
	KeyPassAddress         = "pass-address"
	KeyTicketAddress       = "ticket-address"
	KeyGasPriceGwei        = "gas-price-gwei"
	KeyRelayGasLimit       = "relay-gas-limit"
	KeyPurchaseGasLimit    = "purchase-gas-limit"
	KeyGasBufferPercent    = "gas-buffer-percent"
	KeyConfirmationTimeout = "confirmation-timeout"
	KeyPollInterval        = "poll-interval"
	KeyRequireDateOfBirth  = "require-date-of-birth"
	KeyVerificationKeyDir  = "verification-key-dir"
	KeyProofDir            = "proof-dir"
	KeyListenAddr          = "listen-addr"
	KeyAllowedOrigins      = "allowed-origins"
	KeyMaxTickets          = "max-tickets"
)

var (
	// ErrMissingSetting is returned when a required setting is empty.
	ErrMissingSetting = errors.New("missing setting")
	// ErrInvalidSetting is returned when a setting cannot be used.
	ErrInvalidSetting = errors.New("invalid setting")
)

// Config is the full runtime configuration.
type Config struct {
	Stage    string
	LogLevel string

	RPCURL string
	// ChainID of zero means ask the node.
	ChainID int64

	RelayPrivateKey string
	BuyerPrivateKey string

	VerifierAddress string
	PassAddress     string
	TicketAddress   string

	GasPriceGwei        int64
	RelayGasLimit       uint64
	PurchaseGasLimit    uint64
	GasBufferPercent    uint64
	ConfirmationTimeout time.Duration
	PollInterval        time.Duration

	RequireDateOfBirth bool
	// VerificationKeyDir enables the off-chain Groth16 pre-check when set.
	VerificationKeyDir string

	ProofDir       string
	ListenAddr     string
	AllowedOrigins []string
	// MaxTickets of zero means read maxTicketAmountCanBuy from the ticket seller.
	MaxTickets int
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are ignored and existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.Wrapf(err, "failed to load %s", p)
		}
	}
	return nil
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// the relay key also answers to the plain PRIVATE_KEY variable
	_ = v.BindEnv(KeyRelayPrivateKey, EnvPrefix+"_RELAY_PRIVATE_KEY", "PRIVATE_KEY")

	v.SetDefault(KeyStage, "dev")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyRPCURL, "http://127.0.0.1:8545")
	v.SetDefault(KeyGasPriceGwei, constants.DefaultRelayGasPriceGwei)
	v.SetDefault(KeyRelayGasLimit, constants.DefaultRelayGasLimit)
	v.SetDefault(KeyPurchaseGasLimit, constants.DefaultPurchaseGasLimit)
	v.SetDefault(KeyGasBufferPercent, constants.GasLimitBufferPercent)
	v.SetDefault(KeyConfirmationTimeout, constants.ConfirmationTimeout)
	v.SetDefault(KeyPollInterval, constants.ReceiptPollInterval)
	v.SetDefault(KeyProofDir, constants.DefaultProofDir)
	v.SetDefault(KeyListenAddr, constants.DefaultListenAddr)
}

// Load reads the configuration from v. SetDefaults must have been called.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Stage:               v.GetString(KeyStage),
		LogLevel:            v.GetString(KeyLogLevel),
		RPCURL:              v.GetString(KeyRPCURL),
		ChainID:             v.GetInt64(KeyChainID),
		RelayPrivateKey:     v.GetString(KeyRelayPrivateKey),
		BuyerPrivateKey:     v.GetString(KeyBuyerPrivateKey),
		VerifierAddress:     v.GetString(KeyVerifierAddress),
		PassAddress:         v.GetString(KeyPassAddress),
		TicketAddress:       v.GetString(KeyTicketAddress),
		GasPriceGwei:        v.GetInt64(KeyGasPriceGwei),
		RelayGasLimit:       v.GetUint64(KeyRelayGasLimit),
		PurchaseGasLimit:    v.GetUint64(KeyPurchaseGasLimit),
		GasBufferPercent:    v.GetUint64(KeyGasBufferPercent),
		ConfirmationTimeout: v.GetDuration(KeyConfirmationTimeout),
		PollInterval:        v.GetDuration(KeyPollInterval),
		RequireDateOfBirth:  v.GetBool(KeyRequireDateOfBirth),
		VerificationKeyDir:  v.GetString(KeyVerificationKeyDir),
		ProofDir:            v.GetString(KeyProofDir),
		ListenAddr:          v.GetString(KeyListenAddr),
		AllowedOrigins:      splitList(v.GetString(KeyAllowedOrigins)),
		MaxTickets:          v.GetInt(KeyMaxTickets),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings shared by every command. Keys and contract
// addresses are checked where they are used.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return errors.WithMessage(ErrMissingSetting, KeyRPCURL)
	}
	for key, addr := range map[string]string{
		KeyVerifierAddress: c.VerifierAddress,
		KeyPassAddress:     c.PassAddress,
		KeyTicketAddress:   c.TicketAddress,
	} {
		if addr != "" && !identifier.IsValid(addr) {
			return errors.WithMessagef(ErrInvalidSetting, "%s %q is not an address", key, addr)
		}
	}
	if c.ChainID < 0 {
		return errors.WithMessagef(ErrInvalidSetting, "%s must not be negative", KeyChainID)
	}
	if c.GasPriceGwei < 0 {
		return errors.WithMessagef(ErrInvalidSetting, "%s must not be negative", KeyGasPriceGwei)
	}
	if c.GasBufferPercent < 100 {
		return errors.WithMessagef(ErrInvalidSetting, "%s must be at least 100", KeyGasBufferPercent)
	}
	if c.RelayGasLimit == 0 || c.PurchaseGasLimit == 0 {
		return errors.WithMessage(ErrInvalidSetting, "fallback gas limits must be positive")
	}
	if c.ConfirmationTimeout <= 0 || c.PollInterval <= 0 {
		return errors.WithMessage(ErrInvalidSetting, "confirmation timeout and poll interval must be positive")
	}
	if c.MaxTickets < 0 {
		return errors.WithMessagef(ErrInvalidSetting, "%s must not be negative", KeyMaxTickets)
	}
	return nil
}

// RelayKey parses the relay signing key.
func (c *Config) RelayKey() (*ecdsa.PrivateKey, error) {
	return parseKey(KeyRelayPrivateKey, c.RelayPrivateKey)
}

// BuyerKey parses the purchaser signing key.
func (c *Config) BuyerKey() (*ecdsa.PrivateKey, error) {
	return parseKey(KeyBuyerPrivateKey, c.BuyerPrivateKey)
}

// Address returns the configured contract address for key, failing when unset.
func (c *Config) Address(key string) (common.Address, error) {
	var s string
	switch key {
	case KeyVerifierAddress:
		s = c.VerifierAddress
	case KeyPassAddress:
		s = c.PassAddress
	case KeyTicketAddress:
		s = c.TicketAddress
	default:
		return common.Address{}, errors.WithMessagef(ErrInvalidSetting, "%s is not an address setting", key)
	}
	if s == "" {
		return common.Address{}, errors.WithMessage(ErrMissingSetting, key)
	}
	return common.HexToAddress(s), nil
}

func parseKey(name, hex string) (*ecdsa.PrivateKey, error) {
	if hex == "" {
		return nil, errors.WithMessage(ErrMissingSetting, name)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hex, "0x"))
	if err != nil {
		// the key itself is never part of the message
		return nil, errors.WithMessagef(ErrInvalidSetting, "%s is not a secp256k1 private key", name)
	}
	return key, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
