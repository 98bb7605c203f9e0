package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/seanhuang1228/buy4me"
	"github.com/seanhuang1228/buy4me/config"
	"github.com/seanhuang1228/buy4me/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var flagEnvFile string

var rootCmd = &cobra.Command{
	Use:          "buy4me",
	Short:        "Relay identity proofs and buy tickets on behalf of verified pass holders",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String(config.KeyStage, "dev", "deployment stage, prod logs JSON")
	flags.String(config.KeyLogLevel, "info", "log level")
	flags.String(config.KeyRPCURL, "", "JSON-RPC endpoint of the chain")
	flags.Int64(config.KeyChainID, 0, "chain id, 0 reads it from the node")
	flags.String(config.KeyVerifierAddress, "", "identity verifier contract")
	flags.String(config.KeyPassAddress, "", "pass contract holding eligibility and delegation")
	flags.String(config.KeyTicketAddress, "", "ticket seller contract")
	flags.Duration(config.KeyConfirmationTimeout, 0, "how long to wait for a transaction to be mined")
	_ = viper.BindPFlags(flags)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	config.SetDefaults(viper.GetViper())
}

// setup loads the configuration, builds the logger and dials the chain.
func setup(ctx context.Context) (*buy4me.App, *zap.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Stage, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	app, err := buy4me.Dial(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return app, log, nil
}
