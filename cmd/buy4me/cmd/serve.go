package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/seanhuang1228/buy4me/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the proof relay over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String(config.KeyListenAddr, "", "address to listen on")
	serveCmd.Flags().String(config.KeyProofDir, "", "directory for stored proofs")
	serveCmd.Flags().String(config.KeyVerificationKeyDir, "", "Groth16 verification keys, enables the off-chain pre-check")
	serveCmd.Flags().Bool(config.KeyRequireDateOfBirth, false, "reject proofs that do not disclose the date of birth")
	_ = viper.BindPFlags(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	defer func() { _ = log.Sync() }()

	r, err := app.Relay()
	if err != nil {
		return err
	}
	log.Info("relay ready", zap.String("address", r.Address().Hex()))
	return app.Server(r).Run(ctx)
}
