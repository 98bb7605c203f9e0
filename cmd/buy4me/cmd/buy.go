package cmd

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me"
	"github.com/seanhuang1228/buy4me/chain"
	"github.com/seanhuang1228/buy4me/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flagPrice string

var buyCmd = &cobra.Command{
	Use:   "buy [address|token-id...]",
	Short: "Buy one ticket for the buyer and one for each delegating pass holder",
	RunE:  runBuy,
}

func init() {
	rootCmd.AddCommand(buyCmd)

	buyCmd.Flags().StringVar(&flagPrice, "price", "", "unit price in wei, read from the ticket contract when empty")
	buyCmd.Flags().Int(config.KeyMaxTickets, 0, "tickets per purchase including your own, read from the ticket contract when 0")
	_ = viper.BindPFlag(config.KeyMaxTickets, buyCmd.Flags().Lookup(config.KeyMaxTickets))
}

func runBuy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, _, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	session, err := app.Session(ctx)
	if err != nil {
		return err
	}
	for _, raw := range args {
		if _, err := session.AddDelegate(ctx, raw); err != nil {
			return errors.WithMessagef(err, "delegate %q", raw)
		}
	}

	price, err := unitPrice(cmd, app)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "buying %d tickets for %s wei\n", len(session.Delegates())+1, session.TotalPrice(price))

	receipt, err := session.Buy(ctx, price)
	if err != nil {
		return err
	}
	switch receipt.Status {
	case chain.ReceiptPending:
		fmt.Fprintf(out, "transaction %s is still pending\n", receipt.TxHash.Hex())
	default:
		fmt.Fprintf(out, "confirmed in block %s: %s\n", receipt.BlockNumber, receipt.TxHash.Hex())
	}
	return nil
}

func unitPrice(cmd *cobra.Command, app *buy4me.App) (*big.Int, error) {
	if flagPrice != "" {
		price, ok := new(big.Int).SetString(flagPrice, 10)
		if !ok || price.Sign() <= 0 {
			return nil, errors.Errorf("price %q is not a positive wei amount", flagPrice)
		}
		return price, nil
	}
	ticket, err := app.TicketCaller()
	if err != nil {
		return nil, err
	}
	price, err := ticket.TicketPrice(&bind.CallOpts{Context: cmd.Context()})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to read ticket price")
	}
	return price, nil
}
