package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/identifier"
	"github.com/spf13/cobra"
)

var flagCaller string

var checkCmd = &cobra.Command{
	Use:   "check <address|token-id>",
	Short: "Check whether a pass holder has authorized the caller",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&flagCaller, "caller", "", "acting account, defaults to the buyer key's address")
}

func runCheck(cmd *cobra.Command, args []string) error {
	app, _, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	var caller common.Address
	switch {
	case flagCaller != "":
		if !identifier.IsValid(flagCaller) {
			return errors.Errorf("caller %q is not an address", flagCaller)
		}
		caller = common.HexToAddress(flagCaller)
	default:
		key, err := app.Config().BuyerKey()
		if err != nil {
			return errors.WithMessage(err, "set --caller or a buyer key")
		}
		caller = crypto.PubkeyToAddress(key.PublicKey)
	}

	checker, err := app.Checker(caller)
	if err != nil {
		return err
	}
	res, err := checker.Check(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "owner %s (pass %s): authorized=%t\n", res.Owner.Hex(), res.OwnerID, res.Authorized)
	return nil
}
