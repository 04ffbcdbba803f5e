package cmd

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newVerifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Validate the stored chain from genesis.",
		RunE: func(cmd *cobra.Command, args []string) error {
			strg, err := opts.openStorage()
			if err != nil {
				return err
			}
			defer strg.Close()

			blocks, err := storage.ReadAll(strg)
			if err != nil {
				return err
			}

			if err := ledger.ValidateChain(blocks); err != nil {
				pterm.Error.WithWriter(cmd.OutOrStdout()).Printfln("chain of %d blocks is not valid: %s", len(blocks), err)
				return fmt.Errorf("verify: %w", err)
			}

			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("chain of %d blocks is valid", len(blocks))

			return nil
		},
	}
}
