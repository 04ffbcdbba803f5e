package cmd

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/block"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newMineCmd(opts *options) *cobra.Command {
	var data string

	mineCmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine a new block holding the data and store it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			strg, err := opts.openStorage()
			if err != nil {
				return err
			}

			st, err := state.New(state.Config{
				Storage:   strg,
				EvHandler: opts.evHandler(),
			})
			if err != nil {
				strg.Close()
				return err
			}
			defer st.Shutdown()

			spinner, err := pterm.DefaultSpinner.WithWriter(cmd.ErrOrStderr()).Start("mining")
			if err != nil {
				return fmt.Errorf("starting spinner: %w", err)
			}

			blockData, err := st.MineNewBlock(data)
			if err != nil {
				spinner.Fail(err.Error())
				return err
			}

			spinner.Success(fmt.Sprintf("mined block %d", blockData.Number))

			return renderBlocks(cmd.OutOrStdout(), blockData.Number, []block.Block{blockData.Block})
		},
	}

	mineCmd.Flags().StringVar(&data, "data", "", "Data to store in the block.")
	mineCmd.MarkFlagRequired("data")

	return mineCmd
}
