package cmd

import (
	"io"
	"strconv"

	"github.com/ardanlabs/powledger/foundation/blockchain/block"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every stored block.",
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

			return renderBlocks(cmd.OutOrStdout(), 0, blocks)
		},
	}
}

// renderBlocks writes the blocks as a table. The first block is numbered
// by first.
func renderBlocks(w io.Writer, first uint64, blocks []block.Block) error {
	data := pterm.TableData{
		{"Number", "Timestamp", "Difficulty", "Nonce", "Hash", "Prev Hash", "Data"},
	}

	for i, blk := range blocks {
		data = append(data, []string{
			strconv.FormatUint(first+uint64(i), 10),
			blk.TimeStamp.Format("2006-01-02T15:04:05.000000000Z07:00"),
			strconv.FormatUint(uint64(blk.Difficulty), 10),
			strconv.FormatUint(blk.Nonce, 10),
			blk.Hash.String(),
			blk.PrevHash.String(),
			blk.Data,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}
