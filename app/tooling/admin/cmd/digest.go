package cmd

import (
	"fmt"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/digest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newDigestCmd() *cobra.Command {
	var (
		timeStamp  int64
		prevHash   string
		data       string
		nonce      uint64
		difficulty uint
	)

	digestCmd := &cobra.Command{
		Use:   "digest",
		Short: "Compute the digest of a set of block fields.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := digest.Fields(time.Unix(0, timeStamp), common.FromHex(prevHash), data, nonce, difficulty)
			hash := digest.Sum(fields)

			rows := pterm.TableData{
				{"Canonical", digest.Canonical(fields)},
				{"Hash", hash.String()},
				{"Leading Zeros", fmt.Sprint(digest.LeadingZeros(hash.Bytes()))},
				{"Valid", fmt.Sprint(digest.IsValid(hash.Bytes(), difficulty))},
			}

			return pterm.DefaultTable.WithWriter(cmd.OutOrStdout()).WithData(rows).Render()
		},
	}

	digestCmd.Flags().Int64Var(&timeStamp, "timestamp", 0, "Block time in nanoseconds since the unix epoch.")
	digestCmd.Flags().StringVar(&prevHash, "prev", "", "Hash of the previous block in hex.")
	digestCmd.Flags().StringVar(&data, "data", "", "Block data.")
	digestCmd.Flags().Uint64Var(&nonce, "nonce", 0, "Block nonce.")
	digestCmd.Flags().UintVar(&difficulty, "difficulty", 0, "Block difficulty.")

	return digestCmd
}
