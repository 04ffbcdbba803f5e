// Package cmd contains the admin commands.
package cmd

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/leveldb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options holds the flags shared by every command.
type options struct {
	dbPath  string
	kind    string
	verbose bool
	log     *zap.SugaredLogger
}

// NewRootCmd constructs the admin command and all of its subcommands.
func NewRootCmd(build string, log *zap.SugaredLogger) *cobra.Command {
	opts := options{
		log: log,
	}

	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "Administer the blocks stored by a ledger node",
		Version:       build,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dbPath, "db", "d", "zblock/blocks", "Path to the block storage.")
	rootCmd.PersistentFlags().StringVarP(&opts.kind, "storage", "s", "disk", "Kind of block storage: disk or leveldb.")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log blockchain events.")

	rootCmd.AddCommand(
		newMineCmd(&opts),
		newListCmd(&opts),
		newVerifyCmd(&opts),
		newDigestCmd(),
	)

	return rootCmd
}

// openStorage opens the block storage selected by the flags.
func (o *options) openStorage() (storage.Serializer, error) {
	switch o.kind {
	case "disk":
		return disk.New(o.dbPath)
	case "leveldb":
		return leveldb.New(o.dbPath)
	}

	return nil, fmt.Errorf("unknown storage kind %q", o.kind)
}

// evHandler returns the event handler used by the blockchain packages.
func (o *options) evHandler() func(v string, args ...any) {
	if !o.verbose || o.log == nil {
		return nil
	}

	return func(v string, args ...any) {
		o.log.Infow(fmt.Sprintf(v, args...))
	}
}
