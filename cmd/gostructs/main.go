// Command gostructs walks through the gostructs data structures with small,
// printable scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	var logger *zap.Logger

	rootCmd := &cobra.Command{
		Use:           "gostructs",
		Short:         "Demonstrates the union-find, LRU cache, bloom filter and segment tree structures",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zap.ParseAtomicLevel(logLevel)
			if err != nil {
				return errors.Wrap(err, "gostructs: invalid --log-level")
			}
			cfg := zap.NewDevelopmentConfig()
			cfg.Level = level
			cfg.OutputPaths = []string{"stderr"}
			logger, err = cfg.Build()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	loggerFn := func() *zap.Logger { return logger }
	rootCmd.AddCommand(
		newUnionFindCmd(loggerFn),
		newLRUCmd(loggerFn),
		newBloomCmd(loggerFn),
		newSegmentTreeCmd(loggerFn),
	)
	return rootCmd
}
