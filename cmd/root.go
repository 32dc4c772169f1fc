// Package cmd wires the holdem command line.
package cmd

import (
	"os"
	"time"

	"github.com/lazharichir/holdem/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/lazharichir/holdem/cmd.Version=...".
var Version = "dev"

// NewRootCmd builds the command tree. It is called once in main.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "holdem",
		Short:         "Multi-room Texas Hold'em server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newSimulateCmd(), newVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// setupLogger configures the global zerolog logger.
func setupLogger(cfg config.Config) error {
	lvl, err := cfg.Level()
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(Version)
		},
	}
}
