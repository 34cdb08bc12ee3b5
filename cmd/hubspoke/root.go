package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	LogLevel string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "hubspoke",
		Short: "Hub and spoke settlement tooling",
		Long: `Operator tooling for the hub and spoke settlement core.

Encodes spoke addresses into their hub form, resolves hub wallets,
reads asset manager deposits and tracks relay packets.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error).")

	cmd.AddCommand(
		newEncodeAddressCmd(),
		newHubWalletCmd(&flags),
		newDepositsCmd(&flags),
		newRelayCmd(&flags),
	)

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger returns a stderr logger so command output on stdout stays machine readable.
func newLogger(flags *rootFlags) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(flags.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, nil
}
