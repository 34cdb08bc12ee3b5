package main

import (
	"encoding/json"
	"time"

	"github.com/icon-project/sodax-frontend-sub008/relay"
	"github.com/spf13/cobra"
)

type relayFlags struct {
	Endpoint     string
	RelayChainID uint64
	TxHash       string
	PollInterval time.Duration
	Timeout      time.Duration
}

func (f *relayFlags) client(root *rootFlags) (*relay.Client, error) {
	logger, err := newLogger(root)
	if err != nil {
		return nil, err
	}
	config := relay.DefaultConfig(f.Endpoint)
	if f.PollInterval > 0 {
		config.PollInterval = f.PollInterval
	}
	return relay.NewClient(config, logger)
}

func newRelayCmd(root *rootFlags) *cobra.Command {
	var flags relayFlags

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Intent relay commands",
	}

	cmd.PersistentFlags().StringVar(&flags.Endpoint, "relay-url", "", "Intent relay endpoint.")
	cmd.PersistentFlags().Uint64Var(&flags.RelayChainID, "relay-chain-id", 0, "Relay id of the source chain.")
	cmd.PersistentFlags().StringVar(&flags.TxHash, "tx-hash", "", "Source transaction hash.")
	_ = cmd.MarkPersistentFlagRequired("relay-url")
	_ = cmd.MarkPersistentFlagRequired("relay-chain-id")
	_ = cmd.MarkPersistentFlagRequired("tx-hash")

	status := &cobra.Command{
		Use:   "status",
		Short: "Prints the packets the relay recorded for a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := flags.client(root)
			if err != nil {
				return err
			}
			packets, err := client.GetTransactionPackets(cmd.Context(), flags.RelayChainID, flags.TxHash)
			if err != nil {
				return err
			}
			return printJSON(cmd, packets)
		},
	}

	wait := &cobra.Command{
		Use:   "wait",
		Short: "Waits until the relay executed a transaction's packet",
		Long: `Polls the relay until a packet of the transaction is executed
on its destination chain, then prints it. Exits non-zero when the
timeout elapses first; the relay may still complete the packet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := flags.client(root)
			if err != nil {
				return err
			}
			packet, err := client.WaitUntilExecuted(cmd.Context(), flags.RelayChainID, flags.TxHash, flags.Timeout)
			if err != nil {
				return err
			}
			return printJSON(cmd, packet)
		},
	}
	wait.Flags().DurationVar(&flags.Timeout, "timeout", 5*time.Minute, "How long to wait for execution.")
	wait.Flags().DurationVar(&flags.PollInterval, "poll-interval", 0, "Delay between polls; zero keeps the client default.")

	cmd.AddCommand(status, wait)
	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
