package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/icon-project/sodax-frontend-sub008/amount"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	"github.com/icon-project/sodax-frontend-sub008/chains"
	"github.com/icon-project/sodax-frontend-sub008/registry"
	"github.com/spf13/cobra"
)

type depositsFlags struct {
	Registry registryFlags
	Chains   []string
	Timeout  time.Duration
}

func newDepositsCmd(root *rootFlags) *cobra.Command {
	var flags depositsFlags

	cmd := &cobra.Command{
		Use:   "deposits",
		Short: "Prints the asset manager balance of every hub asset",
		Long: `Reads the asset manager balance of every registered hub asset
on every spoke chain concurrently. Chains that fail are reported
with their error and do not stop the other reads.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(root)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), flags.Timeout)
			defer cancel()

			reg, err := flags.Registry.load(ctx)
			if err != nil {
				return err
			}

			spokes := chainmanager.NewSpokeRegistry(chains.NewSpokeFactory(), nil, logger)
			defer spokes.Close()
			if err := reg.RegisterSpokes(ctx, spokes, nil); err != nil {
				return err
			}

			queries, decimals := depositQueries(reg, flags.Chains)
			results := spokes.GetDeposits(ctx, queries)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CHAIN\tTOKEN\tBALANCE\tERROR")
			for i, result := range results {
				errText := ""
				if result.Err != nil {
					errText = result.Err.Error()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", result.ChainID, result.Token,
					amount.FormatUnits(result.Balance, decimals[i]), errText)
			}
			return w.Flush()
		},
	}

	flags.Registry.register(cmd)
	cmd.Flags().StringSliceVar(&flags.Chains, "chain", nil, "Restrict to these spoke chain ids.")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", time.Minute, "Overall timeout.")

	return cmd
}

// depositQueries lists one query per hub asset of the selected chains, in registry order,
// with the decimals each balance is formatted with.
func depositQueries(reg *registry.Registry, only []string) ([]chainmanager.DepositQuery, []int) {
	selected := make(map[string]bool, len(only))
	for _, id := range only {
		selected[id] = true
	}

	var queries []chainmanager.DepositQuery
	var decimals []int
	for _, chainID := range reg.ChainIDs() {
		if len(selected) > 0 && !selected[chainID] {
			continue
		}
		for _, asset := range reg.HubAssets(chainID) {
			queries = append(queries, chainmanager.DepositQuery{ChainID: chainID, Token: asset.OriginalAsset})
			decimals = append(decimals, asset.Decimals)
		}
	}
	return queries, decimals
}
