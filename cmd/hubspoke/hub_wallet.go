package main

import (
	"context"
	"fmt"
	"time"

	"github.com/icon-project/sodax-frontend-sub008/hub"
	"github.com/icon-project/sodax-frontend-sub008/wallet"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type hubWalletFlags struct {
	Registry registryFlags
	ChainID  string
	Address  string
	RedisURL string
	CacheTTL time.Duration
	Timeout  time.Duration
}

func newHubWalletCmd(root *rootFlags) *cobra.Command {
	var flags hubWalletFlags

	cmd := &cobra.Command{
		Use:   "hub-wallet",
		Short: "Resolves the hub wallet of a spoke user",
		Long: `Resolves the hub wallet owned by a spoke address.

The address is encoded for its chain family and looked up on the
hub wallet factory. With --redis the result is shared with every
other process using the same cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(root)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), flags.Timeout)
			defer cancel()

			address, err := resolveHubWallet(ctx, flags, logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), address)
			return nil
		},
	}

	flags.Registry.register(cmd)
	cmd.Flags().StringVarP(&flags.ChainID, "chain", "c", "", "Spoke chain id of the address.")
	cmd.Flags().StringVarP(&flags.Address, "address", "a", "", "Spoke address in its native format.")
	cmd.Flags().StringVar(&flags.RedisURL, "redis", "", "Redis URL of a shared hub wallet cache.")
	cmd.Flags().DurationVar(&flags.CacheTTL, "cache-ttl", 24*time.Hour, "Expiry of cached hub wallets.")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 30*time.Second, "Overall timeout.")
	_ = cmd.MarkFlagRequired("chain")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func resolveHubWallet(ctx context.Context, flags hubWalletFlags, logger *logrus.Logger) (string, error) {
	reg, err := flags.Registry.load(ctx)
	if err != nil {
		return "", err
	}

	provider, err := hub.NewProvider(ctx, reg.Hub(), logger)
	if err != nil {
		return "", err
	}
	defer provider.Close()

	cache := wallet.NewMemoryCache()
	if flags.RedisURL != "" {
		options, err := redis.ParseURL(flags.RedisURL)
		if err != nil {
			return "", errors.Wrap(err, "invalid redis url")
		}
		client := redis.NewClient(options)
		defer client.Close()
		cache = wallet.NewRedisCache(client, "", flags.CacheTTL)
	}

	resolver := wallet.NewResolver(reg.Hub(), reg, provider, cache, logger)
	hubWallet, err := resolver.ResolveHubWallet(ctx, flags.ChainID, flags.Address)
	if err != nil {
		return "", err
	}
	return hubWallet.Hex(), nil
}
