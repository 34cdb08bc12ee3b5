// Package wallet resolves the deterministic hub wallet that executes a spoke user's
// relayed payloads.
package wallet

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/icon-project/sodax-frontend-sub008/codec"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/hub"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ChainLookup returns the configuration of a spoke chain.
type ChainLookup interface {
	Chain(chainID string) (*types.ChainConfig, error)
}

// Resolver resolves hub wallets through the hub wallet factory and caches the result for
// the lifetime of the session. Resolver implements types.HubWalletResolver.
type Resolver struct {
	hubConfig *types.HubConfig
	chains    ChainLookup
	reader    hub.Reader
	cache     Cache
	logger    *logrus.Logger
}

// NewResolver creates a resolver.
//
// Parameters:
// - hubConfig: the hub configuration; its hubWallet address is the wallet factory.
// - chains: the spoke chain lookup.
// - reader: the hub reader.
// - cache: the session cache; nil selects an in-memory cache.
// - logger: the logger for logging events.
func NewResolver(hubConfig *types.HubConfig, chains ChainLookup, reader hub.Reader, cache Cache, logger *logrus.Logger) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Resolver{
		hubConfig: hubConfig,
		chains:    chains,
		reader:    reader,
		cache:     cache,
		logger:    logger,
	}
}

// ResolveHubWallet returns the hub wallet of address on chainID.
//
// On the hub chain the wallet is the user's own address and no read is made. Elsewhere the
// address is canonicalized, looked up in the cache, and on a miss read from the factory.
// Read failures are returned; there is no fallback address.
func (r *Resolver) ResolveHubWallet(ctx context.Context, chainID string, address string) (common.Address, error) {
	// The hub is not necessarily registered as a spoke chain.
	if chainID == r.hubConfig.ChainID {
		if !common.IsHexAddress(address) {
			return common.Address{}, errors.Wrapf(commonerrors.ErrInvalidAddress, "hub address %q", address)
		}
		return common.HexToAddress(address), nil
	}

	config, err := r.chains.Chain(chainID)
	if err != nil {
		return common.Address{}, err
	}

	canonical, err := codec.Encode(config.Family, address)
	if err != nil {
		return common.Address{}, err
	}

	key := cacheKey(chainID, canonical)
	if cached, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.WithError(err).WithField("chain", chainID).Warn("Hub wallet cache read failed")
	} else if ok {
		return cached, nil
	}

	factoryAddress, err := r.hubConfig.Address(types.HubWallet)
	if err != nil {
		return common.Address{}, err
	}

	wallet, err := hub.DeployedAddress(ctx, r.reader, common.HexToAddress(factoryAddress), config.RelayChainID, canonical)
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "resolve hub wallet for %s on %s", address, chainID)
	}

	if err := r.cache.Set(ctx, key, wallet); err != nil {
		r.logger.WithError(err).WithField("chain", chainID).Warn("Hub wallet cache write failed")
	}

	r.logger.WithFields(logrus.Fields{
		"chain":     chainID,
		"address":   address,
		"hubWallet": wallet.Hex(),
	}).Debug("Resolved hub wallet")

	return wallet, nil
}

// Invalidate drops every cached wallet, e.g. after a wallet factory upgrade.
func (r *Resolver) Invalidate(ctx context.Context) error {
	return r.cache.Clear(ctx)
}

func cacheKey(chainID string, canonical []byte) string {
	return strings.ToLower(chainID) + ":" + hex.EncodeToString(canonical)
}
