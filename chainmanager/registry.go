package chainmanager

import (
	"context"
	"sort"
	"sync"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators handed to a family constructor.
//
// Fields:
// - Logger: the logger for logging events.
// - Resolver: resolves hub wallets when a deposit omits To.
// - Wallet: the family-specific wallet capability, nil for raw (build-only) mode.
type Dependencies struct {
	Logger   *logrus.Logger
	Resolver types.HubWalletResolver
	Wallet   interface{}
}

// SpokeFactory creates spokes by chain family.
type SpokeFactory interface {
	CreateSpoke(ctx context.Context, config *types.ChainConfig, deps Dependencies) (types.Spoke, error)
}

// SpokeRegistry holds the live spokes of a process, keyed by spoke chain id.
type SpokeRegistry struct {
	logger   *logrus.Logger
	resolver types.HubWalletResolver

	factoryMutex sync.RWMutex
	factory      SpokeFactory

	spokesMutex sync.RWMutex
	spokes      map[string]types.Spoke
}

// NewSpokeRegistry creates an empty spoke registry.
//
// Parameters:
// - factory: creates spokes for configurations added later.
// - resolver: the hub wallet resolver shared by every spoke.
// - logger: the logger for logging events.
//
// Returns:
// - *SpokeRegistry: the registry.
func NewSpokeRegistry(factory SpokeFactory, resolver types.HubWalletResolver, logger *logrus.Logger) *SpokeRegistry {
	return &SpokeRegistry{
		logger:   logger,
		resolver: resolver,
		factory:  factory,
		spokes:   make(map[string]types.Spoke),
	}
}

// Add creates a spoke for config and registers it.
//
// Parameters:
// - ctx: the context for managing spoke creation.
// - config: the spoke chain configuration.
// - wallet: the family wallet capability, or nil for raw mode.
//
// Returns:
// - error: ErrFactoryNotProvided, ErrChainExists, a validation error or the constructor's error.
func (r *SpokeRegistry) Add(ctx context.Context, config *types.ChainConfig, wallet interface{}) error {
	if config == nil {
		return errors.Wrap(commonerrors.ErrInvalidConfig, "spoke config is nil")
	}
	if err := config.Validate(); err != nil {
		return err
	}

	r.spokesMutex.RLock()
	_, exists := r.spokes[config.ID]
	r.spokesMutex.RUnlock()
	if exists {
		return errors.Wrap(commonerrors.ErrChainExists, config.ID)
	}

	r.factoryMutex.RLock()
	factory := r.factory
	r.factoryMutex.RUnlock()
	if factory == nil {
		return commonerrors.ErrFactoryNotProvided
	}

	spoke, err := factory.CreateSpoke(ctx, config.Clone(), Dependencies{
		Logger:   r.logger,
		Resolver: r.resolver,
		Wallet:   wallet,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create spoke %s", config.ID)
	}

	r.spokesMutex.Lock()
	if _, exists := r.spokes[config.ID]; exists {
		r.spokesMutex.Unlock()
		spoke.Close()
		return errors.Wrap(commonerrors.ErrChainExists, config.ID)
	}
	r.spokes[config.ID] = spoke
	r.spokesMutex.Unlock()

	r.logger.WithFields(logrus.Fields{
		"chain":  config.ID,
		"family": config.Family,
		"raw":    wallet == nil,
	}).Info("Spoke registered")
	return nil
}

// Get returns the spoke registered for chainID.
func (r *SpokeRegistry) Get(chainID string) (types.Spoke, error) {
	r.spokesMutex.RLock()
	spoke, ok := r.spokes[chainID]
	r.spokesMutex.RUnlock()

	if !ok {
		return nil, errors.Wrap(commonerrors.ErrChainNotFound, chainID)
	}
	return spoke, nil
}

// Remove closes and unregisters the spoke for chainID.
func (r *SpokeRegistry) Remove(chainID string) {
	r.spokesMutex.Lock()
	spoke, ok := r.spokes[chainID]
	delete(r.spokes, chainID)
	r.spokesMutex.Unlock()

	if ok {
		spoke.Close()
	}
}

// ChainIDs returns the registered chain ids in sorted order.
func (r *SpokeRegistry) ChainIDs() []string {
	r.spokesMutex.RLock()
	ids := make([]string, 0, len(r.spokes))
	for id := range r.spokes {
		ids = append(ids, id)
	}
	r.spokesMutex.RUnlock()

	sort.Strings(ids)
	return ids
}

// Close closes every registered spoke and empties the registry.
func (r *SpokeRegistry) Close() {
	r.spokesMutex.Lock()
	spokes := r.spokes
	r.spokes = make(map[string]types.Spoke)
	r.spokesMutex.Unlock()

	for _, spoke := range spokes {
		spoke.Close()
	}
}
