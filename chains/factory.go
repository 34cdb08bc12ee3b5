package chains

import (
	"context"
	"sync"

	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	"github.com/icon-project/sodax-frontend-sub008/chains/bitcoin"
	"github.com/icon-project/sodax-frontend-sub008/chains/cosmos"
	"github.com/icon-project/sodax-frontend-sub008/chains/evm"
	"github.com/icon-project/sodax-frontend-sub008/chains/icon"
	"github.com/icon-project/sodax-frontend-sub008/chains/near"
	"github.com/icon-project/sodax-frontend-sub008/chains/solana"
	"github.com/icon-project/sodax-frontend-sub008/chains/stacks"
	"github.com/icon-project/sodax-frontend-sub008/chains/stellar"
	"github.com/icon-project/sodax-frontend-sub008/chains/sui"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// SpokeConstructor represents a function that constructs a new spoke for one chain family.
//
// Parameters:
// - ctx: the context for managing the spoke's background work.
// - config: the configuration for the chain.
// - deps: the logger, hub wallet resolver and optional wallet.
//
// Returns:
// - types.Spoke: the constructed spoke.
// - error: an error if the spoke construction fails.
type SpokeConstructor func(ctx context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error)

// SpokeFactory dispatches spoke creation on the chain family tag.
type SpokeFactory interface {
	chainmanager.SpokeFactory

	// RegisterConstructor registers a spoke constructor for a chain family, replacing any previous one.
	//
	// Parameters:
	// - family: the chain family to register.
	// - constructor: the constructor function for the family.
	RegisterConstructor(family types.ChainFamily, constructor SpokeConstructor)
}

type spokeFactory struct {
	// constructors stores the mapping of chain families to their constructors.
	constructors map[types.ChainFamily]SpokeConstructor
	// constructorsMutex protects access to the constructors map.
	constructorsMutex sync.RWMutex
}

// NewSpokeFactory creates a factory with a constructor registered for every supported family.
//
// Returns:
// - SpokeFactory: the new spoke factory instance.
func NewSpokeFactory() SpokeFactory {
	factory := &spokeFactory{
		constructors: make(map[types.ChainFamily]SpokeConstructor),
	}

	// Initialize with default constructors.
	factory.registerConstructors()

	return factory
}

func (f *spokeFactory) RegisterConstructor(family types.ChainFamily, constructor SpokeConstructor) {
	f.constructorsMutex.Lock()
	defer f.constructorsMutex.Unlock()

	f.constructors[family] = constructor
}

// CreateSpoke creates a spoke based on config.Family.
//
// Returns:
// - types.Spoke: the created spoke.
// - error: ErrUnsupportedFamily when no constructor is registered, or the constructor's error.
func (f *spokeFactory) CreateSpoke(ctx context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	if config == nil {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, "spoke config is nil")
	}

	f.constructorsMutex.RLock()
	constructor, exists := f.constructors[config.Family]
	f.constructorsMutex.RUnlock()

	if !exists {
		return nil, errors.Wrapf(commonerrors.ErrUnsupportedFamily, "%s for chain %s", config.Family, config.ID)
	}

	return constructor(ctx, config, deps)
}

// registerConstructors registers the family constructors for the factory instance.
func (f *spokeFactory) registerConstructors() {
	f.RegisterConstructor(types.EVM, evm.NewEvmSpoke)
	f.RegisterConstructor(types.SONIC, evm.NewSonicSpoke)
	f.RegisterConstructor(types.ICON, icon.NewIconSpoke)
	f.RegisterConstructor(types.SUI, sui.NewSuiSpoke)
	f.RegisterConstructor(types.STELLAR, stellar.NewStellarSpoke)
	f.RegisterConstructor(types.SOLANA, solana.NewSolanaSpoke)
	f.RegisterConstructor(types.COSMOS, cosmos.NewCosmosSpoke)
	f.RegisterConstructor(types.STACKS, stacks.NewStacksSpoke)
	f.RegisterConstructor(types.NEAR, near.NewNearSpoke)
	f.RegisterConstructor(types.BITCOIN, bitcoin.NewBitcoinSpoke)
}
