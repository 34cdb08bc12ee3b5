package wallet

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Cache stores resolved hub wallets keyed by chain id and canonical spoke address.
type Cache interface {
	Get(ctx context.Context, key string) (common.Address, bool, error)
	Set(ctx context.Context, key string, wallet common.Address) error
	Clear(ctx context.Context) error
}

type memoryCache struct {
	mu      sync.RWMutex
	wallets map[string]common.Address
}

// NewMemoryCache returns a process-local session cache.
func NewMemoryCache() Cache {
	return &memoryCache{wallets: make(map[string]common.Address)}
}

func (c *memoryCache) Get(_ context.Context, key string) (common.Address, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	wallet, ok := c.wallets[key]
	return wallet, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, wallet common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wallets[key] = wallet
	return nil
}

func (c *memoryCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wallets = make(map[string]common.Address)
	return nil
}
