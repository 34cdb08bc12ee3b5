package models

import "time"

// RPC is an endpoint of a chain. Provider names the endpoint kind (horizon, soroban, lcd,
// esplora, api); an empty provider is the main RPC.
type RPC struct {
	ID        int64
	ChainID   string
	URL       string
	Provider  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
