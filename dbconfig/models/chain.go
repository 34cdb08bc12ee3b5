package models

import (
	"time"
)

// Chain is a row of the chains table.
type Chain struct {
	ID           int64
	ChainID      string
	Name         string
	Family       string
	RelayChainID uint64
	NativeToken  string
	NetworkID    string
	TxType       uint8
	RPCURL       string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChainAddress is a named contract address of a chain.
type ChainAddress struct {
	ChainID string
	Name    string
	Address string
}

// HubAsset is a row of the hub_assets table.
type HubAsset struct {
	ID            int64
	SpokeChainID  string
	OriginalAsset string
	Symbol        string
	Asset         string
	Vault         string
	Decimals      int
	Active        bool
}
