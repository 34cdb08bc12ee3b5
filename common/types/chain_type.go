package types

import "strings"

// ChainFamily represents the supported blockchain families.
type ChainFamily string

const (
	// EVM represents EVM-compatible spoke chains (e.g. Avalanche, Base, Arbitrum, BSC, etc.)
	EVM ChainFamily = "EVM"
	// SONIC represents the hub chain acting as its own spoke.
	SONIC ChainFamily = "SONIC"
	// ICON represents ICON chain.
	ICON ChainFamily = "ICON"
	// SUI represents Sui chain.
	SUI ChainFamily = "SUI"
	// STELLAR represents Stellar chain with Soroban contracts.
	STELLAR ChainFamily = "STELLAR"
	// SOLANA represents Solana chain.
	SOLANA ChainFamily = "SOLANA"
	// COSMOS represents CosmWasm chains (e.g. Injective).
	COSMOS ChainFamily = "COSMOS"
	// STACKS represents Stacks chain.
	STACKS ChainFamily = "STACKS"
	// NEAR represents Near chain.
	NEAR ChainFamily = "NEAR"
	// BITCOIN represents Bitcoin chain.
	BITCOIN ChainFamily = "BITCOIN"
	// UNKNOWN represents unknown or unsupported chain family in the system.
	UNKNOWN ChainFamily = "UNKNOWN"
)

// AllFamilies lists every supported family in a stable order.
var AllFamilies = []ChainFamily{EVM, SONIC, ICON, SUI, STELLAR, SOLANA, COSMOS, STACKS, NEAR, BITCOIN}

// String converts ChainFamily to string representation
func (f ChainFamily) String() string {
	return string(f)
}

// IsEVM reports whether the family uses EVM addresses and transactions.
func (f ChainFamily) IsEVM() bool {
	return f == EVM || f == SONIC
}

// ParseChainFamily converts string to ChainFamily representation.
func ParseChainFamily(s string) ChainFamily {
	candidate := ChainFamily(strings.ToUpper(strings.TrimSpace(s)))
	for _, f := range AllFamilies {
		if f == candidate {
			return f
		}
	}
	return UNKNOWN
}
