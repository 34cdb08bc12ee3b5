package types

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Depositor moves a token plus an opaque payload into a spoke chain's asset manager.
type Depositor interface {
	// Deposit builds, signs and broadcasts a deposit.
	//
	// Parameters:
	// - ctx: the context for managing the request.
	// - params: the deposit parameters. When params.To is empty the hub wallet is resolved from params.From.
	//
	// Returns:
	// - *TxResult: the broadcast transaction.
	// - error: an error if building, signing or broadcasting fails. Broadcasts are never retried.
	Deposit(ctx context.Context, params *DepositParams) (*TxResult, error)

	// BuildDeposit returns the unsigned deposit transaction without broadcasting it.
	BuildDeposit(ctx context.Context, params *DepositParams) (*RawTransaction, error)
}

// Messenger sends a pure payload through a spoke chain's connection contract.
type Messenger interface {
	// Call builds, signs and broadcasts a message.
	//
	// Parameters:
	// - ctx: the context for managing the request.
	// - params: the destination relay chain, destination address and payload.
	//
	// Returns:
	// - *TxResult: the broadcast transaction.
	// - error: an error if building, signing or broadcasting fails.
	Call(ctx context.Context, params *CallParams) (*TxResult, error)

	// BuildCall returns the unsigned message transaction without broadcasting it.
	BuildCall(ctx context.Context, params *CallParams) (*RawTransaction, error)
}

// DepositReader reads asset manager balances.
type DepositReader interface {
	// GetDeposit returns the asset manager balance of token in native decimals.
	GetDeposit(ctx context.Context, token string) (*big.Int, error)
}

// Spoke is the single dispatch point for spoke-side transaction building. One implementation
// exists per chain family and callers select it by the Family tag, never by concrete type.
type Spoke interface {
	Depositor
	Messenger
	DepositReader

	// Family returns the chain family tag of the spoke.
	Family() ChainFamily

	// ChainConfig returns a copy of the configuration the spoke was built with.
	ChainConfig() *ChainConfig

	// Close releases connections held by the spoke.
	Close()
}

// HubWalletResolver resolves the hub wallet that executes a spoke user's relayed payloads.
type HubWalletResolver interface {
	// ResolveHubWallet returns the deterministic hub wallet of address on chainID.
	ResolveHubWallet(ctx context.Context, chainID string, address string) (common.Address, error)
}

// Approver is implemented by spokes whose token deposits need a prior allowance.
type Approver interface {
	// IsAllowanceValid reports whether owner allowed the deposit contract to pull amount of token.
	IsAllowanceValid(ctx context.Context, owner string, token string, amount *big.Int) (bool, error)

	// Approve grants the deposit contract an allowance of amount on token.
	Approve(ctx context.Context, owner string, token string, amount *big.Int) (*TxResult, error)
}
