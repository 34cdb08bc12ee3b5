package types

import (
	"math/big"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
)

// DepositParams describes a deposit-with-payload on a spoke chain.
//
// Fields:
// - From: the native address of the depositing user.
// - To: the hub wallet that will execute Data; resolved from From when empty.
// - Token: the spoke token address (or the chain's native token sentinel).
// - Amount: the amount in the token's native decimals.
// - Data: the opaque payload executed on the hub after relay.
type DepositParams struct {
	From   string
	To     string
	Token  string
	Amount *big.Int
	Data   []byte
}

// Validate checks deposit preconditions.
func (p *DepositParams) Validate() error {
	if p == nil {
		return errors.New("deposit params are nil")
	}
	if p.From == "" {
		return errors.Wrap(commonerrors.ErrInvalidAddress, "deposit sender is empty")
	}
	if p.Token == "" {
		return errors.Wrap(commonerrors.ErrInvalidAddress, "deposit token is empty")
	}
	if p.Amount == nil || p.Amount.Sign() == 0 {
		return commonerrors.ErrZeroAmount
	}
	if p.Amount.Sign() < 0 {
		return commonerrors.ErrNegativeAmount
	}
	return nil
}

// CallParams describes a pure message sent through a spoke's connection contract.
//
// Fields:
// - From: the native address of the sender.
// - DstRelayChainID: the relay chain id of the destination (usually the hub).
// - DstAddress: the destination address in canonical bytes.
// - Payload: the opaque payload.
type CallParams struct {
	From            string
	DstRelayChainID uint64
	DstAddress      []byte
	Payload         []byte
}

// Validate checks call preconditions.
func (p *CallParams) Validate() error {
	if p == nil {
		return errors.New("call params are nil")
	}
	if p.From == "" {
		return errors.Wrap(commonerrors.ErrInvalidAddress, "call sender is empty")
	}
	if p.DstRelayChainID == 0 {
		return commonerrors.ErrInvalidChainID
	}
	if len(p.DstAddress) == 0 {
		return errors.Wrap(commonerrors.ErrInvalidAddress, "call destination is empty")
	}
	if len(p.Payload) == 0 {
		return commonerrors.ErrEmptyPayload
	}
	return nil
}

// RawTransaction is an unsigned, chain-native transaction returned by the Build* methods.
//
// Fields:
// - ChainID: the spoke chain id.
// - Family: the chain family.
// - From: the sender address.
// - To: the contract/program the transaction targets.
// - Value: the native value attached, if any.
// - Data: the call data or instruction data.
// - Encoded: the chain-native serialization (hex, base64 or XDR depending on the family).
// - Native: the chain-native transaction object (e.g. *ethtypes.Transaction, *solana.Transaction).
type RawTransaction struct {
	ChainID string
	Family  ChainFamily
	From    string
	To      string
	Value   *big.Int
	Data    []byte
	Encoded string
	Native  interface{}
}

// TxResult represents a broadcast spoke transaction.
//
// Fields:
// - ChainID: the spoke chain id.
// - Hash: the chain-native transaction hash.
// - From: the sender address.
// - To: the contract/program the transaction targets.
// - Raw: the transaction that was signed and broadcast.
// - RelayData: optional payload the relay needs alongside the hash (e.g. Bitcoin, Solana).
type TxResult struct {
	ChainID   string
	Hash      string
	From      string
	To        string
	Raw       *RawTransaction
	RelayData *RelaySubmitData
}
