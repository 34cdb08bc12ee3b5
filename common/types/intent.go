package types

import (
	"crypto/rand"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Intent uniquely identifies a cross-chain operation routed through the relay.
//
// Fields:
// - IntentID: random 256-bit identifier.
// - Creator: the creator's hub wallet.
// - InputToken / OutputToken: hub asset addresses.
// - InputAmount: the amount offered, in canonical decimals.
// - MinOutputAmount: the minimum amount accepted, in canonical decimals.
// - Deadline: unix seconds after which the intent may no longer be filled; zero means none.
// - AllowPartialFill: whether solvers may fill part of the intent.
// - SrcChain / DstChain: relay chain ids.
// - SrcAddress / DstAddress: canonical addresses on the source and destination chains.
// - Solver: the exclusive solver, or the zero address for any solver.
// - Data: opaque extra data.
type Intent struct {
	IntentID         *big.Int
	Creator          common.Address
	InputToken       common.Address
	OutputToken      common.Address
	InputAmount      *big.Int
	MinOutputAmount  *big.Int
	Deadline         *big.Int
	AllowPartialFill bool
	SrcChain         *big.Int
	DstChain         *big.Int
	SrcAddress       []byte
	DstAddress       []byte
	Solver           common.Address
	Data             []byte
}

var intentArguments = abi.Arguments{{Type: mustIntentType()}}

func mustIntentType() abi.Type {
	t, err := abi.NewType("tuple", "", []abi.ArgumentMarshaling{
		{Name: "intentId", Type: "uint256"},
		{Name: "creator", Type: "address"},
		{Name: "inputToken", Type: "address"},
		{Name: "outputToken", Type: "address"},
		{Name: "inputAmount", Type: "uint256"},
		{Name: "minOutputAmount", Type: "uint256"},
		{Name: "deadline", Type: "uint256"},
		{Name: "allowPartialFill", Type: "bool"},
		{Name: "srcChain", Type: "uint256"},
		{Name: "dstChain", Type: "uint256"},
		{Name: "srcAddress", Type: "bytes"},
		{Name: "dstAddress", Type: "bytes"},
		{Name: "solver", Type: "address"},
		{Name: "data", Type: "bytes"},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// NewIntentID draws a random 256-bit intent id from crypto/rand.
func NewIntentID() (*big.Int, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read random intent id")
	}
	return new(big.Int).SetBytes(buf[:]), nil
}

// Encode ABI-encodes the intent as the hub intents contract expects it.
func (i *Intent) Encode() ([]byte, error) {
	packed, err := intentArguments.Pack(abiIntent{
		IntentId:         orZero(i.IntentID),
		Creator:          i.Creator,
		InputToken:       i.InputToken,
		OutputToken:      i.OutputToken,
		InputAmount:      orZero(i.InputAmount),
		MinOutputAmount:  orZero(i.MinOutputAmount),
		Deadline:         orZero(i.Deadline),
		AllowPartialFill: i.AllowPartialFill,
		SrcChain:         orZero(i.SrcChain),
		DstChain:         orZero(i.DstChain),
		SrcAddress:       i.SrcAddress,
		DstAddress:       i.DstAddress,
		Solver:           i.Solver,
		Data:             i.Data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode intent")
	}
	return packed, nil
}

// Hash returns keccak256 of the encoded intent.
func (i *Intent) Hash() (common.Hash, error) {
	encoded, err := i.Encode()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}

// abiIntent mirrors Intent with the field names go-ethereum's abi packer resolves.
type abiIntent struct {
	IntentId         *big.Int
	Creator          common.Address
	InputToken       common.Address
	OutputToken      common.Address
	InputAmount      *big.Int
	MinOutputAmount  *big.Int
	Deadline         *big.Int
	AllowPartialFill bool
	SrcChain         *big.Int
	DstChain         *big.Int
	SrcAddress       []byte
	DstAddress       []byte
	Solver           common.Address
	Data             []byte
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
