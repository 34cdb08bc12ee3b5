package batcher

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/contracts"
	"github.com/pkg/errors"
)

// Approve builds an ERC20 approve call on token.
func Approve(token, spender common.Address, amount *big.Int) (types.ContractCall, error) {
	data, err := contracts.ERC20.Pack("approve", spender, amount)
	if err != nil {
		return types.ContractCall{}, errors.Wrap(err, "failed to pack approve")
	}
	return types.ContractCall{Address: token, Value: new(big.Int), Data: data}, nil
}

// Transfer builds an ERC20 transfer call on token.
func Transfer(token, to common.Address, amount *big.Int) (types.ContractCall, error) {
	data, err := contracts.ERC20.Pack("transfer", to, amount)
	if err != nil {
		return types.ContractCall{}, errors.Wrap(err, "failed to pack transfer")
	}
	return types.ContractCall{Address: token, Value: new(big.Int), Data: data}, nil
}

// VaultDeposit builds a hub vault deposit of token.
func VaultDeposit(vault, token common.Address, amount *big.Int) (types.ContractCall, error) {
	data, err := contracts.Vault.Pack("deposit", token, amount)
	if err != nil {
		return types.ContractCall{}, errors.Wrap(err, "failed to pack vault deposit")
	}
	return types.ContractCall{Address: vault, Value: new(big.Int), Data: data}, nil
}

// VaultWithdraw builds a hub vault withdrawal of token.
func VaultWithdraw(vault, token common.Address, amount *big.Int) (types.ContractCall, error) {
	data, err := contracts.Vault.Pack("withdraw", token, amount)
	if err != nil {
		return types.ContractCall{}, errors.Wrap(err, "failed to pack vault withdraw")
	}
	return types.ContractCall{Address: vault, Value: new(big.Int), Data: data}, nil
}

// AssetManagerTransfer builds a hub asset manager transfer-out of token to a spoke recipient.
//
// Parameters:
// - assetManager: the hub asset manager.
// - token: the hub asset being sent out.
// - to: the recipient in canonical spoke bytes (see codec.Encode).
// - amount: the amount in canonical decimals.
// - data: optional payload delivered with the transfer.
func AssetManagerTransfer(assetManager, token common.Address, to []byte, amount *big.Int, data []byte) (types.ContractCall, error) {
	if data == nil {
		data = []byte{}
	}
	packed, err := contracts.AssetManager.Pack("transfer", token, to, amount, data)
	if err != nil {
		return types.ContractCall{}, errors.Wrap(err, "failed to pack asset manager transfer")
	}
	return types.ContractCall{Address: assetManager, Value: new(big.Int), Data: packed}, nil
}

// createIntentSelector is the selector of createIntent with the Intent tuple as its only argument.
var createIntentSelector = crypto.Keccak256([]byte(
	"createIntent((uint256,address,address,address,uint256,uint256,uint256,bool,uint256,uint256,bytes,bytes,address,bytes))",
))[:4]

// CreateIntent builds a createIntent call on the hub intents contract. A nil IntentID is
// filled with a fresh random id so the returned intent can be tracked by the caller.
//
// Parameters:
// - intents: the hub intents contract.
// - intent: the intent to create; its IntentID is set when nil.
//
// Returns:
// - types.ContractCall: the call, with no value attached.
// - error: an id generation or encoding error.
func CreateIntent(intents common.Address, intent *types.Intent) (types.ContractCall, error) {
	if intent == nil {
		return types.ContractCall{}, errors.New("intent is nil")
	}
	if intent.IntentID == nil {
		id, err := types.NewIntentID()
		if err != nil {
			return types.ContractCall{}, err
		}
		intent.IntentID = id
	}

	encoded, err := intent.Encode()
	if err != nil {
		return types.ContractCall{}, err
	}
	data := append(append([]byte{}, createIntentSelector...), encoded...)
	return types.ContractCall{Address: intents, Value: new(big.Int), Data: data}, nil
}
