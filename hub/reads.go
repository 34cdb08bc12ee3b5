package hub

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/contracts"
	"github.com/pkg/errors"
)

// DeployedAddress calls getDeployedAddress(uint256 chainId, bytes user) on the wallet factory.
//
// Parameters:
// - ctx: the context for managing the request.
// - reader: the hub reader.
// - factory: the wallet factory address.
// - relayChainID: the relay chain id of the user's spoke chain.
// - user: the user's canonical address bytes.
//
// Returns:
// - common.Address: the counterfactual hub wallet.
// - error: ErrHubRead wrapping the underlying failure.
func DeployedAddress(ctx context.Context, reader Reader, factory common.Address, relayChainID uint64, user []byte) (common.Address, error) {
	data, err := contracts.WalletFactory.Pack("getDeployedAddress", new(big.Int).SetUint64(relayChainID), user)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to pack getDeployedAddress")
	}

	out, err := call(ctx, reader, contracts.WalletFactory, "getDeployedAddress", factory, data)
	if err != nil {
		return common.Address{}, err
	}

	wallet, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, errors.Wrap(commonerrors.ErrHubRead, "unexpected getDeployedAddress output")
	}
	return wallet, nil
}

// BalanceOf reads the ERC20 balance of owner on the hub.
func BalanceOf(ctx context.Context, reader Reader, token, owner common.Address) (*big.Int, error) {
	data, err := contracts.ERC20.Pack("balanceOf", owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack balanceOf")
	}

	out, err := call(ctx, reader, contracts.ERC20, "balanceOf", token, data)
	if err != nil {
		return nil, err
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Wrap(commonerrors.ErrHubRead, "unexpected balanceOf output")
	}
	return balance, nil
}

func call(ctx context.Context, reader Reader, contract abi.ABI, method string, to common.Address, data []byte) ([]interface{}, error) {
	raw, err := reader.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrapf(commonerrors.ErrHubRead, "%s on %s: %v", method, to.Hex(), err)
	}

	out, err := contract.Unpack(method, raw)
	if err != nil {
		return nil, errors.Wrapf(commonerrors.ErrHubRead, "unpack %s: %v", method, err)
	}
	if len(out) == 0 {
		return nil, errors.Wrapf(commonerrors.ErrHubRead, "%s returned no data", method)
	}
	return out, nil
}
