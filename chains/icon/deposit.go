package icon

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// BuildDeposit returns the unsigned deposit. Native ICX goes through
// assetManager.transferNativeToken; IRC2 tokens call token.transfer with the asset manager as
// recipient and RLP([data, to]) as _data.
func (i *icon) BuildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, error) {
	recipient, err := chainmanager.ResolveRecipient(ctx, i.resolver, i.config, params)
	if err != nil {
		return nil, err
	}
	if err := checkAddress(params.From); err != nil {
		return nil, err
	}

	native := i.config.IsNativeToken(params.Token)
	if !native {
		if err := checkAddress(params.Token); err != nil {
			return nil, err
		}
	}
	if err := i.checkFunds(ctx, params.From, params.Token, native, params.Amount); err != nil {
		return nil, err
	}

	var tx *Transaction
	if native {
		tx = i.prepareTransaction(ctx, params.From, i.assetManager, params.Amount, "transferNativeToken", map[string]string{
			"_to":   hexutil.Encode(recipient.Bytes()),
			"_data": hexutil.Encode(params.Data),
		})
	} else {
		payload, err := rlp.EncodeToBytes([][]byte{params.Data, recipient.Bytes()})
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode deposit data")
		}
		tx = i.prepareTransaction(ctx, params.From, params.Token, nil, "transfer", map[string]string{
			"_to":    i.assetManager,
			"_value": hexutil.EncodeBig(params.Amount),
			"_data":  hexutil.Encode(payload),
		})
	}
	return i.rawTransaction(tx)
}

// Deposit builds, signs and broadcasts a deposit.
func (i *icon) Deposit(ctx context.Context, params *types.DepositParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := i.signingWallet(params.From)
	if err != nil {
		return nil, err
	}

	raw, err := i.BuildDeposit(ctx, params)
	if err != nil {
		return nil, err
	}
	return i.signAndSend(ctx, w, raw)
}

func (i *icon) checkFunds(ctx context.Context, owner, token string, native bool, amount *big.Int) error {
	var balance *big.Int
	var err error
	if native {
		balance, err = i.nativeBalance(ctx, owner)
	} else {
		balance, err = i.tokenBalance(ctx, token, owner)
	}
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return errors.Wrapf(commonerrors.ErrInsufficientBalance, "have %s, need %s", balance, amount)
	}
	return nil
}
