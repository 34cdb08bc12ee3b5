package cosmos

import (
	"context"
	"math/big"

	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// BuildDeposit returns the asset manager {"transfer":{...}} execution with the amount attached as funds.
func (c *cosmos) BuildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, error) {
	recipient, err := chainmanager.ResolveRecipient(ctx, c.resolver, c.config, params)
	if err != nil {
		return nil, err
	}
	if err := checkAddress(params.From); err != nil {
		return nil, err
	}
	if params.Token == "" {
		return nil, errors.Wrap(commonerrors.ErrInvalidAddress, "empty denom")
	}

	balance, err := c.bankBalance(ctx, params.From, params.Token)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(params.Amount) < 0 {
		return nil, errors.Wrapf(commonerrors.ErrInsufficientBalance, "have %s%s, need %s", balance, params.Token, params.Amount)
	}

	msg, err := transferMessage(params.Token, recipient.Bytes(), params.Amount, params.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode transfer")
	}
	execute := &MsgExecuteContract{
		Sender:   params.From,
		Contract: c.assetManager,
		Msg:      msg,
		Funds:    []Coin{{Denom: params.Token, Amount: params.Amount.String()}},
	}
	return c.rawTransaction(execute, new(big.Int).Set(params.Amount))
}

// Deposit builds a deposit and has the wallet sign and broadcast it.
func (c *cosmos) Deposit(ctx context.Context, params *types.DepositParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := c.signingWallet(params.From)
	if err != nil {
		return nil, err
	}

	raw, err := c.BuildDeposit(ctx, params)
	if err != nil {
		return nil, err
	}
	return c.signAndSend(ctx, w, raw)
}
