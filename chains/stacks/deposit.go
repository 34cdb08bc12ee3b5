package stacks

import (
	"context"
	"math/big"

	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	"github.com/icon-project/sodax-frontend-sub008/codec"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// BuildDeposit returns the asset-manager transfer(token, to, amount, data) contract call.
func (s *stacks) BuildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, error) {
	recipient, err := chainmanager.ResolveRecipient(ctx, s.resolver, s.config, params)
	if err != nil {
		return nil, err
	}
	sender, err := codec.DecodeStacksPrincipal(params.From)
	if err != nil {
		return nil, err
	}
	if sender.IsContract() {
		return nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "%s is not a standard principal", params.From)
	}

	token, err := Principal(params.Token)
	if err != nil {
		return nil, err
	}
	amount, err := Uint(params.Amount)
	if err != nil {
		return nil, err
	}

	native := s.config.IsNativeToken(params.Token)
	if err := s.checkFunds(ctx, params.From, params.Token, native, params.Amount); err != nil {
		return nil, err
	}

	var value *big.Int
	if native {
		value = new(big.Int).Set(params.Amount)
	}
	call := s.contractCall(params.From, s.assetManager, "transfer", value,
		token,
		Buffer(recipient.Bytes()),
		amount,
		Buffer(params.Data),
	)
	return s.rawTransaction(call)
}

// Deposit builds a deposit and has the wallet sign and broadcast it.
func (s *stacks) Deposit(ctx context.Context, params *types.DepositParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := s.signingWallet(params.From)
	if err != nil {
		return nil, err
	}

	raw, err := s.BuildDeposit(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.signAndSend(ctx, w, raw)
}

func (s *stacks) checkFunds(ctx context.Context, owner, token string, native bool, amount *big.Int) error {
	var balance *big.Int
	var err error
	if native {
		balance, err = s.stxBalance(ctx, owner)
	} else {
		balance, err = s.tokenBalance(ctx, token, owner)
	}
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return errors.Wrapf(commonerrors.ErrInsufficientBalance, "have %s, need %s", balance, amount)
	}
	return nil
}
