package stellar

import (
	"context"

	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// BuildDeposit returns the simulated and assembled asset_manager.transfer(from, token, amount, to, data)
// invocation. Native XLM is deposited through its asset contract like any other token.
func (s *stellar) BuildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, error) {
	recipient, err := chainmanager.ResolveRecipient(ctx, s.resolver, s.config, params)
	if err != nil {
		return nil, err
	}
	from, err := accountAddress(params.From)
	if err != nil {
		return nil, err
	}
	token, err := contractAddress(params.Token)
	if err != nil {
		return nil, err
	}
	amount, err := i128Val(params.Amount)
	if err != nil {
		return nil, err
	}

	balance, err := s.tokenBalance(ctx, token, from)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(params.Amount) < 0 {
		return nil, errors.Wrapf(commonerrors.ErrInsufficientBalance, "have %s, need %s", balance, params.Amount)
	}

	args := invokeArgs(s.assetManager, "transfer",
		addressVal(from),
		addressVal(token),
		amount,
		bytesVal(recipient.Bytes()),
		bytesVal(params.Data),
	)
	tx, err := s.prepareTransaction(ctx, params.From, args)
	if err != nil {
		return nil, err
	}
	return s.rawTransaction(tx, params.From, s.assetManagerID, args)
}

// Deposit builds, signs and sends a deposit.
func (s *stellar) Deposit(ctx context.Context, params *types.DepositParams) (*types.TxResult, error) {
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
