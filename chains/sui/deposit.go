package sui

import (
	"context"
	"math/big"

	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// BuildDeposit returns the unsigned deposit: split the amount off the gas coin (SUI) or the
// merged token coins, then call asset_manager::transfer<T>(config, coin, to, data).
func (s *sui) BuildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, error) {
	recipient, err := chainmanager.ResolveRecipient(ctx, s.resolver, s.config, params)
	if err != nil {
		return nil, err
	}
	sender, err := ParseAddress(params.From)
	if err != nil {
		return nil, err
	}
	if !params.Amount.IsUint64() {
		return nil, errors.Wrapf(commonerrors.ErrAmountOverflow, "%s does not fit in u64", params.Amount)
	}
	amount := params.Amount.Uint64()

	native := s.config.IsNativeToken(params.Token)
	coinType := params.Token
	if native {
		coinType = SuiCoinType
	}
	typeTag, err := ParseStructTag(coinType)
	if err != nil {
		return nil, err
	}

	owner := addressHex(sender)
	gas, gasBalance, err := s.gasPayment(ctx, owner)
	if err != nil {
		return nil, err
	}
	config, err := s.sharedObject(ctx, s.assetManagerConfig, true)
	if err != nil {
		return nil, err
	}

	p := &programmable{}
	configArg := p.input(CallArg{Shared: config})

	var source Argument
	if native {
		if gasBalance.Cmp(params.Amount) < 0 {
			return nil, errors.Wrapf(commonerrors.ErrInsufficientBalance, "have %s, need %s", gasBalance, params.Amount)
		}
		source = GasCoin()
	} else {
		coins, err := s.selectCoins(ctx, owner, coinType, params.Amount)
		if err != nil {
			return nil, err
		}
		args := make([]Argument, 0, len(coins))
		for i := range coins {
			args = append(args, p.input(CallArg{Object: &coins[i]}))
		}
		source = args[0]
		if len(args) > 1 {
			p.command(MergeCoins{Destination: source, Sources: args[1:]})
		}
	}

	amountArg := p.input(CallArg{Pure: pureU64(amount)})
	split := p.command(SplitCoins{Coin: source, Amounts: []Argument{amountArg}})
	toArg := p.input(CallArg{Pure: pureBytes(recipient.Bytes())})
	dataArg := p.input(CallArg{Pure: pureBytes(params.Data)})
	p.command(MoveCall{
		Package:       s.assetManagerPackage,
		Module:        assetManagerModule,
		Function:      "transfer",
		TypeArguments: []StructTag{typeTag},
		Arguments:     []Argument{configArg, NestedResult(split, 0), toArg, dataArg},
	})

	tx, err := s.prepareTransaction(ctx, sender, p, gas)
	if err != nil {
		return nil, err
	}

	var value *big.Int
	if native {
		value = new(big.Int).Set(params.Amount)
	}
	return s.rawTransaction(tx, addressHex(s.assetManagerPackage), value)
}

// Deposit builds, signs and executes a deposit.
func (s *sui) Deposit(ctx context.Context, params *types.DepositParams) (*types.TxResult, error) {
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

// selectCoins picks owner's coins of coinType, in RPC order, until they cover amount.
func (s *sui) selectCoins(ctx context.Context, owner, coinType string, amount *big.Int) ([]ObjectRef, error) {
	coins, err := s.getCoins(ctx, owner, coinType)
	if err != nil {
		return nil, err
	}

	total := new(big.Int)
	var selected []ObjectRef
	for _, c := range coins {
		if total.Cmp(amount) >= 0 {
			break
		}
		ref, err := c.ref()
		if err != nil {
			return nil, err
		}
		selected = append(selected, ref)
		total.Add(total, c.amount())
	}
	if total.Cmp(amount) < 0 {
		return nil, errors.Wrapf(commonerrors.ErrInsufficientBalance, "have %s of %s, need %s", total, coinType, amount)
	}
	return selected, nil
}
