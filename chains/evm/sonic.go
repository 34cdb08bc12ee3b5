package evm

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/contracts"
	"github.com/pkg/errors"
)

// sonic is the hub chain addressed as a spoke. There is no relay hop: the user's own
// address is its hub wallet and deposits go through the wallet router.
type sonic struct {
	*evm
}

// NewSonicSpoke creates the hub-as-spoke implementation.
//
// Parameters:
// - ctx: the context for managing the connection monitor.
// - config: the hub chain's spoke configuration; walletRouter is required.
// - deps: the logger and an optional signer.Signer wallet. The resolver is not used.
//
// Returns:
// - types.Spoke: the Sonic spoke.
// - error: an error if any issue occurs during creation.
func NewSonicSpoke(ctx context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	if _, err := config.Address(types.WalletRouter); err != nil {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
	}

	chain, err := dial(ctx, config, deps)
	if err != nil {
		return nil, err
	}
	return (&sonic{evm: chain}).build(), nil
}

func (s *sonic) build() types.Spoke {
	return chainmanager.NewSpokeBuilder(s.config).
		WithDepositor(s).
		WithMessenger(s).
		WithDepositReader(s).
		WithApprover(s).
		WithCloser(s.Close).
		Build()
}

// BuildDeposit builds an unsigned walletRouter.route(token, amount, data) call.
// An explicit To must equal From since the hub wallet is the user.
func (s *sonic) BuildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	from, err := hexAddress(params.From)
	if err != nil {
		return nil, err
	}
	if params.To != "" && !strings.EqualFold(params.To, from.Hex()) {
		return nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "hub wallet %s differs from sender %s on the hub chain", params.To, params.From)
	}
	router, err := s.contractAddress(types.WalletRouter)
	if err != nil {
		return nil, err
	}

	native := s.config.IsNativeToken(params.Token)
	token := common.HexToAddress(params.Token)
	if !native {
		if token, err = hexAddress(params.Token); err != nil {
			return nil, err
		}
	}

	if err := s.checkFunds(ctx, from, params.Token, native, router, params.Amount); err != nil {
		return nil, err
	}

	data, err := contracts.WalletRouter.Pack("route", token, params.Amount, params.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack route data")
	}

	value := big.NewInt(0)
	if native {
		value = new(big.Int).Set(params.Amount)
	}

	tx, err := s.prepareTransaction(ctx, from, router, value, data)
	if err != nil {
		return nil, err
	}
	return s.rawTransaction(from, tx)
}

// Deposit builds, signs and broadcasts a hub deposit.
func (s *sonic) Deposit(ctx context.Context, params *types.DepositParams) (*types.TxResult, error) {
	if params == nil {
		return nil, errors.New("deposit params are nil")
	}
	if _, err := s.signingAddress(params.From); err != nil {
		return nil, err
	}

	raw, err := s.BuildDeposit(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.broadcast(ctx, raw)
}

// BuildCall builds an unsigned walletRouter.route(0x0, 0, payload) call. The payload executes
// in the sender's own wallet, so the destination fields are not used.
func (s *sonic) BuildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	if params == nil {
		return nil, errors.New("call params are nil")
	}
	if len(params.Payload) == 0 {
		return nil, commonerrors.ErrEmptyPayload
	}
	from, err := hexAddress(params.From)
	if err != nil {
		return nil, err
	}
	router, err := s.contractAddress(types.WalletRouter)
	if err != nil {
		return nil, err
	}

	data, err := contracts.WalletRouter.Pack("route", common.Address{}, big.NewInt(0), params.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack route data")
	}

	tx, err := s.prepareTransaction(ctx, from, router, big.NewInt(0), data)
	if err != nil {
		return nil, err
	}
	return s.rawTransaction(from, tx)
}

// Call builds, signs and broadcasts a hub call.
func (s *sonic) Call(ctx context.Context, params *types.CallParams) (*types.TxResult, error) {
	if params == nil {
		return nil, errors.New("call params are nil")
	}
	if _, err := s.signingAddress(params.From); err != nil {
		return nil, err
	}

	raw, err := s.BuildCall(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.broadcast(ctx, raw)
}

// IsAllowanceValid checks the allowance granted to the wallet router.
func (s *sonic) IsAllowanceValid(ctx context.Context, owner string, token string, amount *big.Int) (bool, error) {
	router, err := s.contractAddress(types.WalletRouter)
	if err != nil {
		return false, err
	}
	return s.isAllowanceValid(ctx, owner, token, router, amount)
}

// Approve grants the wallet router an allowance of amount on token.
func (s *sonic) Approve(ctx context.Context, owner string, token string, amount *big.Int) (*types.TxResult, error) {
	router, err := s.contractAddress(types.WalletRouter)
	if err != nil {
		return nil, err
	}
	return s.approve(ctx, owner, token, router, amount)
}
