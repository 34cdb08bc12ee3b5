package solana

import (
	"context"
	"math/big"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
)

// GetDeposit returns the asset manager vault balance of token.
//
// Parameters:
// - ctx: the context for managing the request
// - token: the SPL mint, or the native token sentinel for lamports
//
// Returns:
// - *big.Int: the vault balance in native decimals
// - error: an error if the balance check fails
func (s *solana) GetDeposit(ctx context.Context, token string) (*big.Int, error) {
	if s.config.IsNativeToken(token) || token == "" {
		vault, err := s.vaultAddress(sol.SystemProgramID, true)
		if err != nil {
			return nil, err
		}
		return s.getNativeBalance(ctx, vault)
	}

	mint, err := publicKey(token)
	if err != nil {
		return nil, err
	}
	vault, err := s.vaultAddress(mint, false)
	if err != nil {
		return nil, err
	}
	return s.getSPLTokenBalance(ctx, vault)
}

// getNativeBalance gets native SOL balance
func (s *solana) getNativeBalance(ctx context.Context, account sol.PublicKey) (*big.Int, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	balance, err := client.GetBalance(ctx, account, rpc.CommitmentFinalized)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get native balance")
	}

	return new(big.Int).SetUint64(balance.Value), nil
}

// getSPLTokenBalance gets SPL token balance
func (s *solana) getSPLTokenBalance(ctx context.Context, account sol.PublicKey) (*big.Int, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	balance, err := client.GetTokenAccountBalance(ctx, account, rpc.CommitmentFinalized)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token balance")
	}
	if balance == nil || balance.Value == nil {
		return nil, errors.New("empty token balance")
	}

	amount, ok := new(big.Int).SetString(balance.Value.Amount, 10)
	if !ok {
		return nil, errors.New("failed to parse token balance")
	}

	return amount, nil
}

// checkSufficientBalance checks if account has sufficient balance
func (s *solana) checkSufficientBalance(ctx context.Context, account sol.PublicKey, amount uint64, isNative bool) error {
	var balance *big.Int
	var err error

	if isNative {
		balance, err = s.getNativeBalance(ctx, account)
	} else {
		balance, err = s.getSPLTokenBalance(ctx, account)
	}
	if err != nil {
		return errors.Wrap(err, "failed to get balance")
	}

	if balance.Cmp(new(big.Int).SetUint64(amount)) < 0 {
		return errors.Wrapf(commonerrors.ErrInsufficientBalance, "have %s, need %d", balance, amount)
	}

	return nil
}
