package solana

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	sol "github.com/gagliardetto/solana-go"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// BuildDeposit returns the unsigned asset manager transfer transaction.
func (s *solana) BuildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, error) {
	raw, _, err := s.buildDeposit(ctx, params)
	return raw, err
}

// Deposit builds, signs and broadcasts an asset manager transfer. The payload itself is
// returned in TxResult.RelayData for the relay submission.
func (s *solana) Deposit(ctx context.Context, params *types.DepositParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := s.signingKey(params.From)
	if err != nil {
		return nil, err
	}

	raw, relayData, err := s.buildDeposit(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.signAndSend(ctx, w, raw, relayData)
}

func (s *solana) buildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, *types.RelaySubmitData, error) {
	recipient, err := chainmanager.ResolveRecipient(ctx, s.resolver, s.config, params)
	if err != nil {
		return nil, nil, err
	}
	if !params.Amount.IsUint64() {
		return nil, nil, errors.Wrapf(commonerrors.ErrAmountOverflow, "solana amount %s exceeds u64", params.Amount)
	}
	amount := params.Amount.Uint64()

	payer, err := publicKey(params.From)
	if err != nil {
		return nil, nil, err
	}
	native := s.config.IsNativeToken(params.Token)
	mint := sol.SystemProgramID
	if !native {
		if mint, err = publicKey(params.Token); err != nil {
			return nil, nil, err
		}
	}

	if err := s.checkFunds(ctx, payer, mint, native, amount); err != nil {
		return nil, nil, err
	}

	var dataHash []byte
	if len(params.Data) > 0 {
		dataHash = crypto.Keccak256(params.Data)
	}
	data, err := transferData(amount, recipient.Bytes(), dataHash)
	if err != nil {
		return nil, nil, err
	}
	ix, err := s.createTransferInstruction(payer, mint, native, data)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.prepareTransaction(ctx, payer, []sol.Instruction{ix})
	if err != nil {
		return nil, nil, err
	}

	var value *big.Int
	if native {
		value = new(big.Int).Set(params.Amount)
	}
	raw, err := s.rawTransaction(tx, payer, s.assetManager, value, data)
	if err != nil {
		return nil, nil, err
	}
	return raw, relaySubmitData(recipient.Bytes(), params.Data), nil
}

// checkFunds verifies the payer holds amount of the deposited token.
func (s *solana) checkFunds(ctx context.Context, payer, mint sol.PublicKey, native bool, amount uint64) error {
	account := payer
	if !native {
		ata, err := GetAssociatedTokenAddress(mint, payer)
		if err != nil {
			return errors.Wrap(err, "failed to get associated token address")
		}
		account = ata
	}
	return s.checkSufficientBalance(ctx, account, amount, native)
}
