package solana

import (
	"context"
	"encoding/base64"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// prepareTransaction fetches a recent blockhash, adds the compute budget and assembles an
// unsigned transaction paid by payer. The last instruction is the one the spoke is building.
func (s *solana) prepareTransaction(ctx context.Context, payer sol.PublicKey, instructions []sol.Instruction) (*sol.Transaction, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	latest, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest blockhash")
	}
	if latest == nil || latest.Value == nil {
		return nil, errors.New("empty latest blockhash")
	}
	blockhash := latest.Value.Blockhash

	final, err := s.withComputeBudget(ctx, client, instructions, payer, blockhash)
	if err != nil {
		return nil, err
	}

	tx, err := sol.NewTransaction(final, blockhash, sol.TransactionPayer(payer))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create transaction")
	}
	return tx, nil
}

// rawTransaction wraps an unsigned transaction. Encoded holds the base64 message a wallet signs.
func (s *solana) rawTransaction(tx *sol.Transaction, payer, program sol.PublicKey, value *big.Int, data []byte) (*types.RawTransaction, error) {
	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode message")
	}

	return &types.RawTransaction{
		ChainID: s.config.ID,
		Family:  types.SOLANA,
		From:    payer.String(),
		To:      program.String(),
		Value:   value,
		Data:    data,
		Encoded: base64.StdEncoding.EncodeToString(message),
		Native:  tx,
	}, nil
}

// signAndSend signs the raw transaction with the wallet and broadcasts it once.
func (s *solana) signAndSend(ctx context.Context, w Wallet, raw *types.RawTransaction, relayData *types.RelaySubmitData) (*types.TxResult, error) {
	tx, ok := raw.Native.(*sol.Transaction)
	if !ok {
		return nil, errors.Errorf("unexpected native transaction %T", raw.Native)
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode message")
	}
	signature, err := w.Sign(message)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}
	tx.Signatures = []sol.Signature{signature}

	client, err := s.getClient()
	if err != nil {
		return nil, err
	}
	sig, err := client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to send transaction")
	}

	s.logger.WithFields(logrus.Fields{
		"chainID": s.config.ID,
		"txHash":  sig.String(),
		"from":    raw.From,
		"to":      raw.To,
	}).Info("Transaction sent")

	return &types.TxResult{
		ChainID:   s.config.ID,
		Hash:      sig.String(),
		From:      raw.From,
		To:        raw.To,
		Raw:       raw,
		RelayData: relayData,
	}, nil
}

// relaySubmitData returns the payload the relay needs alongside the transaction hash. Instructions
// only carry the payload hash, so the relay receives the payload itself on submit.
func relaySubmitData(address []byte, payload []byte) *types.RelaySubmitData {
	if len(payload) == 0 {
		return nil
	}
	return &types.RelaySubmitData{
		Address: hexutil.Encode(address),
		Payload: hexutil.Encode(payload),
	}
}
