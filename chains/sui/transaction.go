package sui

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"math/big"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// dryRunGasBudget is the budget used while simulating; the final budget comes from the dry run.
	dryRunGasBudget = 500_000_000
	minGasBudget    = 2_000_000
	executeWait     = "WaitForLocalExecution"
)

func addressHex(a Address) string {
	return "0x" + hex.EncodeToString(a[:])
}

// programmable is a programmable transaction before gas data is attached.
type programmable struct {
	inputs   []CallArg
	commands []Command
}

func (p *programmable) input(arg CallArg) Argument {
	p.inputs = append(p.inputs, arg)
	return Input(uint16(len(p.inputs) - 1))
}

func (p *programmable) command(c Command) uint16 {
	p.commands = append(p.commands, c)
	return uint16(len(p.commands) - 1)
}

// gasPayment returns the sender's SUI coins and their total balance.
func (s *sui) gasPayment(ctx context.Context, owner string) ([]ObjectRef, *big.Int, error) {
	coins, err := s.getCoins(ctx, owner, SuiCoinType)
	if err != nil {
		return nil, nil, err
	}
	if len(coins) == 0 {
		return nil, nil, errors.Wrapf(commonerrors.ErrInsufficientBalance, "%s has no gas coins", owner)
	}

	total := new(big.Int)
	refs := make([]ObjectRef, 0, len(coins))
	for _, c := range coins {
		ref, err := c.ref()
		if err != nil {
			return nil, nil, err
		}
		refs = append(refs, ref)
		total.Add(total, c.amount())
	}
	return refs, total, nil
}

// prepareTransaction attaches gas data to p and sizes the budget from a dry run.
func (s *sui) prepareTransaction(ctx context.Context, sender Address, p *programmable, gas []ObjectRef) (*TransactionData, error) {
	price, err := s.referenceGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	tx := &TransactionData{
		Sender:     sender,
		Inputs:     p.inputs,
		Commands:   p.commands,
		GasPayment: gas,
		GasPrice:   price,
		GasBudget:  dryRunGasBudget,
	}
	budget, err := s.dryRun(ctx, tx)
	if err != nil {
		return nil, err
	}
	tx.GasBudget = budget
	return tx, nil
}

// dryRun simulates tx and returns (computation + storage) cost plus a 10% margin.
func (s *sui) dryRun(ctx context.Context, tx *TransactionData) (uint64, error) {
	txBytes, err := tx.MarshalBCS()
	if err != nil {
		return 0, err
	}

	var resp dryRunResponse
	if err := s.client.Call(ctx, "sui_dryRunTransactionBlock", []interface{}{base64.StdEncoding.EncodeToString(txBytes)}, &resp); err != nil {
		return 0, errors.Wrap(commonerrors.ErrSimulationFailed, err.Error())
	}
	if resp.Effects.Status.Status != "success" {
		return 0, errors.Wrapf(commonerrors.ErrSimulationFailed, "dry run status %q: %s", resp.Effects.Status.Status, resp.Effects.Status.Error)
	}

	used := parseCost(resp.Effects.GasUsed.ComputationCost) + parseCost(resp.Effects.GasUsed.StorageCost)
	budget := used * 11 / 10
	if budget < minGasBudget {
		budget = minGasBudget
	}
	s.logger.WithFields(logrus.Fields{
		"chainID":   s.config.ID,
		"gasUsed":   used,
		"gasBudget": budget,
	}).Debug("Dry run succeeded")
	return budget, nil
}

// rawTransaction wraps tx; Encoded is the base64 BCS transaction data.
func (s *sui) rawTransaction(tx *TransactionData, to string, value *big.Int) (*types.RawTransaction, error) {
	txBytes, err := tx.MarshalBCS()
	if err != nil {
		return nil, err
	}
	return &types.RawTransaction{
		ChainID: s.config.ID,
		Family:  types.SUI,
		From:    addressHex(tx.Sender),
		To:      to,
		Value:   value,
		Data:    txBytes,
		Encoded: base64.StdEncoding.EncodeToString(txBytes),
		Native:  tx,
	}, nil
}

// signAndSend signs the transaction bytes and executes them once.
func (s *sui) signAndSend(ctx context.Context, w Wallet, raw *types.RawTransaction) (*types.TxResult, error) {
	signature, err := w.SignTransaction(raw.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	var resp executeResponse
	options := map[string]bool{"showEffects": true}
	if err := s.client.Call(ctx, "sui_executeTransactionBlock", []interface{}{raw.Encoded, []string{signature}, options, executeWait}, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to execute transaction")
	}
	if resp.Effects != nil && resp.Effects.Status.Status != "success" {
		return nil, errors.Errorf("transaction %s failed: %s", resp.Digest, resp.Effects.Status.Error)
	}

	s.logger.WithFields(logrus.Fields{
		"chainID": s.config.ID,
		"digest":  resp.Digest,
	}).Info("Transaction executed")

	return &types.TxResult{
		ChainID: s.config.ID,
		Hash:    resp.Digest,
		From:    raw.From,
		To:      raw.To,
		Raw:     raw,
	}, nil
}
