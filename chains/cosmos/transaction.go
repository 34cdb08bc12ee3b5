package cosmos

import (
	"context"
	"encoding/json"
	"math/big"
	"net/url"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type balanceResponse struct {
	Balance Coin `json:"balance"`
}

// rawTransaction wraps msg; Encoded is its JSON with the type url.
func (c *cosmos) rawTransaction(msg *MsgExecuteContract, value *big.Int) (*types.RawTransaction, error) {
	encoded, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode message")
	}
	return &types.RawTransaction{
		ChainID: c.config.ID,
		Family:  types.COSMOS,
		From:    msg.Sender,
		To:      msg.Contract,
		Value:   value,
		Data:    msg.Msg,
		Encoded: string(encoded),
		Native:  msg,
	}, nil
}

// signAndSend hands the message to the wallet for a single sign and broadcast.
func (c *cosmos) signAndSend(ctx context.Context, w Wallet, raw *types.RawTransaction) (*types.TxResult, error) {
	msg, ok := raw.Native.(*MsgExecuteContract)
	if !ok {
		return nil, errors.Errorf("unexpected native transaction %T", raw.Native)
	}

	hash, err := w.Execute(ctx, c.config.NetworkID, msg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute contract")
	}

	c.logger.WithFields(logrus.Fields{
		"chainID":  c.config.ID,
		"txHash":   hash,
		"contract": msg.Contract,
	}).Info("Transaction sent")

	return &types.TxResult{
		ChainID: c.config.ID,
		Hash:    hash,
		From:    raw.From,
		To:      raw.To,
		Raw:     raw,
	}, nil
}

// bankBalance returns the bank balance of denom held by address.
func (c *cosmos) bankBalance(ctx context.Context, address, denom string) (*big.Int, error) {
	path := "/cosmos/bank/v1beta1/balances/" + address + "/by_denom?denom=" + url.QueryEscape(denom)

	var resp balanceResponse
	if err := c.lcd.GetJSON(ctx, path, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get bank balance")
	}
	if resp.Balance.Amount == "" {
		return new(big.Int), nil
	}
	amount, ok := new(big.Int).SetString(resp.Balance.Amount, 10)
	if !ok {
		return nil, errors.Errorf("invalid balance %q", resp.Balance.Amount)
	}
	return amount, nil
}
