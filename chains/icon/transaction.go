package icon

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	txVersion = "0x3"
	// defaultStepLimit is used when no debug endpoint is configured or estimation fails.
	defaultStepLimit = 5_000_000
)

// Transaction is an ICON v3 call transaction.
type Transaction struct {
	From      string
	To        string
	Value     *big.Int
	StepLimit *big.Int
	Timestamp int64
	NID       uint64
	Method    string
	Params    map[string]string
	Signature string
}

// SendParams renders the transaction as icx_sendTransaction params.
func (tx *Transaction) SendParams() map[string]interface{} {
	params := tx.unsignedParams()
	if tx.Signature != "" {
		params["signature"] = tx.Signature
	}
	return params
}

func (tx *Transaction) unsignedParams() map[string]interface{} {
	data := map[string]interface{}{"method": tx.Method}
	if len(tx.Params) > 0 {
		data["params"] = tx.Params
	}

	params := map[string]interface{}{
		"version":   txVersion,
		"from":      tx.From,
		"to":        tx.To,
		"timestamp": hexInt(big.NewInt(tx.Timestamp)),
		"nid":       fmt.Sprintf("0x%x", tx.NID),
		"dataType":  "call",
		"data":      data,
	}
	if tx.StepLimit != nil {
		params["stepLimit"] = hexInt(tx.StepLimit)
	}
	if tx.Value != nil && tx.Value.Sign() > 0 {
		params["value"] = hexInt(tx.Value)
	}
	return params
}

// Hash returns the sha3-256 digest of the unsigned transaction.
func (tx *Transaction) Hash() []byte {
	return transactionHash(tx.unsignedParams())
}

func hexInt(v *big.Int) string {
	return hexutil.EncodeBig(v)
}

// callData returns the data object of a call transaction.
func callData(method string, params map[string]string) map[string]interface{} {
	return map[string]interface{}{"method": method, "params": params}
}

// prepareTransaction fills the step limit and timestamp of a call to contract.
func (i *icon) prepareTransaction(ctx context.Context, from, contract string, value *big.Int, method string, params map[string]string) *Transaction {
	tx := &Transaction{
		From:      from,
		To:        contract,
		Value:     value,
		Timestamp: i.now().UnixMicro(),
		NID:       i.nid,
		Method:    method,
		Params:    params,
	}
	tx.StepLimit = i.estimateStep(ctx, tx)
	return tx
}

// estimateStep asks the debug endpoint for the step cost and adds a 10% margin.
func (i *icon) estimateStep(ctx context.Context, tx *Transaction) *big.Int {
	if i.debug == nil {
		return big.NewInt(defaultStepLimit)
	}

	var estimate string
	if err := i.debug.Call(ctx, "debug_estimateStep", tx.unsignedParams(), &estimate); err != nil {
		i.logger.WithError(err).WithField("chainID", i.config.ID).Warn("Failed to estimate step, using default step limit")
		return big.NewInt(defaultStepLimit)
	}
	steps, err := hexutil.DecodeBig(estimate)
	if err != nil {
		i.logger.WithError(err).WithField("estimate", estimate).Warn("Invalid step estimate, using default step limit")
		return big.NewInt(defaultStepLimit)
	}
	return steps.Mul(steps, big.NewInt(11)).Div(steps, big.NewInt(10))
}

// rawTransaction wraps an unsigned transaction; Encoded is the JSON of its params.
func (i *icon) rawTransaction(tx *Transaction) (*types.RawTransaction, error) {
	encoded, err := json.Marshal(tx.unsignedParams())
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode transaction")
	}
	data, err := json.Marshal(callData(tx.Method, tx.Params))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode call data")
	}

	var value *big.Int
	if tx.Value != nil {
		value = new(big.Int).Set(tx.Value)
	}
	return &types.RawTransaction{
		ChainID: i.config.ID,
		Family:  types.ICON,
		From:    tx.From,
		To:      tx.To,
		Value:   value,
		Data:    data,
		Encoded: string(encoded),
		Native:  tx,
	}, nil
}

// signAndSend signs the transaction hash and broadcasts it once.
func (i *icon) signAndSend(ctx context.Context, w Wallet, raw *types.RawTransaction) (*types.TxResult, error) {
	tx, ok := raw.Native.(*Transaction)
	if !ok {
		return nil, errors.Errorf("unexpected native transaction %T", raw.Native)
	}

	signature, err := w.Sign(tx.Hash())
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}
	tx.Signature = base64.StdEncoding.EncodeToString(signature)

	var hash string
	if err := i.client.Call(ctx, "icx_sendTransaction", tx.SendParams(), &hash); err != nil {
		return nil, errors.Wrap(err, "failed to send transaction")
	}

	i.logger.WithFields(logrus.Fields{
		"chainID": i.config.ID,
		"txHash":  hash,
		"method":  tx.Method,
	}).Info("Transaction sent")

	return &types.TxResult{
		ChainID: i.config.ID,
		Hash:    hash,
		From:    raw.From,
		To:      raw.To,
		Raw:     raw,
	}, nil
}
