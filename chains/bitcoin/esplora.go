package bitcoin

import (
	"bytes"
	"context"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// feeTarget is the confirmation target, in blocks, of the fee estimate used.
const feeTarget = "3"

type utxo struct {
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Value  int64  `json:"value"`
	Status struct {
		Confirmed bool `json:"confirmed"`
	} `json:"status"`
}

type addressStats struct {
	FundedTxoSum int64 `json:"funded_txo_sum"`
	SpentTxoSum  int64 `json:"spent_txo_sum"`
}

type addressInfo struct {
	ChainStats   addressStats `json:"chain_stats"`
	MempoolStats addressStats `json:"mempool_stats"`
}

func (b *bitcoin) utxos(ctx context.Context, address string) ([]utxo, error) {
	var result []utxo
	if err := b.api.GetJSON(ctx, "/address/"+address+"/utxo", &result); err != nil {
		return nil, errors.Wrapf(err, "failed to list utxos of %s", address)
	}
	return result, nil
}

// feeRate returns the estimated sat/vB rate, never below minFeeRate.
func (b *bitcoin) feeRate(ctx context.Context) (float64, error) {
	var estimates map[string]float64
	if err := b.api.GetJSON(ctx, "/fee-estimates", &estimates); err != nil {
		return 0, errors.Wrap(err, "failed to get fee estimates")
	}
	rate := estimates[feeTarget]
	if rate < minFeeRate {
		rate = minFeeRate
	}
	return rate, nil
}

// balance returns confirmed plus mempool funds of address in satoshis.
func (b *bitcoin) balance(ctx context.Context, address string) (*big.Int, error) {
	var info addressInfo
	if err := b.api.GetJSON(ctx, "/address/"+address, &info); err != nil {
		return nil, errors.Wrapf(err, "failed to get address %s", address)
	}
	sats := info.ChainStats.FundedTxoSum - info.ChainStats.SpentTxoSum +
		info.MempoolStats.FundedTxoSum - info.MempoolStats.SpentTxoSum
	return big.NewInt(sats), nil
}

// broadcast posts the serialized transaction and returns its txid.
func (b *bitcoin) broadcast(ctx context.Context, tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", errors.Wrap(err, "failed to serialize transaction")
	}
	body, err := b.api.Post(ctx, "/tx", "text/plain", []byte(hex.EncodeToString(buf.Bytes())))
	if err != nil {
		return "", errors.Wrap(err, "failed to broadcast transaction")
	}
	if txid := strings.TrimSpace(string(body)); txid != "" {
		return txid, nil
	}
	return tx.TxHash().String(), nil
}
