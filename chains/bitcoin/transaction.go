package bitcoin

import (
	"context"
	"math"
	"math/big"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	dustLimit        = 546
	minFeeRate       = 1.0
	txVersion        = 2
	txOverheadVBytes = 11
)

// inputVBytes estimates the virtual size of spending script.
func inputVBytes(script []byte) int64 {
	switch txscript.GetScriptClass(script) {
	case txscript.WitnessV1TaprootTy:
		return 58
	case txscript.WitnessV0ScriptHashTy:
		return 104
	default:
		return 68
	}
}

func satoshis(rate float64, vbytes int64) int64 {
	return int64(math.Ceil(rate * float64(vbytes)))
}

// commitmentOutput returns the OP_RETURN output carrying a 32 byte commitment.
func commitmentOutput(commitment []byte) (*wire.TxOut, error) {
	script, err := txscript.NullDataScript(commitment)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build OP_RETURN script")
	}
	return wire.NewTxOut(0, script), nil
}

func (b *bitcoin) payTo(address btcutil.Address, sats int64) (*wire.TxOut, error) {
	script, err := txscript.PayToAddrScript(address)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build script for %s", address)
	}
	return wire.NewTxOut(sats, script), nil
}

// fund selects confirmed utxos of sender, largest first, until outputs and fee are covered. Change
// above the dust limit goes back to sender.
//
// Parameters:
// - ctx: the context for the esplora requests.
// - sender: the segwit address whose utxos are spent.
// - senderScript: the output script of sender.
// - outputs: the payment outputs, in order.
//
// Returns:
// - *psbt.Packet: the unsigned packet with a witness utxo on every input.
// - error: ErrInsufficientBalance when the confirmed utxos do not cover outputs and fee.
func (b *bitcoin) fund(ctx context.Context, sender btcutil.Address, senderScript []byte, outputs []*wire.TxOut) (*psbt.Packet, error) {
	utxos, err := b.utxos(ctx, sender.EncodeAddress())
	if err != nil {
		return nil, err
	}
	rate, err := b.feeRate(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]utxo, 0, len(utxos))
	for _, u := range utxos {
		if u.Status.Confirmed {
			candidates = append(candidates, u)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Value > candidates[j].Value })

	change := wire.NewTxOut(0, senderScript)
	target := int64(0)
	base := int64(txOverheadVBytes + change.SerializeSize())
	for _, out := range outputs {
		target += out.Value
		base += int64(out.SerializeSize())
	}
	perInput := inputVBytes(senderScript)

	var selected []utxo
	total := int64(0)
	fee := satoshis(rate, base)
	for _, u := range candidates {
		if total >= target+fee {
			break
		}
		selected = append(selected, u)
		total += u.Value
		fee = satoshis(rate, base+perInput*int64(len(selected)))
	}
	if len(selected) == 0 || total < target+fee {
		return nil, errors.Wrapf(commonerrors.ErrInsufficientBalance, "have %d sat confirmed, need %d", total, target+fee)
	}

	outs := append([]*wire.TxOut{}, outputs...)
	if rest := total - target - fee; rest >= dustLimit {
		change.Value = rest
		outs = append(outs, change)
	}

	inputs := make([]*wire.OutPoint, len(selected))
	sequences := make([]uint32, len(selected))
	for i, u := range selected {
		hash, err := chainhash.NewHashFromStr(u.TxID)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid utxo txid %q", u.TxID)
		}
		inputs[i] = wire.NewOutPoint(hash, u.Vout)
		sequences[i] = wire.MaxTxInSequenceNum
	}

	packet, err := psbt.New(inputs, outs, txVersion, 0, sequences)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create psbt")
	}
	updater, err := psbt.NewUpdater(packet)
	if err != nil {
		return nil, err
	}
	for i, u := range selected {
		if err := updater.AddInWitnessUtxo(wire.NewTxOut(u.Value, senderScript), i); err != nil {
			return nil, errors.Wrapf(err, "failed to add witness utxo %d", i)
		}
	}

	b.logger.WithFields(logrus.Fields{
		"chainID": b.config.ID,
		"inputs":  len(selected),
		"feeRate": rate,
		"fee":     fee,
	}).Debug("Funded psbt")

	return packet, nil
}

// rawTransaction wraps packet; Encoded is the base64 PSBT and Data the OP_RETURN commitment.
func (b *bitcoin) rawTransaction(packet *psbt.Packet, from, to string, value *big.Int, commitment []byte) (*types.RawTransaction, error) {
	encoded, err := packet.B64Encode()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode psbt")
	}
	return &types.RawTransaction{
		ChainID: b.config.ID,
		Family:  types.BITCOIN,
		From:    from,
		To:      to,
		Value:   value,
		Data:    commitment,
		Encoded: encoded,
		Native:  packet,
	}, nil
}

// signAndSend has the wallet sign the PSBT, finalizes it and broadcasts the extracted transaction once.
func (b *bitcoin) signAndSend(ctx context.Context, w Wallet, raw *types.RawTransaction, relayData *types.RelaySubmitData) (*types.TxResult, error) {
	packet, ok := raw.Native.(*psbt.Packet)
	if !ok {
		return nil, errors.Errorf("unexpected native transaction %T", raw.Native)
	}

	signed, err := w.SignPsbt(ctx, packet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign psbt")
	}
	if err := psbt.MaybeFinalizeAll(signed); err != nil {
		return nil, errors.Wrap(err, "failed to finalize psbt")
	}
	tx, err := psbt.Extract(signed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract transaction")
	}

	txid, err := b.broadcast(ctx, tx)
	if err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"chainID": b.config.ID,
		"txHash":  txid,
		"to":      raw.To,
	}).Info("Transaction sent")

	return &types.TxResult{
		ChainID:   b.config.ID,
		Hash:      txid,
		From:      raw.From,
		To:        raw.To,
		Raw:       raw,
		RelayData: relayData,
	}, nil
}
