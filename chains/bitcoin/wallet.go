package bitcoin

import (
	"bytes"
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
)

// Wallet signs PSBTs spending its own address.
type Wallet interface {
	// Address returns the segwit address of the wallet.
	Address() string
	// SignPsbt adds signatures for the wallet's inputs. The packet may be signed in place.
	SignPsbt(ctx context.Context, packet *psbt.Packet) (*psbt.Packet, error)
}

type keyWallet struct {
	key     *btcutil.WIF
	address btcutil.Address
	script  []byte
}

// NewWallet creates a P2WPKH wallet from a WIF encoded private key.
func NewWallet(wif string, params *chaincfg.Params) (Wallet, error) {
	key, err := btcutil.DecodeWIF(wif)
	if err != nil {
		return nil, errors.Wrap(err, "invalid wif")
	}
	if !key.IsForNet(params) {
		return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "wif is not for %s", params.Name)
	}

	address, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(key.SerializePubKey()), params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive address")
	}
	script, err := txscript.PayToAddrScript(address)
	if err != nil {
		return nil, err
	}
	return &keyWallet{key: key, address: address, script: script}, nil
}

func (w *keyWallet) Address() string {
	return w.address.EncodeAddress()
}

func (w *keyWallet) SignPsbt(_ context.Context, packet *psbt.Packet) (*psbt.Packet, error) {
	tx := packet.UnsignedTx
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, in := range tx.TxIn {
		prev := packet.Inputs[i].WitnessUtxo
		if prev == nil {
			return nil, errors.Errorf("input %d has no witness utxo", i)
		}
		fetcher.AddPrevOut(in.PreviousOutPoint, prev)
	}
	hashes := txscript.NewTxSigHashes(tx, fetcher)

	updater, err := psbt.NewUpdater(packet)
	if err != nil {
		return nil, err
	}
	pub := w.key.SerializePubKey()
	for i := range tx.TxIn {
		prev := packet.Inputs[i].WitnessUtxo
		if !bytes.Equal(prev.PkScript, w.script) {
			continue
		}
		sig, err := txscript.RawTxInWitnessSignature(tx, hashes, i, prev.Value, prev.PkScript, txscript.SigHashAll, w.key.PrivKey)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to sign input %d", i)
		}
		if _, err := updater.Sign(i, sig, pub, nil, nil); err != nil {
			return nil, errors.Wrapf(err, "failed to add signature for input %d", i)
		}
	}
	return packet, nil
}
