package near

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"math/big"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// maxGas is the 300 TGas cap of a single function call.
	maxGas = 300_000_000_000_000
	// ftTransferCallGas leaves room for the receiver's ft_on_transfer.
	ftTransferCallGas = 100_000_000_000_000
)

var oneYocto = big.NewInt(1)

// prepareTransaction fills nonce and block hash. The configured wallet's key is used when it
// belongs to signer, otherwise the first full access key of signer.
func (n *near) prepareTransaction(ctx context.Context, signer, receiver string, actions ...Action) (*Transaction, error) {
	var pub ed25519.PublicKey
	if w, err := n.currentWallet(); err == nil && w.Address() == signer {
		pub = w.PublicKey()
	}

	key, err := n.loadAccessKey(ctx, signer, pub)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		SignerID:   signer,
		PublicKey:  key.publicKey,
		Nonce:      key.nonce + 1,
		ReceiverID: receiver,
		BlockHash:  key.blockHash,
		Actions:    actions,
	}, nil
}

// rawTransaction wraps tx; Encoded is the base64 borsh serialization.
func (n *near) rawTransaction(tx *Transaction, value *big.Int, data []byte) (*types.RawTransaction, error) {
	encoded, err := tx.MarshalBorsh()
	if err != nil {
		return nil, err
	}
	return &types.RawTransaction{
		ChainID: n.config.ID,
		Family:  types.NEAR,
		From:    tx.SignerID,
		To:      tx.ReceiverID,
		Value:   value,
		Data:    data,
		Encoded: base64.StdEncoding.EncodeToString(encoded),
		Native:  tx,
	}, nil
}

// signAndSend signs the transaction hash and submits it once with broadcast_tx_commit.
func (n *near) signAndSend(ctx context.Context, w Wallet, raw *types.RawTransaction) (*types.TxResult, error) {
	tx, ok := raw.Native.(*Transaction)
	if !ok {
		return nil, errors.Errorf("unexpected native transaction %T", raw.Native)
	}

	hash, err := tx.Hash()
	if err != nil {
		return nil, err
	}
	signature, err := w.Sign(hash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}
	signed, err := signedTransaction(tx, signature)
	if err != nil {
		return nil, err
	}

	var result outcome
	if err := n.client.Call(ctx, "broadcast_tx_commit", []string{base64.StdEncoding.EncodeToString(signed)}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to broadcast transaction")
	}
	txHash := result.Transaction.Hash
	if txHash == "" {
		txHash = base58.Encode(hash)
	}
	if failure, ok := result.Status["Failure"]; ok {
		return nil, errors.Errorf("transaction %s failed: %s", txHash, failure)
	}

	n.logger.WithFields(logrus.Fields{
		"chainID":  n.config.ID,
		"txHash":   txHash,
		"receiver": tx.ReceiverID,
	}).Info("Transaction sent")

	return &types.TxResult{
		ChainID: n.config.ID,
		Hash:    txHash,
		From:    raw.From,
		To:      raw.To,
		Raw:     raw,
	}, nil
}

func functionCall(method string, args interface{}, gas uint64, deposit *big.Int) (FunctionCall, []byte, error) {
	encoded, err := json.Marshal(args)
	if err != nil {
		return FunctionCall{}, nil, errors.Wrapf(err, "failed to encode %s args", method)
	}
	return FunctionCall{MethodName: method, Args: encoded, Gas: gas, Deposit: deposit}, encoded, nil
}
