package near

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"math/big"

	bin "github.com/gagliardetto/binary"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
)

const (
	keyTypeED25519       = 0
	actionFunctionCall   = 2
	ed25519PublicKeySize = ed25519.PublicKeySize
)

var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Action is one step of a NEAR transaction.
type Action interface {
	marshal(enc *bin.Encoder) error
}

// FunctionCall calls MethodName on the receiver with JSON Args, attaching Deposit yoctoNEAR.
type FunctionCall struct {
	MethodName string
	Args       []byte
	Gas        uint64
	Deposit    *big.Int
}

func (a FunctionCall) marshal(enc *bin.Encoder) error {
	if err := enc.WriteUint8(actionFunctionCall); err != nil {
		return err
	}
	if err := enc.WriteString(a.MethodName); err != nil {
		return err
	}
	if err := enc.WriteBytes(a.Args, true); err != nil {
		return err
	}
	if err := enc.WriteUint64(a.Gas, bin.LE); err != nil {
		return err
	}
	return writeU128(enc, a.Deposit)
}

func writeU128(enc *bin.Encoder, v *big.Int) error {
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 || v.Cmp(maxUint128) > 0 {
		return errors.Wrapf(commonerrors.ErrAmountOverflow, "%s does not fit in u128", v)
	}
	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0))).Uint64()
	hi := new(big.Int).Rsh(v, 64).Uint64()
	return enc.WriteUint128(bin.Uint128{Lo: lo, Hi: hi}, bin.LE)
}

// Transaction is an unsigned NEAR transaction.
type Transaction struct {
	SignerID   string
	PublicKey  ed25519.PublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  [32]byte
	Actions    []Action
}

func (tx *Transaction) marshal(enc *bin.Encoder) error {
	if len(tx.PublicKey) != ed25519PublicKeySize {
		return errors.New("invalid ed25519 public key")
	}
	if err := enc.WriteString(tx.SignerID); err != nil {
		return err
	}
	if err := enc.WriteUint8(keyTypeED25519); err != nil {
		return err
	}
	if err := enc.WriteBytes(tx.PublicKey, false); err != nil {
		return err
	}
	if err := enc.WriteUint64(tx.Nonce, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteString(tx.ReceiverID); err != nil {
		return err
	}
	if err := enc.WriteBytes(tx.BlockHash[:], false); err != nil {
		return err
	}
	if err := enc.WriteUint32(uint32(len(tx.Actions)), bin.LE); err != nil {
		return err
	}
	for _, action := range tx.Actions {
		if err := action.marshal(enc); err != nil {
			return err
		}
	}
	return nil
}

// MarshalBorsh returns the borsh serialization of the transaction.
func (tx *Transaction) MarshalBorsh() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := tx.marshal(bin.NewBorshEncoder(buf)); err != nil {
		return nil, errors.Wrap(err, "borsh encoding failed")
	}
	return buf.Bytes(), nil
}

// Hash returns sha256 of the serialized transaction, the message that is signed.
func (tx *Transaction) Hash() ([]byte, error) {
	raw, err := tx.MarshalBorsh()
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	return sum[:], nil
}

// signedTransaction serializes tx followed by its ed25519 signature.
func signedTransaction(tx *Transaction, signature []byte) ([]byte, error) {
	if len(signature) != ed25519.SignatureSize {
		return nil, errors.New("invalid ed25519 signature")
	}
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := tx.marshal(enc); err != nil {
		return nil, errors.Wrap(err, "borsh encoding failed")
	}
	if err := enc.WriteUint8(keyTypeED25519); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(signature, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
