// Package signer holds the EVM wallet capability used by the EVM and Sonic spokes.
package signer

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Signer is the EVM wallet capability: it signs transactions and messages for one address.
// Hardware and remote wallets implement it the same way as the in-process key below.
type Signer interface {
	// Sign signs data as an EIP-191 personal message and returns a 65-byte signature with V in {27, 28}.
	Sign(data []byte) ([]byte, error)

	// SignTx signs the given transaction for chainID.
	//
	// Parameters:
	// - transaction: the transaction to be signed.
	// - chainID: the EVM chain id of the transaction.
	//
	// Returns:
	// - *ethtypes.Transaction: the signed transaction.
	// - error: an error if the signing process fails.
	SignTx(transaction *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error)

	// Address returns the signer's address.
	Address() common.Address
}

// keySigner signs with an in-process private key.
type keySigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewSigner creates a signer for privateKey.
//
// Parameters:
// - privateKey: the private key to be used for signing.
//
// Returns:
// - Signer: a new signer instance.
// - error: an error if the public key cannot be derived.
func NewSigner(privateKey *ecdsa.PrivateKey) (Signer, error) {
	if privateKey == nil {
		return nil, errors.New("private key is nil")
	}
	pubKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("cannot assign public key to ECDSA")
	}

	return &keySigner{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(*pubKeyECDSA),
	}, nil
}

// NewSignerFromHex creates a signer from a hex private key, with or without 0x prefix.
func NewSignerFromHex(hexKey string) (Signer, error) {
	privKey, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse private key")
	}
	return NewSigner(privKey)
}

func (s *keySigner) Sign(data []byte) ([]byte, error) {
	msg := crypto.Keccak256([]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(data), data)))
	signature, err := crypto.Sign(msg, s.privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign message")
	}
	signature[64] += 27

	return signature, nil
}

func (s *keySigner) Address() common.Address {
	return s.address
}

func (s *keySigner) SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(s.privateKey, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create keyed transactor")
	}

	signedTx, err := auth.Signer(s.address, tx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return signedTx, nil
}
