package icon

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// Wallet signs ICON transaction hashes.
type Wallet interface {
	// Address returns the hx address of the wallet.
	Address() string
	// Sign returns the 65-byte recoverable secp256k1 signature of hash.
	Sign(hash []byte) ([]byte, error)
}

type keyWallet struct {
	key     *ecdsa.PrivateKey
	address string
}

// NewWallet creates a wallet from a secp256k1 private key.
func NewWallet(key *ecdsa.PrivateKey) (Wallet, error) {
	if key == nil {
		return nil, errors.New("private key is nil")
	}
	return &keyWallet{key: key, address: AddressFromPublicKey(&key.PublicKey)}, nil
}

// NewWalletFromHex creates a wallet from a hex private key, with or without 0x.
func NewWalletFromHex(hexKey string) (Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid icon private key")
	}
	return NewWallet(key)
}

func (w *keyWallet) Address() string {
	return w.address
}

func (w *keyWallet) Sign(hash []byte) ([]byte, error) {
	return crypto.Sign(hash, w.key)
}

// AddressFromPublicKey derives the hx address: the last 20 bytes of sha3-256 of the uncompressed
// public key without its 0x04 prefix.
func AddressFromPublicKey(pub *ecdsa.PublicKey) string {
	raw := crypto.FromECDSAPub(pub)
	sum := sha3.Sum256(raw[1:])
	return "hx" + hex.EncodeToString(sum[12:])
}

// validAddress reports whether address is a well-formed hx or cx address.
func validAddress(address string) bool {
	if len(address) != 42 {
		return false
	}
	prefix := address[:2]
	if prefix != "hx" && prefix != "cx" {
		return false
	}
	_, err := hex.DecodeString(address[2:])
	return err == nil
}

func checkAddress(address string) error {
	if !validAddress(address) {
		return errors.Wrapf(commonerrors.ErrInvalidAddress, "icon address %q", address)
	}
	return nil
}
