package sui

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const ed25519Flag = 0x00

// intentTransaction is the intent prefix of transaction data: scope, version, app id.
var intentTransaction = []byte{0, 0, 0}

// Wallet signs Sui transaction bytes.
type Wallet interface {
	// Address returns the 0x-prefixed Sui address of the wallet.
	Address() string
	// SignTransaction returns the serialized base64 signature of the BCS transaction bytes.
	SignTransaction(txBytes []byte) (string, error)
}

type keyWallet struct {
	key     ed25519.PrivateKey
	address string
}

// NewWallet creates an ed25519 wallet.
func NewWallet(key ed25519.PrivateKey) (Wallet, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("invalid ed25519 private key")
	}
	pub := key.Public().(ed25519.PublicKey)
	return &keyWallet{key: key, address: AddressFromPublicKey(pub)}, nil
}

func (w *keyWallet) Address() string {
	return w.address
}

func (w *keyWallet) SignTransaction(txBytes []byte) (string, error) {
	digest := SigningDigest(txBytes)
	sig := ed25519.Sign(w.key, digest)

	serialized := make([]byte, 0, 1+ed25519.SignatureSize+ed25519.PublicKeySize)
	serialized = append(serialized, ed25519Flag)
	serialized = append(serialized, sig...)
	serialized = append(serialized, w.key.Public().(ed25519.PublicKey)...)
	return base64.StdEncoding.EncodeToString(serialized), nil
}

// SigningDigest returns blake2b-256 of the transaction intent message.
func SigningDigest(txBytes []byte) []byte {
	message := make([]byte, 0, len(intentTransaction)+len(txBytes))
	message = append(message, intentTransaction...)
	message = append(message, txBytes...)
	sum := blake2b.Sum256(message)
	return sum[:]
}

// AddressFromPublicKey derives the address of an ed25519 key: blake2b-256(flag || pubkey).
func AddressFromPublicKey(pub ed25519.PublicKey) string {
	sum := blake2b.Sum256(append([]byte{ed25519Flag}, pub...))
	return "0x" + hex.EncodeToString(sum[:])
}
