package near

import (
	"crypto/ed25519"

	"github.com/icon-project/sodax-frontend-sub008/codec"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Wallet signs NEAR transactions with a full access key of its account.
type Wallet interface {
	// Address returns the account id of the wallet.
	Address() string
	// PublicKey returns the access key the wallet signs with.
	PublicKey() ed25519.PublicKey
	// Sign signs a transaction hash.
	Sign(hash []byte) ([]byte, error)
}

type keyWallet struct {
	accountID string
	key       ed25519.PrivateKey
}

// NewWallet creates a wallet for accountID signing with key.
func NewWallet(accountID string, key ed25519.PrivateKey) (Wallet, error) {
	if !codec.ValidNearAccount(accountID) {
		return nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "near account %q", accountID)
	}
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("invalid ed25519 private key")
	}
	return &keyWallet{accountID: accountID, key: key}, nil
}

func (w *keyWallet) Address() string {
	return w.accountID
}

func (w *keyWallet) PublicKey() ed25519.PublicKey {
	return w.key.Public().(ed25519.PublicKey)
}

func (w *keyWallet) Sign(hash []byte) ([]byte, error) {
	return ed25519.Sign(w.key, hash), nil
}

// EncodePublicKey renders a key as "ed25519:<base58>".
func EncodePublicKey(pub ed25519.PublicKey) string {
	return "ed25519:" + base58.Encode(pub)
}
