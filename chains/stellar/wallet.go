package stellar

import (
	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// Wallet signs Stellar transactions.
type Wallet interface {
	// Address returns the G... account id of the wallet.
	Address() string
	// SignTransaction returns tx with the wallet's signature attached.
	SignTransaction(tx *txnbuild.Transaction, passphrase string) (*txnbuild.Transaction, error)
}

type keyWallet struct {
	kp *keypair.Full
}

// NewWallet creates a wallet from an S... secret seed.
func NewWallet(seed string) (Wallet, error) {
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, errors.Wrap(err, "invalid stellar secret seed")
	}
	return &keyWallet{kp: kp}, nil
}

// NewWalletFromKeypair wraps an existing keypair.
func NewWalletFromKeypair(kp *keypair.Full) Wallet {
	return &keyWallet{kp: kp}
}

func (w *keyWallet) Address() string {
	return w.kp.Address()
}

func (w *keyWallet) SignTransaction(tx *txnbuild.Transaction, passphrase string) (*txnbuild.Transaction, error) {
	return tx.Sign(passphrase, w.kp)
}
