package near

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const finality = "final"

type accessKeyView struct {
	Nonce      uint64          `json:"nonce"`
	Permission json.RawMessage `json:"permission"`
	BlockHash  string          `json:"block_hash"`
}

type accessKeyListView struct {
	Keys []struct {
		PublicKey string        `json:"public_key"`
		AccessKey accessKeyView `json:"access_key"`
	} `json:"keys"`
	BlockHash string `json:"block_hash"`
}

type accountView struct {
	Amount string `json:"amount"`
}

// callFunctionView carries the view result as a JSON array of byte values.
type callFunctionView struct {
	Result []int `json:"result"`
}

type outcome struct {
	Status      map[string]json.RawMessage `json:"status"`
	Transaction struct {
		Hash string `json:"hash"`
	} `json:"transaction"`
}

// accessKey is a signing key of an account with the state needed to build a transaction.
type accessKey struct {
	publicKey ed25519.PublicKey
	nonce     uint64
	blockHash [32]byte
}

func isFullAccess(permission json.RawMessage) bool {
	return strings.TrimSpace(string(permission)) == `"FullAccess"`
}

func decodePublicKey(s string) (ed25519.PublicKey, error) {
	encoded, ok := strings.CutPrefix(s, "ed25519:")
	if !ok {
		return nil, errors.Errorf("unsupported key type %q", s)
	}
	raw, err := base58.Decode(encoded)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid ed25519 key %q", s)
	}
	return raw, nil
}

func decodeBlockHash(s string) ([32]byte, error) {
	var hash [32]byte
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != len(hash) {
		return hash, errors.Errorf("invalid block hash %q", s)
	}
	copy(hash[:], raw)
	return hash, nil
}

func (n *near) query(ctx context.Context, params map[string]interface{}, result interface{}) error {
	params["finality"] = finality
	return n.client.Call(ctx, "query", params, result)
}

// loadAccessKey returns pub's access key on account, or the first full access key when pub is nil.
func (n *near) loadAccessKey(ctx context.Context, account string, pub ed25519.PublicKey) (*accessKey, error) {
	if pub != nil {
		var view accessKeyView
		err := n.query(ctx, map[string]interface{}{
			"request_type": "view_access_key",
			"account_id":   account,
			"public_key":   EncodePublicKey(pub),
		}, &view)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load access key of %s", account)
		}
		hash, err := decodeBlockHash(view.BlockHash)
		if err != nil {
			return nil, err
		}
		return &accessKey{publicKey: pub, nonce: view.Nonce, blockHash: hash}, nil
	}

	var list accessKeyListView
	err := n.query(ctx, map[string]interface{}{
		"request_type": "view_access_key_list",
		"account_id":   account,
	}, &list)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list access keys of %s", account)
	}
	for _, key := range list.Keys {
		if !isFullAccess(key.AccessKey.Permission) {
			continue
		}
		pub, err := decodePublicKey(key.PublicKey)
		if err != nil {
			continue
		}
		hash, err := decodeBlockHash(list.BlockHash)
		if err != nil {
			return nil, err
		}
		return &accessKey{publicKey: pub, nonce: key.AccessKey.Nonce, blockHash: hash}, nil
	}
	return nil, errors.Errorf("account %s has no full access ed25519 key", account)
}

func (n *near) accountBalance(ctx context.Context, account string) (*big.Int, error) {
	var view accountView
	err := n.query(ctx, map[string]interface{}{
		"request_type": "view_account",
		"account_id":   account,
	}, &view)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to view account %s", account)
	}
	amount, ok := new(big.Int).SetString(view.Amount, 10)
	if !ok {
		return nil, errors.Errorf("invalid account amount %q", view.Amount)
	}
	return amount, nil
}

// viewFunction calls a view method with JSON args and decodes its JSON result.
func (n *near) viewFunction(ctx context.Context, contract, method string, args interface{}, result interface{}) error {
	encoded, err := json.Marshal(args)
	if err != nil {
		return errors.Wrap(err, "failed to encode view args")
	}

	var view callFunctionView
	err = n.query(ctx, map[string]interface{}{
		"request_type": "call_function",
		"account_id":   contract,
		"method_name":  method,
		"args_base64":  base64.StdEncoding.EncodeToString(encoded),
	}, &view)
	if err != nil {
		return errors.Wrapf(err, "failed to call %s.%s", contract, method)
	}

	raw := make([]byte, len(view.Result))
	for i, b := range view.Result {
		raw[i] = byte(b)
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return errors.Wrapf(err, "invalid %s.%s result", contract, method)
	}
	return nil
}

// ftBalance returns ft_balance_of(account) on token.
func (n *near) ftBalance(ctx context.Context, token, account string) (*big.Int, error) {
	var amount string
	if err := n.viewFunction(ctx, token, "ft_balance_of", map[string]string{"account_id": account}, &amount); err != nil {
		return nil, err
	}
	balance, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, errors.Errorf("invalid ft balance %q", amount)
	}
	return balance, nil
}
