package near

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// depositMessage is the asset manager's view of a deposit: the hub wallet and the payload.
type depositMessage struct {
	To   string `json:"to"`
	Data []byte `json:"data"`
}

type nativeTransferArgs struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
	Data   []byte `json:"data"`
}

type ftTransferCallArgs struct {
	ReceiverID string `json:"receiver_id"`
	Amount     string `json:"amount"`
	Msg        string `json:"msg"`
}

// BuildDeposit returns the unsigned deposit. NEAR goes through assetManager.transfer with the amount
// attached; fungible tokens call token.ft_transfer_call to the asset manager with the deposit
// message as msg.
func (n *near) BuildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, error) {
	recipient, err := chainmanager.ResolveRecipient(ctx, n.resolver, n.config, params)
	if err != nil {
		return nil, err
	}
	if err := checkAccount(params.From); err != nil {
		return nil, err
	}
	data := params.Data
	if data == nil {
		data = []byte{}
	}
	to := hexutil.Encode(recipient.Bytes())

	native := n.config.IsNativeToken(params.Token)
	if !native {
		if err := checkAccount(params.Token); err != nil {
			return nil, err
		}
	}
	if err := n.checkFunds(ctx, params.From, params.Token, native, params.Amount); err != nil {
		return nil, err
	}

	if native {
		call, args, err := functionCall("transfer", nativeTransferArgs{
			To:     to,
			Amount: params.Amount.String(),
			Data:   data,
		}, maxGas, params.Amount)
		if err != nil {
			return nil, err
		}
		tx, err := n.prepareTransaction(ctx, params.From, n.assetManager, call)
		if err != nil {
			return nil, err
		}
		return n.rawTransaction(tx, new(big.Int).Set(params.Amount), args)
	}

	msg, err := json.Marshal(depositMessage{To: to, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode deposit message")
	}
	call, args, err := functionCall("ft_transfer_call", ftTransferCallArgs{
		ReceiverID: n.assetManager,
		Amount:     params.Amount.String(),
		Msg:        string(msg),
	}, ftTransferCallGas, oneYocto)
	if err != nil {
		return nil, err
	}
	tx, err := n.prepareTransaction(ctx, params.From, params.Token, call)
	if err != nil {
		return nil, err
	}
	return n.rawTransaction(tx, nil, args)
}

// Deposit builds, signs and broadcasts a deposit.
func (n *near) Deposit(ctx context.Context, params *types.DepositParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := n.signingWallet(params.From)
	if err != nil {
		return nil, err
	}

	raw, err := n.BuildDeposit(ctx, params)
	if err != nil {
		return nil, err
	}
	return n.signAndSend(ctx, w, raw)
}

func (n *near) checkFunds(ctx context.Context, owner, token string, native bool, amount *big.Int) error {
	var balance *big.Int
	var err error
	if native {
		balance, err = n.accountBalance(ctx, owner)
	} else {
		balance, err = n.ftBalance(ctx, token, owner)
	}
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return errors.Wrapf(commonerrors.ErrInsufficientBalance, "have %s, need %s", balance, amount)
	}
	return nil
}
