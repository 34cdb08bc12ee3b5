package stacks

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ContractCall is an unsigned contract-call payload.
type ContractCall struct {
	Sender          string
	ContractAddress string
	ContractName    string
	FunctionName    string
	FunctionArgs    []ClarityValue
	// Amount is the micro-STX the call is expected to move, for the wallet's post-condition.
	Amount *big.Int
}

// MarshalJSON renders the call with hex-encoded Clarity arguments.
func (c *ContractCall) MarshalJSON() ([]byte, error) {
	args := make([]string, 0, len(c.FunctionArgs))
	for _, arg := range c.FunctionArgs {
		args = append(args, hexutil.Encode(arg))
	}
	var amount string
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	return json.Marshal(struct {
		Sender          string   `json:"sender"`
		ContractAddress string   `json:"contractAddress"`
		ContractName    string   `json:"contractName"`
		FunctionName    string   `json:"functionName"`
		FunctionArgs    []string `json:"functionArgs"`
		Amount          string   `json:"amount,omitempty"`
	}{c.Sender, c.ContractAddress, c.ContractName, c.FunctionName, args, amount})
}

type readOnlyRequest struct {
	Sender    string   `json:"sender"`
	Arguments []string `json:"arguments"`
}

type readOnlyResponse struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result"`
	Cause  string `json:"cause"`
}

type accountResponse struct {
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

func (s *stacks) contractCall(sender string, contract contractID, function string, amount *big.Int, args ...ClarityValue) *ContractCall {
	return &ContractCall{
		Sender:          sender,
		ContractAddress: contract.address,
		ContractName:    contract.name,
		FunctionName:    function,
		FunctionArgs:    args,
		Amount:          amount,
	}
}

// rawTransaction wraps call; Encoded is its JSON form.
func (s *stacks) rawTransaction(call *ContractCall) (*types.RawTransaction, error) {
	encoded, err := json.Marshal(call)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode contract call")
	}
	var data []byte
	for _, arg := range call.FunctionArgs {
		data = append(data, arg...)
	}
	var value *big.Int
	if call.Amount != nil {
		value = new(big.Int).Set(call.Amount)
	}
	return &types.RawTransaction{
		ChainID: s.config.ID,
		Family:  types.STACKS,
		From:    call.Sender,
		To:      call.ContractAddress + "." + call.ContractName,
		Value:   value,
		Data:    data,
		Encoded: string(encoded),
		Native:  call,
	}, nil
}

// signAndSend hands the call to the wallet for a single sign and broadcast.
func (s *stacks) signAndSend(ctx context.Context, w Wallet, raw *types.RawTransaction) (*types.TxResult, error) {
	call, ok := raw.Native.(*ContractCall)
	if !ok {
		return nil, errors.Errorf("unexpected native transaction %T", raw.Native)
	}

	txID, err := w.CallContract(ctx, call)
	if err != nil {
		return nil, errors.Wrap(err, "failed to call contract")
	}

	s.logger.WithFields(logrus.Fields{
		"chainID":  s.config.ID,
		"txID":     txID,
		"function": call.FunctionName,
	}).Info("Transaction sent")

	return &types.TxResult{
		ChainID: s.config.ID,
		Hash:    txID,
		From:    raw.From,
		To:      raw.To,
		Raw:     raw,
	}, nil
}

// callReadOnly evaluates a read-only function and returns the serialized result.
func (s *stacks) callReadOnly(ctx context.Context, contract contractID, function, sender string, args ...ClarityValue) ([]byte, error) {
	req := readOnlyRequest{Sender: sender, Arguments: make([]string, 0, len(args))}
	for _, arg := range args {
		req.Arguments = append(req.Arguments, hexutil.Encode(arg))
	}

	var resp readOnlyResponse
	path := "/v2/contracts/call-read/" + contract.address + "/" + contract.name + "/" + function
	if err := s.api.PostJSON(ctx, path, req, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to call %s.%s", contract, function)
	}
	if !resp.Okay {
		return nil, errors.Errorf("read-only %s.%s failed: %s", contract, function, resp.Cause)
	}
	result, err := hexutil.Decode(resp.Result)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid read-only result %q", resp.Result)
	}
	return result, nil
}

// tokenBalance returns token.get-balance(owner).
func (s *stacks) tokenBalance(ctx context.Context, token, owner string) (*big.Int, error) {
	contract, err := parseContractID(token)
	if err != nil {
		return nil, err
	}
	ownerArg, err := Principal(owner)
	if err != nil {
		return nil, err
	}
	result, err := s.callReadOnly(ctx, contract, "get-balance", contract.address, ownerArg)
	if err != nil {
		return nil, err
	}
	return decodeUintResult(result)
}

// stxBalance returns the micro-STX balance of principal.
func (s *stacks) stxBalance(ctx context.Context, principal string) (*big.Int, error) {
	var resp accountResponse
	if err := s.api.GetJSON(ctx, "/v2/accounts/"+principal+"?proof=0", &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	balance, err := hexutil.DecodeBig(trimHexZeros(resp.Balance))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid balance %q", resp.Balance)
	}
	return balance, nil
}

// trimHexZeros strips the zero padding of a fixed-width hex quantity.
func trimHexZeros(v string) string {
	digits := v
	if len(digits) >= 2 && digits[:2] == "0x" {
		digits = digits[2:]
	}
	for len(digits) > 1 && digits[0] == '0' {
		digits = digits[1:]
	}
	return "0x" + digits
}
