package cosmos

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MsgExecuteContractType is the protobuf type url of MsgExecuteContract.
const MsgExecuteContractType = "/cosmwasm.wasm.v1.MsgExecuteContract"

// Coin is a bank denomination amount.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// MsgExecuteContract executes a CosmWasm contract with a JSON message.
type MsgExecuteContract struct {
	Sender   string          `json:"sender"`
	Contract string          `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
	Funds    []Coin          `json:"funds"`
}

// MarshalJSON renders the message in amino JSON form with its type url.
func (m *MsgExecuteContract) MarshalJSON() ([]byte, error) {
	type plain MsgExecuteContract
	return json.Marshal(struct {
		Type string `json:"@type"`
		*plain
	}{Type: MsgExecuteContractType, plain: (*plain)(m)})
}

type transferMsg struct {
	Transfer transferArgs `json:"transfer"`
}

type transferArgs struct {
	Token  string `json:"token"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Data   []byte `json:"data"`
}

type sendMessageMsg struct {
	SendMessage sendMessageArgs `json:"send_message"`
}

type sendMessageArgs struct {
	DstChainID uint64 `json:"dst_chain_id"`
	DstAddress []byte `json:"dst_address"`
	Payload    []byte `json:"payload"`
}

func transferMessage(token string, to []byte, amount *big.Int, data []byte) (json.RawMessage, error) {
	if data == nil {
		data = []byte{}
	}
	return json.Marshal(transferMsg{Transfer: transferArgs{
		Token:  token,
		To:     hexutil.Encode(to),
		Amount: amount.String(),
		Data:   data,
	}})
}

func sendMessage(dstChainID uint64, dstAddress, payload []byte) (json.RawMessage, error) {
	return json.Marshal(sendMessageMsg{SendMessage: sendMessageArgs{
		DstChainID: dstChainID,
		DstAddress: dstAddress,
		Payload:    payload,
	}})
}
