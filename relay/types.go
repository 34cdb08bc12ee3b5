package relay

import (
	"encoding/json"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// Action is the operation name carried in every relay request.
type Action string

const (
	ActionSubmit                Action = "submit"
	ActionGetTransactionPackets Action = "get_transaction_packets"
	ActionGetPacket             Action = "get_packet"
)

// request is the envelope POSTed to the relay endpoint.
type request struct {
	Action Action      `json:"action"`
	Params interface{} `json:"params"`
}

type submitParams struct {
	ChainID string                 `json:"chain_id"`
	TxHash  string                 `json:"tx_hash"`
	Data    *types.RelaySubmitData `json:"data,omitempty"`
}

type packetsParams struct {
	ChainID string `json:"chain_id"`
	TxHash  string `json:"tx_hash"`
}

type packetParams struct {
	ChainID string `json:"chain_id"`
	TxHash  string `json:"tx_hash"`
	ConnSn  string `json:"conn_sn"`
}

// response is the envelope every relay reply uses. Data is decoded per action.
type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// SubmitResult is the relay's acknowledgement of a submission.
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
