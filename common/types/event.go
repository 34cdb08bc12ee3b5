package types

import "strings"

// RelayPacket is the relay network's record of a submitted spoke transaction.
//
// Fields:
// - SrcChainID: the relay chain id of the source chain.
// - SrcTxHash: the source transaction hash as submitted.
// - SrcAddress: the sender on the source chain.
// - Status: the delivery status reported by the relay.
// - DstChainID: the relay chain id of the destination chain.
// - ConnSn: the connection sequence number assigned by the source connection contract.
// - DstAddress: the receiver on the destination chain.
// - DstTxHash: the destination transaction hash, set once executed.
// - Signatures: validator signatures collected for the packet.
// - Payload: the relayed payload.
type RelayPacket struct {
	SrcChainID uint64       `json:"src_chain_id"`
	SrcTxHash  string       `json:"src_tx_hash"`
	SrcAddress string       `json:"src_address"`
	Status     PacketStatus `json:"status"`
	DstChainID uint64       `json:"dst_chain_id"`
	ConnSn     uint64       `json:"conn_sn"`
	DstAddress string       `json:"dst_address"`
	DstTxHash  string       `json:"dst_tx_hash"`
	Signatures []string     `json:"signatures"`
	Payload    string       `json:"payload"`
}

// MatchesTx reports whether the packet belongs to txHash. Hashes compare case-insensitively.
func (p *RelayPacket) MatchesTx(txHash string) bool {
	return strings.EqualFold(p.SrcTxHash, txHash)
}

// IsExecuted reports whether the packet reached terminal success.
func (p *RelayPacket) IsExecuted() bool {
	return p.Status.IsExecuted()
}

// RelaySubmitData is the optional "data" object of a submit request. Chains whose
// transactions cannot carry the full payload (Bitcoin, Solana) hand it to the relay here.
type RelaySubmitData struct {
	Address string `json:"address"`
	Payload string `json:"payload"`
}
