package types

import "strings"

// TransportMode defines the RPC connection type of an endpoint.
type TransportMode int

const (
	WebSocketMode TransportMode = iota
	HTTPMode
)

// GetTransportMode returns mode based on RPC URL
func GetTransportMode(rpcURL string) TransportMode {
	if strings.HasPrefix(rpcURL, "wss://") || strings.HasPrefix(rpcURL, "ws://") {
		return WebSocketMode
	}
	return HTTPMode
}

func (m TransportMode) String() string {
	switch m {
	case WebSocketMode:
		return "WebSocket"
	case HTTPMode:
		return "HTTP"
	default:
		return "Unknown"
	}
}
