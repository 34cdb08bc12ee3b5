package types

// PacketStatus is the delivery status the relay reports for a packet.
type PacketStatus string

const (
	// PacketPending is reported while the relay has not yet picked up the packet.
	PacketPending PacketStatus = "pending"
	// PacketValidating is reported while validators sign the packet.
	PacketValidating PacketStatus = "validating"
	// PacketExecuting is reported while the destination transaction is in flight.
	PacketExecuting PacketStatus = "executing"
	// PacketExecuted is the only terminal success status.
	PacketExecuted PacketStatus = "executed"
)

// IsExecuted reports whether s is the terminal success status. The comparison is exact.
func (s PacketStatus) IsExecuted() bool {
	return s == PacketExecuted
}

// RelayState is the client-side state of one submitted spoke transaction.
type RelayState string

const (
	// StateSubmitted is entered once the relay acknowledged the submission.
	StateSubmitted RelayState = "SUBMITTED"
	// StateExecuted is entered when a matching executed packet is observed.
	StateExecuted RelayState = "EXECUTED"
	// StateTimedOut is entered when the caller's deadline elapses first.
	// The relay may still complete the packet later.
	StateTimedOut RelayState = "TIMED_OUT"
	// StateFailed is entered when the submission itself is rejected.
	StateFailed RelayState = "FAILED"
)
