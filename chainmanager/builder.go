package chainmanager

import (
	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// SpokeBuilder is a builder pattern implementation for spoke assembly.
// Family packages register the parts they implement; missing parts answer ErrNotImplemented.
type SpokeBuilder struct {
	config    *types.ChainConfig  // Spoke chain configuration.
	depositor types.Depositor     // Deposit builder implementation.
	messenger types.Messenger     // Message builder implementation.
	reader    types.DepositReader // Asset manager balance reader.
	approver  types.Approver      // Allowance management, EVM families only.
	closer    func()              // Releases family resources.
}

// NewSpokeBuilder creates a new spoke builder instance.
//
// Parameters:
// - config: the spoke chain configuration.
//
// Returns:
// - *SpokeBuilder: a new SpokeBuilder instance.
func NewSpokeBuilder(config *types.ChainConfig) *SpokeBuilder {
	return &SpokeBuilder{
		config: config,
	}
}

// WithDepositor sets the deposit implementation.
//
// Parameters:
// - depositor: the deposit implementation.
//
// Returns:
// - *SpokeBuilder: the updated SpokeBuilder instance.
func (b *SpokeBuilder) WithDepositor(depositor types.Depositor) *SpokeBuilder {
	b.depositor = depositor
	return b
}

// WithMessenger sets the message implementation.
//
// Parameters:
// - messenger: the message implementation.
//
// Returns:
// - *SpokeBuilder: the updated SpokeBuilder instance.
func (b *SpokeBuilder) WithMessenger(messenger types.Messenger) *SpokeBuilder {
	b.messenger = messenger
	return b
}

// WithDepositReader sets the balance reader implementation.
func (b *SpokeBuilder) WithDepositReader(reader types.DepositReader) *SpokeBuilder {
	b.reader = reader
	return b
}

// WithApprover sets the allowance implementation.
func (b *SpokeBuilder) WithApprover(approver types.Approver) *SpokeBuilder {
	b.approver = approver
	return b
}

// WithCloser sets the function releasing family resources on Close.
func (b *SpokeBuilder) WithCloser(closer func()) *SpokeBuilder {
	b.closer = closer
	return b
}

// Build creates a new spoke with the configured implementations.
//
// Returns:
// - types.Spoke: a thread-safe Spoke facade.
func (b *SpokeBuilder) Build() types.Spoke {
	spoke := NewSpoke(b.config, b.depositor, b.messenger, b.reader, b.closer)
	spoke.approver = b.approver
	return spoke
}
