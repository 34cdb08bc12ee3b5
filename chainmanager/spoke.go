package chainmanager

import (
	"context"
	"math/big"
	"sync"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// Spoke implements types.Spoke with thread-safe access to its parts.
// Each part is read under its own lock and invoked without holding it.
type Spoke struct {
	config *types.ChainConfig

	depositorMutex sync.RWMutex
	depositor      types.Depositor

	messengerMutex sync.RWMutex
	messenger      types.Messenger

	readerMutex sync.RWMutex
	reader      types.DepositReader

	approverMutex sync.RWMutex
	approver      types.Approver

	closeOnce sync.Once
	closer    func()
}

// NewSpoke creates a new Spoke instance.
//
// Parameters:
// - config: the spoke chain configuration.
// - depositor: the deposit implementation, may be nil.
// - messenger: the message implementation, may be nil.
// - reader: the balance reader implementation, may be nil.
// - closer: releases family resources, may be nil.
//
// Returns:
// - *Spoke: a new Spoke instance.
func NewSpoke(
	config *types.ChainConfig,
	depositor types.Depositor,
	messenger types.Messenger,
	reader types.DepositReader,
	closer func(),
) *Spoke {
	return &Spoke{
		config:    config,
		depositor: depositor,
		messenger: messenger,
		reader:    reader,
		closer:    closer,
	}
}

// Family returns the chain family tag.
func (s *Spoke) Family() types.ChainFamily {
	return s.config.Family
}

// ChainConfig returns a copy of the spoke configuration.
func (s *Spoke) ChainConfig() *types.ChainConfig {
	return s.config.Clone()
}

// Deposit builds, signs and broadcasts a deposit.
//
// Parameters:
// - ctx: context for managing the request.
// - params: the deposit parameters.
//
// Returns:
// - *types.TxResult: the broadcast transaction.
// - error: ErrNotImplemented when the family has no depositor, or the depositor's error.
func (s *Spoke) Deposit(ctx context.Context, params *types.DepositParams) (*types.TxResult, error) {
	s.depositorMutex.RLock()
	depositor := s.depositor
	s.depositorMutex.RUnlock()

	if depositor == nil {
		return nil, commonerrors.ErrNotImplemented
	}
	return depositor.Deposit(ctx, params)
}

// BuildDeposit returns the unsigned deposit transaction.
func (s *Spoke) BuildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, error) {
	s.depositorMutex.RLock()
	depositor := s.depositor
	s.depositorMutex.RUnlock()

	if depositor == nil {
		return nil, commonerrors.ErrNotImplemented
	}
	return depositor.BuildDeposit(ctx, params)
}

// Call builds, signs and broadcasts a message.
//
// Parameters:
// - ctx: context for managing the request.
// - params: the message parameters.
//
// Returns:
// - *types.TxResult: the broadcast transaction.
// - error: ErrNotImplemented when the family has no messenger, or the messenger's error.
func (s *Spoke) Call(ctx context.Context, params *types.CallParams) (*types.TxResult, error) {
	s.messengerMutex.RLock()
	messenger := s.messenger
	s.messengerMutex.RUnlock()

	if messenger == nil {
		return nil, commonerrors.ErrNotImplemented
	}
	return messenger.Call(ctx, params)
}

// BuildCall returns the unsigned message transaction.
func (s *Spoke) BuildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	s.messengerMutex.RLock()
	messenger := s.messenger
	s.messengerMutex.RUnlock()

	if messenger == nil {
		return nil, commonerrors.ErrNotImplemented
	}
	return messenger.BuildCall(ctx, params)
}

// GetDeposit returns the asset manager balance of token.
func (s *Spoke) GetDeposit(ctx context.Context, token string) (*big.Int, error) {
	s.readerMutex.RLock()
	reader := s.reader
	s.readerMutex.RUnlock()

	if reader == nil {
		return nil, commonerrors.ErrNotImplemented
	}
	return reader.GetDeposit(ctx, token)
}

// IsAllowanceValid reports whether owner allowed the deposit contract to pull amount of token.
func (s *Spoke) IsAllowanceValid(ctx context.Context, owner string, token string, amount *big.Int) (bool, error) {
	s.approverMutex.RLock()
	approver := s.approver
	s.approverMutex.RUnlock()

	if approver == nil {
		return false, commonerrors.ErrNotImplemented
	}
	return approver.IsAllowanceValid(ctx, owner, token, amount)
}

// Approve grants the deposit contract an allowance of amount on token.
func (s *Spoke) Approve(ctx context.Context, owner string, token string, amount *big.Int) (*types.TxResult, error) {
	s.approverMutex.RLock()
	approver := s.approver
	s.approverMutex.RUnlock()

	if approver == nil {
		return nil, commonerrors.ErrNotImplemented
	}
	return approver.Approve(ctx, owner, token, amount)
}

// Close releases family resources. It is safe to call more than once.
func (s *Spoke) Close() {
	s.closeOnce.Do(func() {
		if s.closer != nil {
			s.closer()
		}
	})
}
