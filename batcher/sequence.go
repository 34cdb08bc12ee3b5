package batcher

import (
	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// Sequence accumulates calls and remembers the first construction error, so a chain of
// Add calls can be checked once at Encode.
type Sequence struct {
	calls types.CallBatch
	err   error
}

// NewSequence returns an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Add appends call unless an earlier step failed.
func (s *Sequence) Add(call types.ContractCall, err error) *Sequence {
	if s.err != nil {
		return s
	}
	if err != nil {
		s.err = err
		return s
	}
	s.calls = append(s.calls, call)
	return s
}

// Calls returns the accumulated calls or the first error.
func (s *Sequence) Calls() (types.CallBatch, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append(types.CallBatch(nil), s.calls...), nil
}

// Encode encodes the accumulated calls.
func (s *Sequence) Encode() ([]byte, error) {
	calls, err := s.Calls()
	if err != nil {
		return nil, err
	}
	return Encode(calls)
}
