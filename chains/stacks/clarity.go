package stacks

import (
	"bytes"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/icon-project/sodax-frontend-sub008/codec"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
)

// Clarity value type prefixes.
const (
	clarityInt               = 0x00
	clarityUint              = 0x01
	clarityBuffer            = 0x02
	clarityResponseOk        = 0x07
	clarityResponseErr       = 0x08
	clarityStandardPrincipal = 0x05
	clarityContractPrincipal = 0x06
)

// ClarityValue is a serialized Clarity value.
type ClarityValue []byte

func clarityEncode(fn func(enc *bin.Encoder) error) (ClarityValue, error) {
	buf := new(bytes.Buffer)
	if err := fn(bin.NewBinEncoder(buf)); err != nil {
		return nil, errors.Wrap(err, "clarity encoding failed")
	}
	return buf.Bytes(), nil
}

// Uint serializes a 128-bit unsigned integer.
func Uint(v *big.Int) (ClarityValue, error) {
	if v.Sign() < 0 || v.BitLen() > 128 {
		return nil, errors.Wrapf(commonerrors.ErrAmountOverflow, "%s does not fit in uint", v)
	}
	return clarityEncode(func(enc *bin.Encoder) error {
		if err := enc.WriteUint8(clarityUint); err != nil {
			return err
		}
		return enc.WriteBytes(v.FillBytes(make([]byte, 16)), false)
	})
}

// Buffer serializes a byte buffer.
func Buffer(b []byte) ClarityValue {
	out, _ := clarityEncode(func(enc *bin.Encoder) error {
		if err := enc.WriteUint8(clarityBuffer); err != nil {
			return err
		}
		if err := enc.WriteUint32(uint32(len(b)), bin.BE); err != nil {
			return err
		}
		return enc.WriteBytes(b, false)
	})
	return out
}

// Principal serializes a standard or contract principal.
func Principal(address string) (ClarityValue, error) {
	p, err := codec.DecodeStacksPrincipal(address)
	if err != nil {
		return nil, err
	}
	return clarityEncode(func(enc *bin.Encoder) error {
		prefix := uint8(clarityStandardPrincipal)
		if p.IsContract() {
			prefix = clarityContractPrincipal
		}
		if err := enc.WriteUint8(prefix); err != nil {
			return err
		}
		if err := enc.WriteUint8(p.Version); err != nil {
			return err
		}
		if err := enc.WriteBytes(p.Hash160, false); err != nil {
			return err
		}
		if !p.IsContract() {
			return nil
		}
		if err := enc.WriteUint8(uint8(len(p.ContractName))); err != nil {
			return err
		}
		return enc.WriteBytes([]byte(p.ContractName), false)
	})
}

// decodeUintResult reads a uint from a (response uint _) or a bare uint value.
func decodeUintResult(v []byte) (*big.Int, error) {
	if len(v) > 0 && v[0] == clarityResponseErr {
		return nil, errors.Errorf("contract returned an error response 0x%x", v)
	}
	if len(v) > 0 && v[0] == clarityResponseOk {
		v = v[1:]
	}
	if len(v) != 17 || (v[0] != clarityUint && v[0] != clarityInt) {
		return nil, errors.Errorf("expected uint value, got 0x%x", v)
	}
	return new(big.Int).SetBytes(v[1:]), nil
}
