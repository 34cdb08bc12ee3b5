package codec

import (
	"bytes"
	"crypto/sha256"
	"math/big"
	"regexp"
	"strings"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var contractNamePattern = regexp.MustCompile(`^[a-zA-Z]([a-zA-Z0-9]|[-_])*$`)

// StacksPrincipal is a decoded Stacks standard or contract principal.
type StacksPrincipal struct {
	Version      byte
	Hash160      []byte
	ContractName string
}

// IsContract reports whether the principal names a contract.
func (p *StacksPrincipal) IsContract() bool {
	return p.ContractName != ""
}

// DecodeStacksPrincipal parses "S<version><c32check>" with an optional ".contract-name" suffix.
func DecodeStacksPrincipal(address string) (*StacksPrincipal, error) {
	account, contract, _ := strings.Cut(address, ".")
	if contract != "" && (len(contract) > 128 || !contractNamePattern.MatchString(contract)) {
		return nil, invalid(types.STACKS, address, "invalid contract name")
	}

	if len(account) < 3 || account[0] != 'S' {
		return nil, invalid(types.STACKS, address, "missing S prefix")
	}
	version := strings.IndexByte(c32Alphabet, normalizeC32(account[1]))
	if version < 0 {
		return nil, invalid(types.STACKS, address, "invalid version character")
	}

	payload, err := c32Decode(account[2:])
	if err != nil {
		return nil, invalid(types.STACKS, address, err.Error())
	}
	if len(payload) != 24 {
		return nil, invalid(types.STACKS, address, "expected 20-byte hash and 4-byte checksum")
	}

	hash160, checksum := payload[:20], payload[20:]
	if !bytes.Equal(c32Checksum(byte(version), hash160), checksum) {
		return nil, invalid(types.STACKS, address, "checksum mismatch")
	}

	return &StacksPrincipal{Version: byte(version), Hash160: hash160, ContractName: contract}, nil
}

func encodeStacks(address string) ([]byte, error) {
	if _, err := DecodeStacksPrincipal(address); err != nil {
		return nil, err
	}
	return []byte(address), nil
}

func c32Checksum(version byte, hash160 []byte) []byte {
	first := sha256.Sum256(append([]byte{version}, hash160...))
	second := sha256.Sum256(first[:])
	return second[:4]
}

// c32Decode decodes Crockford base32. Each leading '0' stands for one leading zero byte.
func c32Decode(s string) ([]byte, error) {
	leadingZeros := 0
	for leadingZeros < len(s) && normalizeC32(s[leadingZeros]) == '0' {
		leadingZeros++
	}

	value := new(big.Int)
	radix := big.NewInt(32)
	for i := leadingZeros; i < len(s); i++ {
		digit := strings.IndexByte(c32Alphabet, normalizeC32(s[i]))
		if digit < 0 {
			return nil, errors.Errorf("invalid c32 character %q", s[i])
		}
		value.Mul(value, radix)
		value.Add(value, big.NewInt(int64(digit)))
	}

	return append(make([]byte, leadingZeros), value.Bytes()...), nil
}

func normalizeC32(c byte) byte {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	switch c {
	case 'O':
		return '0'
	case 'L', 'I':
		return '1'
	}
	return c
}
