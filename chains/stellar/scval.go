package stellar

import (
	"math/big"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
	"github.com/stellar/go/xdr"
)

var mask64 = new(big.Int).SetUint64(^uint64(0))

func addressVal(addr xdr.ScAddress) xdr.ScVal {
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}
}

func bytesVal(b []byte) xdr.ScVal {
	if b == nil {
		b = []byte{}
	}
	scBytes := xdr.ScBytes(b)
	return xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &scBytes}
}

// i128Val encodes a non-negative amount as a signed 128-bit integer.
func i128Val(v *big.Int) (xdr.ScVal, error) {
	if v.Sign() < 0 || v.BitLen() > 127 {
		return xdr.ScVal{}, errors.Wrapf(commonerrors.ErrAmountOverflow, "%s does not fit in i128", v)
	}
	hi := new(big.Int).Rsh(v, 64).Int64()
	lo := new(big.Int).And(v, mask64).Uint64()
	parts := xdr.Int128Parts{Hi: xdr.Int64(hi), Lo: xdr.Uint64(lo)}
	return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &parts}, nil
}

func u128Val(v uint64) xdr.ScVal {
	parts := xdr.UInt128Parts{Hi: 0, Lo: xdr.Uint64(v)}
	return xdr.ScVal{Type: xdr.ScValTypeScvU128, U128: &parts}
}

// bigFromI128 decodes an i128 ScVal into a big.Int.
func bigFromI128(val xdr.ScVal) (*big.Int, error) {
	if val.Type != xdr.ScValTypeScvI128 || val.I128 == nil {
		return nil, errors.Errorf("expected i128, got %s", val.Type)
	}
	hi := big.NewInt(int64(val.I128.Hi))
	lo := new(big.Int).SetUint64(uint64(val.I128.Lo))
	return hi.Lsh(hi, 64).Add(hi, lo), nil
}

func invokeArgs(contract xdr.ScAddress, function string, args ...xdr.ScVal) xdr.InvokeContractArgs {
	return xdr.InvokeContractArgs{
		ContractAddress: contract,
		FunctionName:    xdr.ScSymbol(function),
		Args:            args,
	}
}
