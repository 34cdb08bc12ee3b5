package codec

import (
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

// encodeStellar returns the XDR encoding of an ScVal holding the address.
func encodeStellar(address string) ([]byte, error) {
	scAddress, err := StellarScAddress(address)
	if err != nil {
		return nil, err
	}

	val := xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &scAddress}
	raw, err := val.MarshalBinary()
	if err != nil {
		return nil, invalid(types.STELLAR, address, err.Error())
	}
	return raw, nil
}

// StellarScAddress converts a G... account or C... contract strkey into an xdr.ScAddress.
func StellarScAddress(address string) (xdr.ScAddress, error) {
	switch {
	case strkey.IsValidEd25519PublicKey(address):
		accountID, err := xdr.AddressToAccountId(address)
		if err != nil {
			return xdr.ScAddress{}, invalid(types.STELLAR, address, err.Error())
		}
		return xdr.ScAddress{Type: xdr.ScAddressTypeScAddressTypeAccount, AccountId: &accountID}, nil
	default:
		raw, err := strkey.Decode(strkey.VersionByteContract, address)
		if err != nil {
			return xdr.ScAddress{}, invalid(types.STELLAR, address, err.Error())
		}
		var contractID xdr.Hash
		copy(contractID[:], raw)
		return xdr.ScAddress{Type: xdr.ScAddressTypeScAddressTypeContract, ContractId: &contractID}, nil
	}
}
