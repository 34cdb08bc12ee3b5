package codec

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

var bitcoinNetworks = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
	&chaincfg.RegressionNetParams,
	&chaincfg.SigNetParams,
}

// BitcoinNetwork returns the network params the address belongs to.
func BitcoinNetwork(address string) (*chaincfg.Params, error) {
	for _, params := range bitcoinNetworks {
		decoded, err := btcutil.DecodeAddress(address, params)
		if err == nil && decoded.IsForNet(params) {
			return params, nil
		}
	}
	return nil, invalid(types.BITCOIN, address, "not a valid address on any known network")
}

func encodeBitcoin(address string) ([]byte, error) {
	if _, err := BitcoinNetwork(address); err != nil {
		return nil, err
	}
	return []byte(address), nil
}
