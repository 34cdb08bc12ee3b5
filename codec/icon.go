package codec

import (
	"encoding/hex"
	"strings"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

const (
	iconEOAPrefix      = "hx"
	iconContractPrefix = "cx"

	iconEOAMarker      = 0x00
	iconContractMarker = 0x01
	// iconFillerMarker replaces a missing or unknown two-character prefix.
	iconFillerMarker = 0xf8

	iconBodyLen = 40
)

// encodeICON replaces the hx/cx prefix with a one-byte marker and keeps the remaining 20 bytes.
func encodeICON(address string) ([]byte, error) {
	lower := strings.ToLower(address)

	marker := byte(iconFillerMarker)
	body := lower
	switch {
	case strings.HasPrefix(lower, iconEOAPrefix):
		marker, body = iconEOAMarker, lower[2:]
	case strings.HasPrefix(lower, iconContractPrefix):
		marker, body = iconContractMarker, lower[2:]
	case len(lower) == iconBodyLen+2:
		body = lower[2:]
	}

	if len(body) != iconBodyLen {
		return nil, invalid(types.ICON, address, "expected 20 bytes after the prefix")
	}
	raw, err := hex.DecodeString(body)
	if err != nil {
		return nil, invalid(types.ICON, address, err.Error())
	}

	return append([]byte{marker}, raw...), nil
}
