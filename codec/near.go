package codec

import (
	"regexp"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

var nearAccountPattern = regexp.MustCompile(`^(([a-z\d]+[-_])*[a-z\d]+\.)*([a-z\d]+[-_])*[a-z\d]+$`)

// ValidNearAccount reports whether id is a valid NEAR account id (named or implicit).
func ValidNearAccount(id string) bool {
	return len(id) >= 2 && len(id) <= 64 && nearAccountPattern.MatchString(id)
}

func encodeNear(address string) ([]byte, error) {
	if !ValidNearAccount(address) {
		return nil, invalid(types.NEAR, address, "not a valid account id")
	}
	return []byte(address), nil
}
