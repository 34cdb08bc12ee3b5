package icon

import (
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"
)

// serializationPrefix precedes the serialized params of every signed transaction.
const serializationPrefix = "icx_sendTransaction."

var serializationEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`{`, `\{`,
	`}`, `\}`,
	`[`, `\[`,
	`]`, `\]`,
)

// serialize renders params in the v3 signing format: sorted "key.value" pairs joined by dots,
// nested objects in braces, arrays in brackets, null as \0.
func serialize(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return `\0`
	case string:
		return serializationEscaper.Replace(v)
	case map[string]string:
		generic := make(map[string]interface{}, len(v))
		for key, item := range v {
			generic[key] = item
		}
		return "{" + serializeFields(generic) + "}"
	case map[string]interface{}:
		return "{" + serializeFields(v) + "}"
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, serialize(item))
		}
		return "[" + strings.Join(items, ".") + "]"
	default:
		return ""
	}
}

func serializeFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"."+serialize(fields[key]))
	}
	return strings.Join(parts, ".")
}

// transactionHash returns the sha3-256 digest that is signed.
func transactionHash(params map[string]interface{}) []byte {
	sum := sha3.Sum256([]byte(serializationPrefix + serializeFields(params)))
	return sum[:]
}
