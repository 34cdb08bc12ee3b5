package registry

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// File is the on-disk layout of a registry.
type File struct {
	Hub    types.HubConfig      `toml:"hub" json:"hub"`
	Chains []types.ChainConfig  `toml:"chains" json:"chains"`
	Assets []types.HubAssetInfo `toml:"assets" json:"assets"`
}

// Builder returns a builder populated from the file.
func (f *File) Builder() *Builder {
	b := NewBuilder().WithHub(&f.Hub)
	for i := range f.Chains {
		b.WithChain(&f.Chains[i])
	}
	for _, asset := range f.Assets {
		b.WithHubAsset(asset)
	}
	return b
}

// Load parses a TOML registry.
func Load(data []byte) (*Registry, error) {
	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse TOML registry")
	}
	return file.Builder().Build()
}

// LoadFile reads a registry from path. Files ending in .json are parsed as JSON, anything else as TOML.
//
// Parameters:
// - path: the registry file.
//
// Returns:
// - *Registry: the validated registry.
// - error: a read, parse or validation error.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read registry file")
	}

	if strings.HasSuffix(path, ".json") {
		var file File
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, errors.Wrap(err, "failed to parse JSON registry")
		}
		return file.Builder().Build()
	}
	return Load(data)
}
