package registry

import (
	"context"
	_ "embed"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/wallet"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/registry.toml
var registryTOML []byte

var _ wallet.ChainLookup = (*Registry)(nil)

func loadTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Load(registryTOML)
	require.NoError(t, err)
	return r
}

func testHub() *types.HubConfig {
	return &types.HubConfig{
		ChainID:      "sonic",
		RelayChainID: 146,
		Addresses:    map[string]string{types.HubWallet: "0xC6306fB0B3A1c9D0C0eE6E2b7F0B9a6f6e3d2A10"},
	}
}

func evmChain(id string, relayID uint64) *types.ChainConfig {
	return &types.ChainConfig{
		ID:           id,
		Family:       types.EVM,
		RelayChainID: relayID,
		Addresses: map[string]string{
			types.AssetManager: "0x5bDD1E1C5173F4c912cC919742FB94A55ECfaf86",
			types.Connection:   "0x4555aC13D7338D9E671584C1D118c06B2a3C88eD",
		},
	}
}

func TestLoad_TOML(t *testing.T) {
	r := loadTestRegistry(t)

	assert.Equal(t, []string{"0xa86a.avax", "sui", "bitcoin"}, r.ChainIDs())
	assert.Equal(t, uint64(146), r.Hub().RelayChainID)

	avax, err := r.Chain("0xa86a.avax")
	require.NoError(t, err)
	assert.Equal(t, types.EVM, avax.Family)
	assert.Equal(t, uint8(2), avax.TxType)
	assert.Equal(t, "43114", avax.NetworkID)

	btc, err := r.ChainByRelayID(627463)
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", btc.ID)
	assert.Equal(t, "https://blockstream.info/api", btc.Endpoint(types.EndpointEsplora))

	_, err = r.Chain("solana")
	assert.ErrorIs(t, err, commonerrors.ErrChainNotFound)
	_, err = r.ChainByRelayID(1)
	assert.ErrorIs(t, err, commonerrors.ErrChainNotFound)
}

func TestHubAsset_CaseInsensitiveForHex(t *testing.T) {
	r := loadTestRegistry(t)

	info, err := r.HubAsset("0xa86a.avax", "0xb97ef9ef8734c71904d8002f8b6bc66dd9c48a6e")
	require.NoError(t, err)
	assert.Equal(t, "USDC", info.Symbol)
	assert.Equal(t, 6, info.Decimals)

	info, err = r.HubAsset("0xa86a.avax", "0xB97EF9EF8734C71904D8002F8B6BC66DD9C48A6E")
	require.NoError(t, err)
	assert.Equal(t, "0xAbbb91c0617090F0028BDC27597Cd0D038F3A833", info.Vault)

	_, err = r.HubAsset("bitcoin", "btc")
	assert.ErrorIs(t, err, commonerrors.ErrAssetNotSupported)

	_, err = r.HubAsset("0xa86a.avax", "0x0000000000000000000000000000000000000001")
	assert.ErrorIs(t, err, commonerrors.ErrAssetNotSupported)

	_, err = r.HubAsset("solana", "anything")
	assert.ErrorIs(t, err, commonerrors.ErrChainNotFound)

	original, err := r.OriginalAsset("sui", "0x4676B2A551B25C04E235553C1C81019337384673")
	require.NoError(t, err)
	assert.Equal(t, "0x2::sui::SUI", original)

	assert.Len(t, r.HubAssets("0xa86a.avax"), 2)
	assert.Empty(t, r.HubAssets("solana"))
}

func TestRegistry_HubAssetsKeepRegistrationOrder(t *testing.T) {
	symbols := []string{"WETH", "USDC", "AVAX", "DAI", "BTC.b", "USDT"}
	b := NewBuilder().WithHub(testHub()).WithChain(evmChain("a", 1))
	for i, symbol := range symbols {
		b.WithHubAsset(types.HubAssetInfo{
			SpokeChainID:  "a",
			OriginalAsset: common.BigToAddress(big.NewInt(int64(i + 1))).Hex(),
			Symbol:        symbol,
			Asset:         common.BigToAddress(big.NewInt(int64(100 + i))).Hex(),
			Vault:         common.BigToAddress(big.NewInt(int64(200 + i))).Hex(),
			Decimals:      18,
		})
	}
	r, err := b.Build()
	require.NoError(t, err)

	for run := 0; run < 5; run++ {
		var got []string
		for _, info := range r.HubAssets("a") {
			got = append(got, info.Symbol)
		}
		assert.Equal(t, symbols, got)
	}

	loaded := loadTestRegistry(t)
	var avax []string
	for _, info := range loaded.HubAssets("0xa86a.avax") {
		avax = append(avax, info.Symbol)
	}
	assert.Equal(t, []string{"USDC", "AVAX"}, avax)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r := loadTestRegistry(t)

	config, err := r.Chain("sui")
	require.NoError(t, err)
	config.Addresses[types.AssetManager] = "mutated"
	config.RelayChainID = 1

	fresh, err := r.Chain("sui")
	require.NoError(t, err)
	assert.Equal(t, "0x1111111111111111111111111111111111111111111111111111111111111111", fresh.Addresses[types.AssetManager])
	assert.Equal(t, uint64(21), fresh.RelayChainID)

	hub := r.Hub()
	hub.Addresses[types.HubWallet] = "mutated"
	assert.NotEqual(t, "mutated", r.Hub().Addresses[types.HubWallet])

	ids := r.ChainIDs()
	ids[0] = "mutated"
	assert.Equal(t, "0xa86a.avax", r.ChainIDs()[0])
}

func TestBuilder_Validation(t *testing.T) {
	asset := types.HubAssetInfo{
		SpokeChainID:  "a",
		OriginalAsset: "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E",
		Symbol:        "USDC",
		Asset:         "0x41Fd5c169e014e2A657B9de3553f7a7b735Fe47A",
		Vault:         "0xAbbb91c0617090F0028BDC27597Cd0D038F3A833",
		Decimals:      6,
	}

	tests := []struct {
		name    string
		builder *Builder
		wantErr error
	}{
		{"missing hub", NewBuilder().WithChain(evmChain("a", 1)), commonerrors.ErrInvalidConfig},
		{"bad hub factory", NewBuilder().WithHub(&types.HubConfig{ChainID: "sonic", RelayChainID: 146, Addresses: map[string]string{types.HubWallet: "nope"}}), commonerrors.ErrInvalidAddress},
		{"duplicate chain", NewBuilder().WithHub(testHub()).WithChain(evmChain("a", 1)).WithChain(evmChain("a", 2)), commonerrors.ErrChainExists},
		{"duplicate relay id", NewBuilder().WithHub(testHub()).WithChain(evmChain("a", 1)).WithChain(evmChain("b", 1)), commonerrors.ErrInvalidConfig},
		{"invalid chain", NewBuilder().WithHub(testHub()).WithChain(evmChain("a", 0)), commonerrors.ErrInvalidConfig},
		{"asset for unknown chain", NewBuilder().WithHub(testHub()).WithHubAsset(asset), commonerrors.ErrChainNotFound},
		{"bad vault", NewBuilder().WithHub(testHub()).WithChain(evmChain("a", 1)).WithHubAsset(func() types.HubAssetInfo {
			bad := asset
			bad.Vault = "vault"
			return bad
		}()), commonerrors.ErrInvalidAddress},
		{"bad decimals", NewBuilder().WithHub(testHub()).WithChain(evmChain("a", 1)).WithHubAsset(func() types.HubAssetInfo {
			bad := asset
			bad.Decimals = 78
			return bad
		}()), commonerrors.ErrInvalidDecimals},
		{"duplicate asset ignoring case", NewBuilder().WithHub(testHub()).WithChain(evmChain("a", 1)).WithHubAsset(asset).WithHubAsset(func() types.HubAssetInfo {
			dup := asset
			dup.OriginalAsset = "0xb97ef9ef8734c71904d8002f8b6bc66dd9c48a6e"
			return dup
		}()), commonerrors.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuilder_IsolatedFromCaller(t *testing.T) {
	config := evmChain("a", 1)
	b := NewBuilder().WithHub(testHub()).WithChain(config)
	config.Addresses[types.AssetManager] = ""

	r, err := b.Build()
	require.NoError(t, err)
	stored, err := r.Chain("a")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Addresses[types.AssetManager])
}

func TestLoadFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	content := `{
		"hub": {"chainId": "sonic", "relayChainId": 146, "addresses": {"hubWallet": "0xC6306fB0B3A1c9D0C0eE6E2b7F0B9a6f6e3d2A10"}},
		"chains": [{"id": "a", "family": "EVM", "relayChainId": 1,
			"addresses": {"assetManager": "0x5bDD1E1C5173F4c912cC919742FB94A55ECfaf86", "connection": "0x4555aC13D7338D9E671584C1D118c06B2a3C88eD"}}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, r.ChainIDs())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load([]byte("[hub\nbroken"))
	assert.Error(t, err)
}

type factoryFunc func(ctx context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error)

func (f factoryFunc) CreateSpoke(ctx context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	return f(ctx, config, deps)
}

func TestRegisterSpokes(t *testing.T) {
	r := loadTestRegistry(t)
	wallets := map[string]interface{}{"sui": "sui wallet"}
	received := map[string]interface{}{}

	factory := factoryFunc(func(_ context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
		received[config.ID] = deps.Wallet
		return chainmanager.NewSpokeBuilder(config).Build(), nil
	})
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	spokes := chainmanager.NewSpokeRegistry(factory, nil, logger)

	require.NoError(t, r.RegisterSpokes(context.Background(), spokes, wallets))
	assert.Equal(t, []string{"0xa86a.avax", "bitcoin", "sui"}, spokes.ChainIDs())
	assert.Equal(t, "sui wallet", received["sui"])
	assert.Nil(t, received["bitcoin"])

	err := r.RegisterSpokes(context.Background(), spokes, nil)
	assert.ErrorIs(t, err, commonerrors.ErrChainExists)
}

// offlineReader fails every hub read.
type offlineReader struct {
	calls int
}

func (r *offlineReader) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	r.calls++
	return nil, errors.New("hub offline")
}

func TestRegistry_ResolvesHubIdentityWithoutHubChainEntry(t *testing.T) {
	r := loadTestRegistry(t)
	_, err := r.Chain(r.Hub().ChainID)
	require.ErrorIs(t, err, commonerrors.ErrChainNotFound)

	reader := &offlineReader{}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	resolver := wallet.NewResolver(r.Hub(), r, reader, nil, quiet)

	got, err := resolver.ResolveHubWallet(context.Background(), "sonic", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"), got)
	assert.Zero(t, reader.calls)

	_, err = resolver.ResolveHubWallet(context.Background(), "near", "alice.near")
	assert.ErrorIs(t, err, commonerrors.ErrChainNotFound)
}
