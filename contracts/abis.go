// Package contracts holds the ABI definitions of the EVM contracts the settlement core talks to.
package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	// ERC20ABI covers the token methods used for deposits and balance reads.
	ERC20ABI = `[
		{"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
		{"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
		{"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
		{"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
	]`

	// AssetManagerABI is shared by spoke asset managers and the hub asset manager.
	AssetManagerABI = `[
		{"inputs":[{"name":"token","type":"address"},{"name":"to","type":"bytes"},{"name":"amount","type":"uint256"},{"name":"data","type":"bytes"}],"name":"transfer","outputs":[],"stateMutability":"payable","type":"function"}
	]`

	// ConnectionABI is the spoke connection contract.
	ConnectionABI = `[
		{"inputs":[{"name":"dstChainId","type":"uint256"},{"name":"dstAddress","type":"bytes"},{"name":"payload","type":"bytes"}],"name":"sendMessage","outputs":[],"stateMutability":"nonpayable","type":"function"}
	]`

	// WalletRouterABI routes hub-chain deposits into the caller's hub wallet.
	WalletRouterABI = `[
		{"inputs":[{"name":"token","type":"address"},{"name":"amount","type":"uint256"},{"name":"data","type":"bytes"}],"name":"route","outputs":[],"stateMutability":"payable","type":"function"}
	]`

	// WalletFactoryABI derives counterfactual hub wallets.
	WalletFactoryABI = `[
		{"inputs":[{"name":"chainId","type":"uint256"},{"name":"user","type":"bytes"}],"name":"getDeployedAddress","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
	]`

	// VaultABI is the hub vault wrapping spoke assets.
	VaultABI = `[
		{"inputs":[{"name":"token","type":"address"},{"name":"amount","type":"uint256"}],"name":"deposit","outputs":[],"stateMutability":"nonpayable","type":"function"},
		{"inputs":[{"name":"token","type":"address"},{"name":"amount","type":"uint256"}],"name":"withdraw","outputs":[],"stateMutability":"nonpayable","type":"function"}
	]`
)

var (
	ERC20         = mustParseABI(ERC20ABI)
	AssetManager  = mustParseABI(AssetManagerABI)
	Connection    = mustParseABI(ConnectionABI)
	WalletRouter  = mustParseABI(WalletRouterABI)
	WalletFactory = mustParseABI(WalletFactoryABI)
	Vault         = mustParseABI(VaultABI)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
