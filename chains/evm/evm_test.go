package evm

import (
	"bytes"
	"context"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	"github.com/icon-project/sodax-frontend-sub008/chains/evm/signer"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/contracts"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const devKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var (
	user         = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	hubWallet    = common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")
	assetManager = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	connection   = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	router       = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	usdc         = common.HexToAddress("0x00000000000000000000000000000000000000d1")
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	args := m.Called(ctx, msg, blockNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockClient) HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error) {
	args := m.Called(ctx, number)
	return args.Get(0).(*ethtypes.Header), args.Error(1)
}

func (m *MockClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockClient) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	args := m.Called(ctx, account, blockNumber)
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Receipt), args.Error(1)
}

func (m *MockClient) SubscribeNewHead(ctx context.Context, ch chan<- *ethtypes.Header) (ethereum.Subscription, error) {
	args := m.Called(ctx, ch)
	return nil, args.Error(1)
}

func (m *MockClient) BlockNumber(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockClient) Close() {}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveHubWallet(ctx context.Context, chainID string, address string) (common.Address, error) {
	args := m.Called(ctx, chainID, address)
	return args.Get(0).(common.Address), args.Error(1)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig(txType uint8) *types.ChainConfig {
	return &types.ChainConfig{
		ID:           "0xa86a.avax",
		Family:       types.EVM,
		RelayChainID: 6,
		NativeToken:  ZeroAddress,
		NetworkID:    "43114",
		TxType:       txType,
		RPCURL:       "http://localhost:8545",
		Addresses: map[string]string{
			types.AssetManager: assetManager.Hex(),
			types.Connection:   connection.Hex(),
			types.WalletRouter: router.Hex(),
		},
	}
}

func newTestEvm(t *testing.T, config *types.ChainConfig, wallet interface{}) (*evm, *MockClient, *MockResolver) {
	t.Helper()
	client := new(MockClient)
	resolver := new(MockResolver)
	chain, err := newEvm(config, chainmanager.Dependencies{
		Logger:   quietLogger(),
		Resolver: resolver,
		Wallet:   wallet,
	}, client)
	require.NoError(t, err)
	chain.receiptPollInterval = time.Millisecond
	return chain, client, resolver
}

func testSigner(t *testing.T) signer.Signer {
	t.Helper()
	s, err := signer.NewSignerFromHex(devKey)
	require.NoError(t, err)
	return s
}

// selector matches eth_call messages by their 4-byte method id.
func selector(method string) interface{} {
	id := contracts.ERC20.Methods[method].ID
	return mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return bytes.HasPrefix(msg.Data, id)
	})
}

func uint256Output(t *testing.T, v int64) []byte {
	t.Helper()
	out, err := contracts.ERC20.Methods["balanceOf"].Outputs.Pack(big.NewInt(v))
	require.NoError(t, err)
	return out
}

func expectLegacyGas(client *MockClient) {
	client.On("PendingNonceAt", mock.Anything, user).Return(uint64(7), nil)
	client.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(100000), nil)
	client.On("SuggestGasPrice", mock.Anything).Return(big.NewInt(100), nil)
}

func TestNewEvm_Validation(t *testing.T) {
	config := testConfig(TxTypeLegacy)
	_, err := newEvm(config, chainmanager.Dependencies{Wallet: "not a signer"}, new(MockClient))
	assert.ErrorIs(t, err, commonerrors.ErrWrongWalletType)

	config.NetworkID = "avax"
	_, err = newEvm(config, chainmanager.Dependencies{}, new(MockClient))
	assert.ErrorIs(t, err, commonerrors.ErrInvalidConfig)
}

func TestBuildDeposit_NativeResolvesHubWallet(t *testing.T) {
	chain, client, resolver := newTestEvm(t, testConfig(TxTypeLegacy), nil)
	resolver.On("ResolveHubWallet", mock.Anything, "0xa86a.avax", user.Hex()).Return(hubWallet, nil)
	client.On("BalanceAt", mock.Anything, user, (*big.Int)(nil)).Return(big.NewInt(1e18), nil)
	expectLegacyGas(client)

	amount := big.NewInt(5e17)
	raw, err := chain.BuildDeposit(context.Background(), &types.DepositParams{
		From:   user.Hex(),
		Token:  ZeroAddress,
		Amount: amount,
		Data:   []byte{0xca, 0xfe},
	})
	require.NoError(t, err)

	tx := raw.Native.(*ethtypes.Transaction)
	assert.Equal(t, assetManager, *tx.To())
	assert.Equal(t, amount, tx.Value())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(110000), tx.Gas())
	assert.Equal(t, big.NewInt(150), tx.GasPrice())
	assert.Equal(t, uint8(ethtypes.LegacyTxType), tx.Type())
	assert.NotEmpty(t, raw.Encoded)

	method := contracts.AssetManager.Methods["transfer"]
	assert.Equal(t, method.ID, tx.Data()[:4])
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, args[0])
	assert.Equal(t, hubWallet.Bytes(), args[1])
	assert.Equal(t, amount, args[2])
	assert.Equal(t, []byte{0xca, 0xfe}, args[3])
}

func TestBuildDeposit_TokenNeedsAllowance(t *testing.T) {
	chain, client, _ := newTestEvm(t, testConfig(TxTypeLegacy), nil)
	client.On("CallContract", mock.Anything, selector("balanceOf"), (*big.Int)(nil)).Return(uint256Output(t, 1000), nil)
	client.On("CallContract", mock.Anything, selector("allowance"), (*big.Int)(nil)).Return(uint256Output(t, 10), nil)

	_, err := chain.BuildDeposit(context.Background(), &types.DepositParams{
		From:   user.Hex(),
		To:     hubWallet.Hex(),
		Token:  usdc.Hex(),
		Amount: big.NewInt(100),
	})
	assert.ErrorIs(t, err, commonerrors.ErrInsufficientAllowance)
}

func TestBuildDeposit_InsufficientBalance(t *testing.T) {
	chain, client, _ := newTestEvm(t, testConfig(TxTypeLegacy), nil)
	client.On("CallContract", mock.Anything, selector("balanceOf"), (*big.Int)(nil)).Return(uint256Output(t, 1), nil)

	_, err := chain.BuildDeposit(context.Background(), &types.DepositParams{
		From:   user.Hex(),
		To:     hubWallet.Hex(),
		Token:  usdc.Hex(),
		Amount: big.NewInt(100),
	})
	assert.ErrorIs(t, err, commonerrors.ErrInsufficientBalance)
}

func TestBuildDeposit_Preconditions(t *testing.T) {
	chain, _, _ := newTestEvm(t, testConfig(TxTypeLegacy), nil)
	ctx := context.Background()

	_, err := chain.BuildDeposit(ctx, &types.DepositParams{From: user.Hex(), To: hubWallet.Hex(), Token: usdc.Hex(), Amount: big.NewInt(0)})
	assert.ErrorIs(t, err, commonerrors.ErrZeroAmount)

	_, err = chain.BuildDeposit(ctx, &types.DepositParams{From: user.Hex(), To: "hx01", Token: usdc.Hex(), Amount: big.NewInt(1)})
	assert.ErrorIs(t, err, commonerrors.ErrInvalidAddress)

	_, err = chain.BuildDeposit(ctx, &types.DepositParams{From: "bogus", To: hubWallet.Hex(), Token: usdc.Hex(), Amount: big.NewInt(1)})
	assert.ErrorIs(t, err, commonerrors.ErrInvalidAddress)
}

func TestDeposit_RawModeHasNoWallet(t *testing.T) {
	chain, client, _ := newTestEvm(t, testConfig(TxTypeLegacy), nil)

	_, err := chain.Deposit(context.Background(), &types.DepositParams{
		From: user.Hex(), To: hubWallet.Hex(), Token: ZeroAddress, Amount: big.NewInt(1),
	})
	assert.ErrorIs(t, err, commonerrors.ErrWalletNotConfigured)
	client.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
}

func TestDeposit_SignsAndSendsOnce(t *testing.T) {
	chain, client, _ := newTestEvm(t, testConfig(TxTypeLegacy), testSigner(t))
	client.On("BalanceAt", mock.Anything, user, (*big.Int)(nil)).Return(big.NewInt(1e18), nil)
	expectLegacyGas(client)
	client.On("SendTransaction", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := chain.Deposit(context.Background(), &types.DepositParams{
		From: user.Hex(), To: hubWallet.Hex(), Token: ZeroAddress, Amount: big.NewInt(1),
	})
	require.NoError(t, err)

	sent := client.Calls[len(client.Calls)-1].Arguments.Get(1).(*ethtypes.Transaction)
	assert.Equal(t, sent.Hash().Hex(), result.Hash)
	assert.Equal(t, assetManager.Hex(), result.To)
	sender, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(big.NewInt(43114)), sent)
	require.NoError(t, err)
	assert.Equal(t, user, sender)
	client.AssertNumberOfCalls(t, "SendTransaction", 1)
}

func TestDeposit_WrongSender(t *testing.T) {
	chain, _, _ := newTestEvm(t, testConfig(TxTypeLegacy), testSigner(t))

	_, err := chain.Deposit(context.Background(), &types.DepositParams{
		From: hubWallet.Hex(), To: hubWallet.Hex(), Token: ZeroAddress, Amount: big.NewInt(1),
	})
	assert.ErrorIs(t, err, commonerrors.ErrInvalidAddress)
}

func TestBuildCall_EIP1559(t *testing.T) {
	chain, client, _ := newTestEvm(t, testConfig(TxTypeEIP1559), nil)
	client.On("PendingNonceAt", mock.Anything, user).Return(uint64(1), nil)
	client.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(50000), nil)
	client.On("SuggestGasTipCap", mock.Anything).Return(big.NewInt(2), nil)
	client.On("HeaderByNumber", mock.Anything, (*big.Int)(nil)).Return(&ethtypes.Header{BaseFee: big.NewInt(100)}, nil)

	raw, err := chain.BuildCall(context.Background(), &types.CallParams{
		From:            user.Hex(),
		DstRelayChainID: 146,
		DstAddress:      hubWallet.Bytes(),
		Payload:         []byte{0x01},
	})
	require.NoError(t, err)

	tx := raw.Native.(*ethtypes.Transaction)
	assert.Equal(t, uint8(ethtypes.DynamicFeeTxType), tx.Type())
	assert.Equal(t, connection, *tx.To())
	assert.Equal(t, big.NewInt(132), tx.GasFeeCap())
	assert.Equal(t, big.NewInt(2), tx.GasTipCap())
	assert.Equal(t, big.NewInt(43114), tx.ChainId())

	method := contracts.Connection.Methods["sendMessage"]
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(146), args[0])
	assert.Equal(t, hubWallet.Bytes(), args[1])
	assert.Equal(t, []byte{0x01}, args[2])
}

func TestBuildCall_SimulationFailure(t *testing.T) {
	chain, client, _ := newTestEvm(t, testConfig(TxTypeLegacy), nil)
	client.On("PendingNonceAt", mock.Anything, user).Return(uint64(1), nil)
	client.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(0), assert.AnError)

	_, err := chain.BuildCall(context.Background(), &types.CallParams{
		From: user.Hex(), DstRelayChainID: 146, DstAddress: hubWallet.Bytes(), Payload: []byte{0x01},
	})
	assert.ErrorIs(t, err, commonerrors.ErrSimulationFailed)
}

func TestGetDeposit(t *testing.T) {
	chain, client, _ := newTestEvm(t, testConfig(TxTypeLegacy), nil)
	client.On("CallContract", mock.Anything, mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return *msg.To == usdc
	}), (*big.Int)(nil)).Return(uint256Output(t, 4242), nil)
	client.On("BalanceAt", mock.Anything, assetManager, (*big.Int)(nil)).Return(big.NewInt(99), nil)

	balance, err := chain.GetDeposit(context.Background(), usdc.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(4242), balance.Int64())

	balance, err = chain.GetDeposit(context.Background(), ZeroAddress)
	require.NoError(t, err)
	assert.Equal(t, int64(99), balance.Int64())
}

func TestApprove_WaitsForReceipt(t *testing.T) {
	chain, client, _ := newTestEvm(t, testConfig(TxTypeLegacy), testSigner(t))
	expectLegacyGas(client)
	client.On("SendTransaction", mock.Anything, mock.Anything).Return(nil)
	client.On("TransactionReceipt", mock.Anything, mock.Anything).Return(nil, ethereum.NotFound).Once()
	client.On("TransactionReceipt", mock.Anything, mock.Anything).Return(&ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful}, nil)

	result, err := chain.Approve(context.Background(), user.Hex(), usdc.Hex(), big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, usdc.Hex(), result.To)
	client.AssertNumberOfCalls(t, "TransactionReceipt", 2)

	sent := result.Raw.Native.(*ethtypes.Transaction)
	args, err := contracts.ERC20.Methods["approve"].Inputs.Unpack(sent.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, assetManager, args[0])
}

func TestIsAllowanceValid(t *testing.T) {
	chain, client, _ := newTestEvm(t, testConfig(TxTypeLegacy), nil)
	client.On("CallContract", mock.Anything, selector("allowance"), (*big.Int)(nil)).Return(uint256Output(t, 100), nil)

	ok, err := chain.IsAllowanceValid(context.Background(), user.Hex(), usdc.Hex(), big.NewInt(100))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = chain.IsAllowanceValid(context.Background(), user.Hex(), usdc.Hex(), big.NewInt(101))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = chain.IsAllowanceValid(context.Background(), user.Hex(), ZeroAddress, big.NewInt(101))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSonic_BuildDepositRoutesThroughWalletRouter(t *testing.T) {
	config := testConfig(TxTypeLegacy)
	config.Family = types.SONIC
	chain, client, resolver := newTestEvm(t, config, nil)
	s := &sonic{evm: chain}

	client.On("CallContract", mock.Anything, selector("balanceOf"), (*big.Int)(nil)).Return(uint256Output(t, 1000), nil)
	client.On("CallContract", mock.Anything, selector("allowance"), (*big.Int)(nil)).Return(uint256Output(t, 1000), nil)
	expectLegacyGas(client)

	raw, err := s.BuildDeposit(context.Background(), &types.DepositParams{
		From: user.Hex(), Token: usdc.Hex(), Amount: big.NewInt(100), Data: []byte{0x09},
	})
	require.NoError(t, err)
	resolver.AssertNotCalled(t, "ResolveHubWallet", mock.Anything, mock.Anything, mock.Anything)

	tx := raw.Native.(*ethtypes.Transaction)
	assert.Equal(t, router, *tx.To())
	args, err := contracts.WalletRouter.Methods["route"].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, usdc, args[0])
	assert.Equal(t, big.NewInt(100), args[1])
	assert.Equal(t, []byte{0x09}, args[2])

	_, err = s.BuildDeposit(context.Background(), &types.DepositParams{
		From: user.Hex(), To: hubWallet.Hex(), Token: usdc.Hex(), Amount: big.NewInt(100),
	})
	assert.ErrorIs(t, err, commonerrors.ErrInvalidAddress)
}

func TestSonic_BuildCallRoutesPayload(t *testing.T) {
	config := testConfig(TxTypeLegacy)
	config.Family = types.SONIC
	chain, client, _ := newTestEvm(t, config, nil)
	s := &sonic{evm: chain}
	expectLegacyGas(client)

	raw, err := s.BuildCall(context.Background(), &types.CallParams{From: user.Hex(), Payload: []byte{0x01, 0x02}})
	require.NoError(t, err)

	tx := raw.Native.(*ethtypes.Transaction)
	args, err := contracts.WalletRouter.Methods["route"].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, args[0])
	assert.Equal(t, int64(0), args[1].(*big.Int).Int64())
	assert.Equal(t, []byte{0x01, 0x02}, args[2])
	assert.Equal(t, int64(0), tx.Value().Int64())
}
