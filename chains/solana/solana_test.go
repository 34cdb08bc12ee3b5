package solana

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"io"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	sol "github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	userKey      = sol.PrivateKey(ed25519.NewKeyFromSeed(bytes.Repeat([]byte{7}, 32)))
	assetManager = sol.PublicKeyFromBytes(bytes.Repeat([]byte{0xa1}, 32))
	connection   = sol.PublicKeyFromBytes(bytes.Repeat([]byte{0xc1}, 32))
	usdcMint     = sol.PublicKeyFromBytes(bytes.Repeat([]byte{0xd1}, 32))
	blockhash    = sol.HashFromBytes(bytes.Repeat([]byte{0x42}, 32))
	hubWallet    = common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	args := m.Called(ctx, commitment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetLatestBlockhashResult), args.Error(1)
}

func (m *MockClient) SimulateTransaction(ctx context.Context, tx *sol.Transaction) (*rpc.SimulateTransactionResponse, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.SimulateTransactionResponse), args.Error(1)
}

func (m *MockClient) SendTransactionWithOpts(ctx context.Context, tx *sol.Transaction, opts rpc.TransactionOpts) (sol.Signature, error) {
	args := m.Called(ctx, tx, opts)
	return args.Get(0).(sol.Signature), args.Error(1)
}

func (m *MockClient) GetBalance(ctx context.Context, account sol.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	args := m.Called(ctx, account, commitment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetBalanceResult), args.Error(1)
}

func (m *MockClient) GetTokenAccountBalance(ctx context.Context, account sol.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error) {
	args := m.Called(ctx, account, commitment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetTokenAccountBalanceResult), args.Error(1)
}

func (m *MockClient) GetRecentPrioritizationFees(ctx context.Context, accounts sol.PublicKeySlice) ([]rpc.PriorizationFeeResult, error) {
	args := m.Called(ctx, accounts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rpc.PriorizationFeeResult), args.Error(1)
}

func (m *MockClient) GetHealth(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Close() error {
	return nil
}

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

func testConfig() *types.ChainConfig {
	return &types.ChainConfig{
		ID:           "solana",
		Family:       types.SOLANA,
		RelayChainID: 1501,
		NativeToken:  sol.SystemProgramID.String(),
		RPCURL:       "http://localhost:8899",
		Addresses: map[string]string{
			types.AssetManager: assetManager.String(),
			types.Connection:   connection.String(),
		},
	}
}

func newTestSolana(t *testing.T, wallet interface{}) (*solana, *MockClient, *MockResolver) {
	t.Helper()
	client := new(MockClient)
	resolver := new(MockResolver)
	chain, err := newSolana(testConfig(), chainmanager.Dependencies{
		Logger:   quietLogger(),
		Resolver: resolver,
		Wallet:   wallet,
	}, client)
	require.NoError(t, err)
	return chain, client, resolver
}

func units(n uint64) *uint64 {
	return &n
}

// expectBudget mocks the blockhash, simulation and priority fee lookups of one build.
func expectBudget(client *MockClient, program sol.PublicKey, consumed uint64) {
	client.On("GetLatestBlockhash", mock.Anything, rpc.CommitmentFinalized).
		Return(&rpc.GetLatestBlockhashResult{Value: &rpc.LatestBlockhashResult{Blockhash: blockhash}}, nil).Once()
	client.On("SimulateTransaction", mock.Anything, mock.AnythingOfType("*solana.Transaction")).
		Return(&rpc.SimulateTransactionResponse{Value: &rpc.SimulateTransactionResult{UnitsConsumed: units(consumed)}}, nil).Once()
	client.On("GetRecentPrioritizationFees", mock.Anything, sol.PublicKeySlice{program}).
		Return([]rpc.PriorizationFeeResult{{PrioritizationFee: 500}, {PrioritizationFee: 100}, {PrioritizationFee: 300}}, nil).Once()
}

func instructionData(t *testing.T, tx *sol.Transaction, i int) (sol.PublicKey, []byte) {
	t.Helper()
	require.Greater(t, len(tx.Message.Instructions), i)
	ix := tx.Message.Instructions[i]
	program, err := tx.Message.ResolveProgramIDIndex(ix.ProgramIDIndex)
	require.NoError(t, err)
	return program, []byte(ix.Data)
}

func budgetData(t *testing.T, limit uint32, price uint64) ([]byte, []byte) {
	t.Helper()
	limitData, err := computebudget.NewSetComputeUnitLimitInstruction(limit).Build().Data()
	require.NoError(t, err)
	priceData, err := computebudget.NewSetComputeUnitPriceInstruction(price).Build().Data()
	require.NoError(t, err)
	return limitData, priceData
}

func TestDiscriminator(t *testing.T) {
	assert.Equal(t, "a334c8e78c0345ba", hex.EncodeToString(discriminator(instructionTransfer)))
	assert.Equal(t, "392822b2bd0a411a", hex.EncodeToString(discriminator(instructionSendMessage)))
}

func TestTransferData_Layout(t *testing.T) {
	data, err := transferData(1_000, []byte{0xaa, 0xbb}, []byte{0x01})
	require.NoError(t, err)

	expected := append([]byte{}, discriminator(instructionTransfer)...)
	expected = binary.LittleEndian.AppendUint64(expected, 1_000)
	expected = append(expected, 2, 0, 0, 0, 0xaa, 0xbb)
	expected = append(expected, 1, 0, 0, 0, 0x01)
	assert.Equal(t, expected, data)
}

func TestNewSolana_Validation(t *testing.T) {
	config := testConfig()
	delete(config.Addresses, types.Connection)
	_, err := newSolana(config, chainmanager.Dependencies{}, new(MockClient))
	assert.ErrorIs(t, err, commonerrors.ErrInvalidConfig)

	config = testConfig()
	config.Addresses[types.AssetManager] = "not-base58!"
	_, err = newSolana(config, chainmanager.Dependencies{}, new(MockClient))
	assert.ErrorIs(t, err, commonerrors.ErrInvalidConfig)

	_, err = newSolana(testConfig(), chainmanager.Dependencies{Wallet: "key"}, new(MockClient))
	assert.ErrorIs(t, err, commonerrors.ErrWrongWalletType)
}

func TestBuildDeposit_NativeResolvesHubWallet(t *testing.T) {
	chain, client, resolver := newTestSolana(t, nil)
	payer := userKey.PublicKey()
	payload := []byte{0xde, 0xad, 0xbe, 0xef}

	resolver.On("ResolveHubWallet", mock.Anything, "solana", payer.String()).Return(hubWallet, nil).Once()
	client.On("GetBalance", mock.Anything, payer, rpc.CommitmentFinalized).
		Return(&rpc.GetBalanceResult{Value: 5_000_000}, nil).Once()
	expectBudget(client, assetManager, 10_000)

	raw, err := chain.BuildDeposit(context.Background(), &types.DepositParams{
		From:   payer.String(),
		Token:  sol.SystemProgramID.String(),
		Amount: big.NewInt(1_000_000),
		Data:   payload,
	})
	require.NoError(t, err)

	assert.Equal(t, types.SOLANA, raw.Family)
	assert.Equal(t, payer.String(), raw.From)
	assert.Equal(t, assetManager.String(), raw.To)
	assert.Equal(t, int64(1_000_000), raw.Value.Int64())

	tx, ok := raw.Native.(*sol.Transaction)
	require.True(t, ok)
	require.Len(t, tx.Message.Instructions, 3)
	assert.Equal(t, blockhash, tx.Message.RecentBlockhash)

	limitData, priceData := budgetData(t, 12_000, 300)
	program, data := instructionData(t, tx, 0)
	assert.Equal(t, sol.ComputeBudget, program)
	assert.Equal(t, limitData, data)
	_, data = instructionData(t, tx, 1)
	assert.Equal(t, priceData, data)

	program, data = instructionData(t, tx, 2)
	assert.Equal(t, assetManager, program)
	expected, err := transferData(1_000_000, hubWallet.Bytes(), crypto.Keccak256(payload))
	require.NoError(t, err)
	assert.Equal(t, expected, data)
	assert.Equal(t, expected, raw.Data)

	message, err := tx.Message.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(message), raw.Encoded)

	vault, err := chain.vaultAddress(sol.SystemProgramID, true)
	require.NoError(t, err)
	writable, err := tx.Message.IsWritable(vault)
	require.NoError(t, err)
	assert.True(t, writable)

	client.AssertExpectations(t)
	resolver.AssertExpectations(t)
}

func TestBuildDeposit_TokenChecksPayerTokenAccount(t *testing.T) {
	chain, client, _ := newTestSolana(t, nil)
	payer := userKey.PublicKey()
	ata, err := GetAssociatedTokenAddress(usdcMint, payer)
	require.NoError(t, err)

	client.On("GetTokenAccountBalance", mock.Anything, ata, rpc.CommitmentFinalized).
		Return(&rpc.GetTokenAccountBalanceResult{Value: &rpc.UiTokenAmount{Amount: "100"}}, nil).Once()

	_, err = chain.BuildDeposit(context.Background(), &types.DepositParams{
		From:   payer.String(),
		To:     hubWallet.Hex(),
		Token:  usdcMint.String(),
		Amount: big.NewInt(101),
	})
	assert.ErrorIs(t, err, commonerrors.ErrInsufficientBalance)
	client.AssertExpectations(t)
}

func TestBuildDeposit_Preconditions(t *testing.T) {
	chain, _, _ := newTestSolana(t, nil)
	payer := userKey.PublicKey().String()

	_, err := chain.BuildDeposit(context.Background(), &types.DepositParams{
		From: payer, To: hubWallet.Hex(), Token: usdcMint.String(), Amount: big.NewInt(0),
	})
	assert.ErrorIs(t, err, commonerrors.ErrZeroAmount)

	tooLarge := new(big.Int).Lsh(big.NewInt(1), 64)
	_, err = chain.BuildDeposit(context.Background(), &types.DepositParams{
		From: payer, To: hubWallet.Hex(), Token: usdcMint.String(), Amount: tooLarge,
	})
	assert.ErrorIs(t, err, commonerrors.ErrAmountOverflow)

	_, err = chain.BuildDeposit(context.Background(), &types.DepositParams{
		From: "0xnot-solana", To: hubWallet.Hex(), Token: usdcMint.String(), Amount: big.NewInt(1),
	})
	assert.ErrorIs(t, err, commonerrors.ErrInvalidAddress)
}

func TestDeposit_RawModeNeedsWallet(t *testing.T) {
	chain, client, _ := newTestSolana(t, nil)

	_, err := chain.Deposit(context.Background(), &types.DepositParams{
		From: userKey.PublicKey().String(), To: hubWallet.Hex(), Token: usdcMint.String(), Amount: big.NewInt(1),
	})
	assert.ErrorIs(t, err, commonerrors.ErrWalletNotConfigured)
	client.AssertNotCalled(t, "SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeposit_SignsAndSendsOnce(t *testing.T) {
	chain, client, _ := newTestSolana(t, userKey)
	payer := userKey.PublicKey()
	payload := []byte("hub calls")
	sent := sol.Signature{9, 9, 9}

	client.On("GetBalance", mock.Anything, payer, rpc.CommitmentFinalized).
		Return(&rpc.GetBalanceResult{Value: 10}, nil).Once()
	expectBudget(client, assetManager, 20_000)
	client.On("SendTransactionWithOpts", mock.Anything, mock.AnythingOfType("*solana.Transaction"), rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentProcessed,
	}).Return(sent, nil).Once()

	res, err := chain.Deposit(context.Background(), &types.DepositParams{
		From:   payer.String(),
		To:     hubWallet.Hex(),
		Token:  sol.SystemProgramID.String(),
		Amount: big.NewInt(10),
		Data:   payload,
	})
	require.NoError(t, err)

	assert.Equal(t, sent.String(), res.Hash)
	assert.Equal(t, "solana", res.ChainID)
	require.NotNil(t, res.RelayData)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", res.RelayData.Address)
	assert.Equal(t, "0x"+hex.EncodeToString(payload), res.RelayData.Payload)

	tx := res.Raw.Native.(*sol.Transaction)
	require.Len(t, tx.Signatures, 1)
	message, err := tx.Message.MarshalBinary()
	require.NoError(t, err)
	assert.True(t, tx.Signatures[0].Verify(payer, message))

	client.AssertNumberOfCalls(t, "SendTransactionWithOpts", 1)
}

func TestDeposit_RejectsForeignSender(t *testing.T) {
	chain, _, _ := newTestSolana(t, userKey)
	other := sol.PublicKeyFromBytes(bytes.Repeat([]byte{0x99}, 32))

	_, err := chain.Deposit(context.Background(), &types.DepositParams{
		From: other.String(), To: hubWallet.Hex(), Token: usdcMint.String(), Amount: big.NewInt(1),
	})
	assert.ErrorIs(t, err, commonerrors.ErrInvalidAddress)
}

func TestBuildCall_SimulationFailureUsesDefaultUnits(t *testing.T) {
	chain, client, _ := newTestSolana(t, nil)
	payer := userKey.PublicKey()
	dst := hubWallet.Bytes()
	payload := []byte{0x01, 0x02}

	client.On("GetLatestBlockhash", mock.Anything, rpc.CommitmentFinalized).
		Return(&rpc.GetLatestBlockhashResult{Value: &rpc.LatestBlockhashResult{Blockhash: blockhash}}, nil).Once()
	client.On("SimulateTransaction", mock.Anything, mock.AnythingOfType("*solana.Transaction")).
		Return(&rpc.SimulateTransactionResponse{Value: &rpc.SimulateTransactionResult{Err: "AccountNotFound"}}, nil).Once()
	client.On("GetRecentPrioritizationFees", mock.Anything, sol.PublicKeySlice{connection}).
		Return([]rpc.PriorizationFeeResult{}, nil).Once()

	raw, err := chain.BuildCall(context.Background(), &types.CallParams{
		From:            payer.String(),
		DstRelayChainID: 146,
		DstAddress:      dst,
		Payload:         payload,
	})
	require.NoError(t, err)
	assert.Equal(t, connection.String(), raw.To)
	assert.Nil(t, raw.Value)

	tx := raw.Native.(*sol.Transaction)
	limitData, priceData := budgetData(t, uint32(defaultComputeUnits*computeUnitBuffer/100), defaultPriorityFee)
	_, data := instructionData(t, tx, 0)
	assert.Equal(t, limitData, data)
	_, data = instructionData(t, tx, 1)
	assert.Equal(t, priceData, data)

	program, data := instructionData(t, tx, 2)
	assert.Equal(t, connection, program)
	expected, err := sendMessageData(146, dst, crypto.Keccak256(payload))
	require.NoError(t, err)
	assert.Equal(t, expected, data)
	client.AssertExpectations(t)
}

func TestCall_ReturnsPayloadForRelay(t *testing.T) {
	chain, client, _ := newTestSolana(t, userKey)
	payer := userKey.PublicKey()
	payload := []byte{0xca, 0xfe}

	expectBudget(client, connection, 5_000)
	client.On("SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything).Return(sol.Signature{1}, nil).Once()

	res, err := chain.Call(context.Background(), &types.CallParams{
		From:            payer.String(),
		DstRelayChainID: 146,
		DstAddress:      hubWallet.Bytes(),
		Payload:         payload,
	})
	require.NoError(t, err)
	require.NotNil(t, res.RelayData)
	assert.Equal(t, "0xcafe", res.RelayData.Payload)
}

func TestGetDeposit_ReadsVaults(t *testing.T) {
	chain, client, _ := newTestSolana(t, nil)

	nativeVault, err := chain.vaultAddress(sol.SystemProgramID, true)
	require.NoError(t, err)
	tokenVault, err := chain.vaultAddress(usdcMint, false)
	require.NoError(t, err)
	assert.NotEqual(t, nativeVault, tokenVault)

	client.On("GetBalance", mock.Anything, nativeVault, rpc.CommitmentFinalized).
		Return(&rpc.GetBalanceResult{Value: 42}, nil).Once()
	client.On("GetTokenAccountBalance", mock.Anything, tokenVault, rpc.CommitmentFinalized).
		Return(&rpc.GetTokenAccountBalanceResult{Value: &rpc.UiTokenAmount{Amount: "123456789012345678901"}}, nil).Once()

	balance, err := chain.GetDeposit(context.Background(), sol.SystemProgramID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance.Int64())

	balance, err = chain.GetDeposit(context.Background(), usdcMint.String())
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901", balance.String())
}
