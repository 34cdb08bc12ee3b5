package stellar

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/jsonrpc"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	assetManagerID = "CAAQCAIBAEAQCAIBAEAQCAIBAEAQCAIBAEAQCAIBAEAQCAIBAEAQC526"
	connectionID   = "CABAEAQCAIBAEAQCAIBAEAQCAIBAEAQCAIBAEAQCAIBAEAQCAIBAFNSZ"
	usdcID         = "CABQGAYDAMBQGAYDAMBQGAYDAMBQGAYDAMBQGAYDAMBQGAYDAMBQGCK3"
	xlmID          = "CACAIBAEAQCAIBAEAQCAIBAEAQCAIBAEAQCAIBAEAQCAIBAEAQCAINCW"
)

var hubWallet = common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")

// fakeSoroban answers simulateTransaction per invoked function name and records what it saw.
type fakeSoroban struct {
	mu        sync.Mutex
	simulate  map[string]interface{}
	invoked   []xdr.InvokeContractArgs
	submitted []string
}

func (n *fakeSoroban) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     interface{}       `json:"id"`
		Method string            `json:"method"`
		Params map[string]string `json:"params"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	var result interface{}
	switch req.Method {
	case "simulateTransaction":
		var envelope xdr.TransactionEnvelope
		if err := xdr.SafeUnmarshalBase64(req.Params["transaction"], &envelope); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		args := *envelope.Operations()[0].Body.InvokeHostFunctionOp.HostFunction.InvokeContract
		n.mu.Lock()
		n.invoked = append(n.invoked, args)
		result = n.simulate[string(args.FunctionName)]
		n.mu.Unlock()
	case "sendTransaction":
		n.mu.Lock()
		n.submitted = append(n.submitted, req.Params["transaction"])
		n.mu.Unlock()
		result = map[string]string{"status": "PENDING", "hash": "5f1e6c0b"}
	default:
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": result})
}

func balanceResult(t *testing.T, v int64) map[string]interface{} {
	t.Helper()
	val, err := i128Val(big.NewInt(v))
	require.NoError(t, err)
	encoded, err := xdr.MarshalBase64(val)
	require.NoError(t, err)
	return map[string]interface{}{"results": []map[string]interface{}{{"xdr": encoded, "auth": []string{}}}, "latestLedger": 10}
}

func invokeResult(t *testing.T) map[string]interface{} {
	t.Helper()
	data := xdr.SorobanTransactionData{
		Resources: xdr.SorobanResources{
			Instructions: 1_000_000,
			ReadBytes:    2_000,
			WriteBytes:   500,
		},
		ResourceFee: 5_000,
	}
	encoded, err := xdr.MarshalBase64(data)
	require.NoError(t, err)
	void, err := xdr.MarshalBase64(xdr.ScVal{Type: xdr.ScValTypeScvVoid})
	require.NoError(t, err)
	return map[string]interface{}{
		"transactionData": encoded,
		"minResourceFee":  "5000",
		"results":         []map[string]interface{}{{"xdr": void, "auth": []string{}}},
		"latestLedger":    10,
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *types.ChainConfig {
	return &types.ChainConfig{
		ID:           "stellar",
		Family:       types.STELLAR,
		RelayChainID: 27,
		NativeToken:  xlmID,
		NetworkID:    network.TestNetworkPassphrase,
		Addresses: map[string]string{
			types.AssetManager: assetManagerID,
			types.Connection:   connectionID,
		},
	}
}

func testKeypair(t *testing.T) *keypair.Full {
	t.Helper()
	var seed [32]byte
	for i := range seed {
		seed[i] = 0x07
	}
	kp, err := keypair.FromRawSeed(seed)
	require.NoError(t, err)
	return kp
}

func newTestStellar(t *testing.T, soroban *fakeSoroban, wallet interface{}) (*stellar, *horizonclient.MockClient) {
	t.Helper()
	server := httptest.NewServer(soroban)
	t.Cleanup(server.Close)

	accounts := &horizonclient.MockClient{}
	chain, err := newStellar(testConfig(), chainmanager.Dependencies{Logger: quietLogger(), Wallet: wallet}, jsonrpc.NewClient(server.URL), accounts)
	require.NoError(t, err)
	return chain, accounts
}

func expectAccount(accounts *horizonclient.MockClient, id string, sequence int64) {
	accounts.On("AccountDetail", horizonclient.AccountRequest{AccountID: id}).
		Return(horizon.Account{AccountID: id, Sequence: sequence}, nil)
}

func TestI128_LargeAmount(t *testing.T) {
	amount := new(big.Int).Lsh(big.NewInt(1), 100)
	amount.Add(amount, big.NewInt(7))

	val, err := i128Val(amount)
	require.NoError(t, err)
	assert.Equal(t, xdr.Int64(1<<36), val.I128.Hi)
	assert.Equal(t, xdr.Uint64(7), val.I128.Lo)

	decoded, err := bigFromI128(val)
	require.NoError(t, err)
	assert.Equal(t, 0, amount.Cmp(decoded))

	_, err = i128Val(new(big.Int).Lsh(big.NewInt(1), 127))
	assert.ErrorIs(t, err, commonerrors.ErrAmountOverflow)
}

func TestNewStellar_Validation(t *testing.T) {
	config := testConfig()
	config.NetworkID = ""
	_, err := newStellar(config, chainmanager.Dependencies{}, nil, nil)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidConfig)

	config = testConfig()
	config.Addresses[types.Connection] = testKeypair(t).Address()
	_, err = newStellar(config, chainmanager.Dependencies{}, nil, nil)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidConfig)

	_, err = newStellar(testConfig(), chainmanager.Dependencies{Wallet: struct{}{}}, nil, nil)
	assert.ErrorIs(t, err, commonerrors.ErrWrongWalletType)
}

func TestDeposit_SimulatesAssemblesAndSigns(t *testing.T) {
	kp := testKeypair(t)
	soroban := &fakeSoroban{simulate: map[string]interface{}{
		"balance":  balanceResult(t, 1_000_000),
		"transfer": invokeResult(t),
	}}
	chain, accounts := newTestStellar(t, soroban, NewWalletFromKeypair(kp))
	expectAccount(accounts, kp.Address(), 100)

	res, err := chain.Deposit(context.Background(), &types.DepositParams{
		From:   kp.Address(),
		To:     hubWallet.Hex(),
		Token:  usdcID,
		Amount: big.NewInt(250),
		Data:   []byte{0x01, 0x02},
	})
	require.NoError(t, err)
	assert.Equal(t, "5f1e6c0b", res.Hash)
	assert.Equal(t, assetManagerID, res.To)
	accounts.AssertExpectations(t)

	tx := res.Raw.Native.(*txnbuild.Transaction)
	assert.Equal(t, int64(101), tx.SequenceNumber())

	require.Len(t, soroban.invoked, 2)
	transfer := soroban.invoked[1]
	assert.Equal(t, xdr.ScSymbol("transfer"), transfer.FunctionName)
	require.Len(t, transfer.Args, 5)
	assert.Equal(t, xdr.ScValTypeScvI128, transfer.Args[2].Type)
	assert.Equal(t, xdr.ScBytes(hubWallet.Bytes()), *transfer.Args[3].Bytes)
	assert.Equal(t, xdr.ScBytes{0x01, 0x02}, *transfer.Args[4].Bytes)

	require.Len(t, soroban.submitted, 1)
	var envelope xdr.TransactionEnvelope
	require.NoError(t, xdr.SafeUnmarshalBase64(soroban.submitted[0], &envelope))
	assert.Equal(t, int32(1), envelope.V1.Tx.Ext.V)
	assert.Equal(t, xdr.Int64(5_000), envelope.V1.Tx.Ext.SorobanData.ResourceFee)
	assert.GreaterOrEqual(t, uint32(envelope.V1.Tx.Fee), uint32(txnbuild.MinBaseFee+5_000))
	require.Len(t, envelope.V1.Signatures, 1)

	hash, err := tx.Hash(network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.NoError(t, kp.Verify(hash[:], envelope.V1.Signatures[0].Signature))
}

func TestBuildDeposit_InsufficientBalance(t *testing.T) {
	kp := testKeypair(t)
	soroban := &fakeSoroban{simulate: map[string]interface{}{"balance": balanceResult(t, 10)}}
	chain, accounts := newTestStellar(t, soroban, nil)

	_, err := chain.BuildDeposit(context.Background(), &types.DepositParams{
		From:   kp.Address(),
		To:     hubWallet.Hex(),
		Token:  xlmID,
		Amount: big.NewInt(100),
	})
	assert.ErrorIs(t, err, commonerrors.ErrInsufficientBalance)
	accounts.AssertNotCalled(t, "AccountDetail", horizonclient.AccountRequest{AccountID: kp.Address()})
}

func TestBuildDeposit_SimulationFailure(t *testing.T) {
	kp := testKeypair(t)
	soroban := &fakeSoroban{simulate: map[string]interface{}{
		"balance":  balanceResult(t, 1_000),
		"transfer": map[string]interface{}{"error": "HostError: Error(Contract, #4)", "latestLedger": 10},
	}}
	chain, accounts := newTestStellar(t, soroban, nil)
	expectAccount(accounts, kp.Address(), 1)

	_, err := chain.BuildDeposit(context.Background(), &types.DepositParams{
		From:   kp.Address(),
		To:     hubWallet.Hex(),
		Token:  usdcID,
		Amount: big.NewInt(100),
	})
	assert.ErrorIs(t, err, commonerrors.ErrSimulationFailed)
}

func TestDeposit_WalletPreconditions(t *testing.T) {
	kp := testKeypair(t)
	params := &types.DepositParams{From: kp.Address(), To: hubWallet.Hex(), Token: usdcID, Amount: big.NewInt(1)}

	chain, _ := newTestStellar(t, &fakeSoroban{}, nil)
	_, err := chain.Deposit(context.Background(), params)
	assert.ErrorIs(t, err, commonerrors.ErrWalletNotConfigured)

	other, err := keypair.Random()
	require.NoError(t, err)
	chain, _ = newTestStellar(t, &fakeSoroban{}, NewWalletFromKeypair(other))
	_, err = chain.Deposit(context.Background(), params)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidAddress)
}

func TestBuildCall_SendMessage(t *testing.T) {
	kp := testKeypair(t)
	soroban := &fakeSoroban{simulate: map[string]interface{}{"send_message": invokeResult(t)}}
	chain, accounts := newTestStellar(t, soroban, nil)
	expectAccount(accounts, kp.Address(), 41)

	raw, err := chain.BuildCall(context.Background(), &types.CallParams{
		From:            kp.Address(),
		DstRelayChainID: 146,
		DstAddress:      hubWallet.Bytes(),
		Payload:         []byte{0xca, 0xfe},
	})
	require.NoError(t, err)
	assert.Equal(t, connectionID, raw.To)
	assert.NotEmpty(t, raw.Encoded)

	require.Len(t, soroban.invoked, 1)
	args := soroban.invoked[0].Args
	require.Len(t, args, 4)
	assert.Equal(t, xdr.Uint64(146), args[1].U128.Lo)
	assert.Equal(t, xdr.ScBytes{0xca, 0xfe}, *args[3].Bytes)
}

func TestGetDeposit_ReadsAssetManagerBalance(t *testing.T) {
	soroban := &fakeSoroban{simulate: map[string]interface{}{"balance": balanceResult(t, 77)}}
	chain, _ := newTestStellar(t, soroban, nil)

	balance, err := chain.GetDeposit(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(77), balance.Int64())

	require.Len(t, soroban.invoked, 1)
	assert.Equal(t, chain.assetManager, *soroban.invoked[0].Args[0].Address)
	assert.Equal(t, xdr.ScAddressTypeScAddressTypeContract, soroban.invoked[0].ContractAddress.Type)
}
