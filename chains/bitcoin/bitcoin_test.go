package bitcoin

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/jsonrpc"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userWIF      = "cN9spWsvaxA8taS7DFMxnk1yJD2gaF2PX1npuTpy3vuZFJdwavaw"
	otherWIF     = "cNj3zTdrLAMQtUhdFPPVJtRY7a3TdUF38ShW5MrJkVh1CVaeuEGU"
	assetManager = "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx"
	connection   = "tb1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3q0sl5k7"
)

var hubWallet = common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")

// fakeEsplora serves utxos, fee estimates and address stats, and records broadcasts.
type fakeEsplora struct {
	mu         sync.Mutex
	utxos      map[string][]utxo
	stats      map[string]addressInfo
	broadcasts []*wire.MsgTx
}

func (e *fakeEsplora) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/tx":
		body, _ := io.ReadAll(r.Body)
		raw, err := hex.DecodeString(string(body))
		if err != nil {
			http.Error(w, "bad hex", http.StatusBadRequest)
			return
		}
		tx := wire.NewMsgTx(2)
		if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
			http.Error(w, "bad tx", http.StatusBadRequest)
			return
		}
		e.broadcasts = append(e.broadcasts, tx)
		_, _ = io.WriteString(w, tx.TxHash().String())
	case r.URL.Path == "/fee-estimates":
		_ = json.NewEncoder(w).Encode(map[string]float64{"1": 10, "3": 2, "6": 1.5})
	case strings.HasSuffix(r.URL.Path, "/utxo"):
		address := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/address/"), "/utxo")
		utxos := e.utxos[address]
		if utxos == nil {
			utxos = []utxo{}
		}
		_ = json.NewEncoder(w).Encode(utxos)
	case strings.HasPrefix(r.URL.Path, "/address/"):
		_ = json.NewEncoder(w).Encode(e.stats[strings.TrimPrefix(r.URL.Path, "/address/")])
	default:
		http.NotFound(w, r)
	}
}

func newUTXO(txid string, vout uint32, value int64, confirmed bool) utxo {
	u := utxo{TxID: txid, Vout: vout, Value: value}
	u.Status.Confirmed = confirmed
	return u
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *types.ChainConfig {
	return &types.ChainConfig{
		ID:           "bitcoin",
		Family:       types.BITCOIN,
		RelayChainID: 627463,
		NativeToken:  "BTC",
		Addresses: map[string]string{
			types.AssetManager: assetManager,
			types.Connection:   connection,
		},
	}
}

func testWallet(t *testing.T, wif string) Wallet {
	t.Helper()
	w, err := NewWallet(wif, &chaincfg.TestNet3Params)
	require.NoError(t, err)
	return w
}

func newTestBitcoin(t *testing.T, esplora *fakeEsplora, wallet interface{}) *bitcoin {
	t.Helper()
	server := httptest.NewServer(esplora)
	t.Cleanup(server.Close)

	chain, err := newBitcoin(testConfig(), chainmanager.Dependencies{Logger: quietLogger(), Wallet: wallet}, jsonrpc.NewClient(server.URL))
	require.NoError(t, err)
	return chain
}

func scriptOf(t *testing.T, address string) []byte {
	t.Helper()
	chain := &bitcoin{params: &chaincfg.TestNet3Params}
	decoded, err := chain.decodeAddress(address)
	require.NoError(t, err)
	script, err := txscript.PayToAddrScript(decoded)
	require.NoError(t, err)
	return script
}

// verifyInputs runs every input of tx through the script engine.
func verifyInputs(t *testing.T, tx *wire.MsgTx, prevScript []byte, values map[wire.OutPoint]int64) {
	t.Helper()
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for _, in := range tx.TxIn {
		fetcher.AddPrevOut(in.PreviousOutPoint, wire.NewTxOut(values[in.PreviousOutPoint], prevScript))
	}
	hashes := txscript.NewTxSigHashes(tx, fetcher)
	for i, in := range tx.TxIn {
		vm, err := txscript.NewEngine(prevScript, tx, i, txscript.StandardVerifyFlags, nil, hashes, values[in.PreviousOutPoint], fetcher)
		require.NoError(t, err)
		require.NoError(t, vm.Execute(), "input %d", i)
	}
}

func TestNewBitcoin_Validation(t *testing.T) {
	config := testConfig()
	config.Addresses[types.AssetManager] = "not-an-address"
	_, err := newBitcoin(config, chainmanager.Dependencies{}, nil)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidConfig)

	config = testConfig()
	config.Addresses[types.Connection] = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"
	_, err = newBitcoin(config, chainmanager.Dependencies{}, nil)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidConfig)

	_, err = newBitcoin(testConfig(), chainmanager.Dependencies{Wallet: "not a wallet"}, nil)
	assert.ErrorIs(t, err, commonerrors.ErrWrongWalletType)
}

func TestNewWallet(t *testing.T) {
	w := testWallet(t, userWIF)
	assert.True(t, strings.HasPrefix(w.Address(), "tb1q"))
	assert.NotEqual(t, w.Address(), testWallet(t, otherWIF).Address())

	_, err := NewWallet(userWIF, &chaincfg.MainNetParams)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidConfig)
}

func TestDeposit_SignsAndBroadcasts(t *testing.T) {
	w := testWallet(t, userWIF)
	spent := newUTXO(strings.Repeat("bb", 32), 1, 80_000, true)
	esplora := &fakeEsplora{utxos: map[string][]utxo{w.Address(): {
		newUTXO(strings.Repeat("aa", 32), 0, 30_000, true),
		spent,
		newUTXO(strings.Repeat("cc", 32), 0, 100_000, false),
	}}}
	chain := newTestBitcoin(t, esplora, w)
	data := []byte{0xde, 0xad}

	res, err := chain.Deposit(context.Background(), &types.DepositParams{
		From:   w.Address(),
		To:     hubWallet.Hex(),
		Token:  "BTC",
		Amount: big.NewInt(50_000),
		Data:   data,
	})
	require.NoError(t, err)
	require.Len(t, esplora.broadcasts, 1)
	tx := esplora.broadcasts[0]
	assert.Equal(t, tx.TxHash().String(), res.Hash)
	assert.Equal(t, assetManager, res.To)
	assert.Equal(t, big.NewInt(50_000), res.Raw.Value)

	require.NotNil(t, res.RelayData)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", res.RelayData.Address)
	assert.Equal(t, "0xdead", res.RelayData.Payload)

	// Largest confirmed utxo only; fee is 2 sat/vB over 11 + 68 + 31 + 43 + 31 vB.
	require.Len(t, tx.TxIn, 1)
	hash, _ := hex.DecodeString(strings.Repeat("bb", 32))
	assert.Equal(t, hash, tx.TxIn[0].PreviousOutPoint.Hash[:])
	assert.Equal(t, uint32(1), tx.TxIn[0].PreviousOutPoint.Index)

	commitment := crypto.Keccak256(hubWallet.Bytes(), data)
	require.Len(t, tx.TxOut, 3)
	assert.Equal(t, int64(50_000), tx.TxOut[0].Value)
	assert.Equal(t, scriptOf(t, assetManager), tx.TxOut[0].PkScript)
	assert.Equal(t, append([]byte{txscript.OP_RETURN, txscript.OP_DATA_32}, commitment...), tx.TxOut[1].PkScript)
	assert.Equal(t, int64(80_000-50_000-368), tx.TxOut[2].Value)
	assert.Equal(t, scriptOf(t, w.Address()), tx.TxOut[2].PkScript)
	assert.Equal(t, commitment, res.Raw.Data)

	verifyInputs(t, tx, scriptOf(t, w.Address()), map[wire.OutPoint]int64{tx.TxIn[0].PreviousOutPoint: spent.Value})
}

func TestBuildDeposit_UnsignedPsbt(t *testing.T) {
	sender := testWallet(t, userWIF).Address()
	esplora := &fakeEsplora{utxos: map[string][]utxo{sender: {
		newUTXO(strings.Repeat("aa", 32), 0, 20_000, true),
		newUTXO(strings.Repeat("bb", 32), 3, 20_000, true),
	}}}
	chain := newTestBitcoin(t, esplora, nil)

	raw, err := chain.BuildDeposit(context.Background(), &types.DepositParams{
		From:   sender,
		To:     hubWallet.Hex(),
		Token:  "BTC",
		Amount: big.NewInt(30_000),
	})
	require.NoError(t, err)
	assert.Equal(t, types.BITCOIN, raw.Family)

	packet, err := psbt.NewFromRawBytes(strings.NewReader(raw.Encoded), true)
	require.NoError(t, err)
	require.Len(t, packet.UnsignedTx.TxIn, 2)
	for _, in := range packet.Inputs {
		require.NotNil(t, in.WitnessUtxo)
		assert.Equal(t, int64(20_000), in.WitnessUtxo.Value)
	}
	assert.Empty(t, esplora.broadcasts)
}

func TestBuildDeposit_Errors(t *testing.T) {
	sender := testWallet(t, userWIF).Address()
	esplora := &fakeEsplora{utxos: map[string][]utxo{sender: {
		newUTXO(strings.Repeat("aa", 32), 0, 10_000, true),
		newUTXO(strings.Repeat("bb", 32), 0, 500_000, false),
	}}}
	chain := newTestBitcoin(t, esplora, nil)
	params := func(token string, amount int64) *types.DepositParams {
		return &types.DepositParams{From: sender, To: hubWallet.Hex(), Token: token, Amount: big.NewInt(amount)}
	}

	_, err := chain.BuildDeposit(context.Background(), params("BTC", 10_000))
	assert.ErrorIs(t, err, commonerrors.ErrInsufficientBalance)

	_, err = chain.BuildDeposit(context.Background(), params("RUNE", 1_000))
	assert.ErrorIs(t, err, commonerrors.ErrAssetNotSupported)

	_, err = chain.BuildDeposit(context.Background(), params("BTC", 100))
	assert.Error(t, err)

	huge := params("BTC", 1)
	huge.Amount = new(big.Int).Lsh(big.NewInt(1), 70)
	_, err = chain.BuildDeposit(context.Background(), huge)
	assert.ErrorIs(t, err, commonerrors.ErrAmountOverflow)

	legacy := params("BTC", 1_000)
	legacy.From = "mipcBbFg9gMiCh81Kj8tqqdgoZub1ZJRfn"
	_, err = chain.BuildDeposit(context.Background(), legacy)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidAddress)
}

func TestDeposit_WalletPreconditions(t *testing.T) {
	sender := testWallet(t, userWIF).Address()
	params := &types.DepositParams{From: sender, To: hubWallet.Hex(), Token: "BTC", Amount: big.NewInt(1_000)}

	chain := newTestBitcoin(t, &fakeEsplora{}, nil)
	_, err := chain.Deposit(context.Background(), params)
	assert.ErrorIs(t, err, commonerrors.ErrWalletNotConfigured)

	chain = newTestBitcoin(t, &fakeEsplora{}, testWallet(t, otherWIF))
	_, err = chain.Deposit(context.Background(), params)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidAddress)
}

func TestCall_CommitsToMessage(t *testing.T) {
	w := testWallet(t, userWIF)
	esplora := &fakeEsplora{utxos: map[string][]utxo{w.Address(): {
		newUTXO(strings.Repeat("aa", 32), 0, 10_000, true),
	}}}
	chain := newTestBitcoin(t, esplora, w)
	dst := []byte{0x01, 0x02}
	payload := []byte{0x03}

	res, err := chain.Call(context.Background(), &types.CallParams{
		From:            w.Address(),
		DstRelayChainID: 146,
		DstAddress:      dst,
		Payload:         payload,
	})
	require.NoError(t, err)
	assert.Equal(t, connection, res.To)
	assert.Equal(t, "0x0102", res.RelayData.Address)
	assert.Equal(t, "0x03", res.RelayData.Payload)

	tx := esplora.broadcasts[0]
	assert.Equal(t, int64(dustLimit), tx.TxOut[0].Value)
	assert.Equal(t, scriptOf(t, connection), tx.TxOut[0].PkScript)

	chainID := []byte{0, 0, 0, 0, 0, 0, 0, 146}
	commitment := crypto.Keccak256(chainID, dst, payload)
	assert.Equal(t, commitment, tx.TxOut[1].PkScript[2:])
}

func TestGetDeposit(t *testing.T) {
	esplora := &fakeEsplora{stats: map[string]addressInfo{assetManager: {
		ChainStats:   addressStats{FundedTxoSum: 900_000, SpentTxoSum: 100_000},
		MempoolStats: addressStats{FundedTxoSum: 5_000},
	}}}
	chain := newTestBitcoin(t, esplora, nil)

	balance, err := chain.GetDeposit(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(805_000), balance)

	_, err = chain.GetDeposit(context.Background(), "RUNE")
	assert.ErrorIs(t, err, commonerrors.ErrAssetNotSupported)
}
