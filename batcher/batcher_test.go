package batcher

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokenAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")
	vaultAddr = common.HexToAddress("0x2222222222222222222222222222222222222222")
	userAddr  = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func TestEncode_RejectsEmptyBatch(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, commonerrors.ErrEmptyBatch)

	_, err = Encode(types.CallBatch{})
	assert.ErrorIs(t, err, commonerrors.ErrEmptyBatch)
}

func TestEncode_SingleCallRoundTrip(t *testing.T) {
	call := types.ContractCall{Address: tokenAddr, Value: big.NewInt(42), Data: []byte{0xde, 0xad, 0xbe, 0xef}}

	payload, err := Encode(types.CallBatch{call})
	require.NoError(t, err)

	words := hex.EncodeToString(payload)
	// offset of the array, then its length
	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000000000020", words[0:64])
	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000000000001", words[64:128])

	decoded, err := Decode(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, call.Address, decoded[0].Address)
	assert.Equal(t, 0, call.Value.Cmp(decoded[0].Value))
	assert.Equal(t, call.Data, decoded[0].Data)
}

func TestEncode_PreservesOrderAndDefaultsValue(t *testing.T) {
	calls := types.CallBatch{
		{Address: tokenAddr, Data: []byte{0x01}},
		{Address: vaultAddr, Value: big.NewInt(7)},
		{Address: userAddr, Value: big.NewInt(0), Data: []byte{0x02, 0x03}},
	}

	payload, err := Encode(calls)
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 3)

	assert.Equal(t, tokenAddr, decoded[0].Address)
	assert.Equal(t, 0, decoded[0].Value.Sign())
	assert.Equal(t, vaultAddr, decoded[1].Address)
	assert.Empty(t, decoded[1].Data)
	assert.Equal(t, userAddr, decoded[2].Address)
	assert.Equal(t, []byte{0x02, 0x03}, decoded[2].Data)
}

func TestEncode_RejectsNegativeValue(t *testing.T) {
	_, err := Encode(types.CallBatch{{Address: tokenAddr, Value: big.NewInt(-1)}})
	assert.ErrorIs(t, err, commonerrors.ErrNegativeAmount)
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestCallConstructors(t *testing.T) {
	approve, err := Approve(tokenAddr, vaultAddr, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, tokenAddr, approve.Address)
	assert.Equal(t, "095ea7b3", hex.EncodeToString(approve.Data[:4]))

	transfer, err := Transfer(tokenAddr, userAddr, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, "a9059cbb", hex.EncodeToString(transfer.Data[:4]))

	deposit, err := VaultDeposit(vaultAddr, tokenAddr, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, vaultAddr, deposit.Address)
	assert.Equal(t, "47e7ef24", hex.EncodeToString(deposit.Data[:4]))

	withdraw, err := VaultWithdraw(vaultAddr, tokenAddr, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, "f3fef3a3", hex.EncodeToString(withdraw.Data[:4]))

	out, err := AssetManagerTransfer(vaultAddr, tokenAddr, []byte("alice.near"), big.NewInt(100), nil)
	require.NoError(t, err)
	assert.Equal(t, vaultAddr, out.Address)
	// token, to offset, amount, data offset, len(to), to, len(data)
	assert.Len(t, out.Data[4:], 32*7)
}

func TestSequence(t *testing.T) {
	payload, err := NewSequence().
		Add(Approve(tokenAddr, vaultAddr, big.NewInt(5))).
		Add(VaultDeposit(vaultAddr, tokenAddr, big.NewInt(5))).
		Encode()
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, tokenAddr, decoded[0].Address)
	assert.Equal(t, vaultAddr, decoded[1].Address)

	boom := errors.New("boom")
	_, err = NewSequence().
		Add(types.ContractCall{}, boom).
		Add(Approve(tokenAddr, vaultAddr, big.NewInt(5))).
		Encode()
	assert.ErrorIs(t, err, boom)

	_, err = NewSequence().Encode()
	assert.ErrorIs(t, err, commonerrors.ErrEmptyBatch)
}

func TestCreateIntent(t *testing.T) {
	intent := &types.Intent{
		Creator:         userAddr,
		InputToken:      tokenAddr,
		OutputToken:     vaultAddr,
		InputAmount:     big.NewInt(1000),
		MinOutputAmount: big.NewInt(990),
		SrcChain:        big.NewInt(146),
		DstChain:        big.NewInt(6),
		SrcAddress:      userAddr.Bytes(),
		DstAddress:      []byte("alice.near"),
	}

	call, err := CreateIntent(vaultAddr, intent)
	require.NoError(t, err)
	require.NotNil(t, intent.IntentID)
	assert.Equal(t, vaultAddr, call.Address)
	assert.Equal(t, 0, call.Value.Sign())
	assert.Equal(t, createIntentSelector, call.Data[:4])

	encoded, err := intent.Encode()
	require.NoError(t, err)
	assert.Equal(t, encoded, call.Data[4:])
	// dynamic tuple: offset word, then the intent id as the first field
	assert.Equal(t, big.NewInt(32), new(big.Int).SetBytes(call.Data[4:36]))
	assert.Equal(t, intent.IntentID, new(big.Int).SetBytes(call.Data[36:68]))

	first, err := intent.Hash()
	require.NoError(t, err)
	other := *intent
	other.IntentID = nil
	_, err = CreateIntent(vaultAddr, &other)
	require.NoError(t, err)
	second, err := other.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = CreateIntent(vaultAddr, nil)
	assert.Error(t, err)
}
