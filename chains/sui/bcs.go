package sui

import (
	"bytes"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/icon-project/sodax-frontend-sub008/codec"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// Address is a 32-byte Sui address or object id.
type Address [32]byte

// ParseAddress parses a 0x-prefixed, possibly short, hex address.
func ParseAddress(s string) (Address, error) {
	var addr Address
	raw, err := codec.Encode(types.SUI, s)
	if err != nil {
		return addr, err
	}
	copy(addr[:], raw)
	return addr, nil
}

// bcsWriter wraps a uvarint-length binary encoder; the first error sticks.
type bcsWriter struct {
	buf *bytes.Buffer
	enc *bin.Encoder
	err error
}

func newBCSWriter() *bcsWriter {
	buf := new(bytes.Buffer)
	return &bcsWriter{buf: buf, enc: bin.NewBinEncoder(buf)}
}

func (w *bcsWriter) uleb(v int) {
	if w.err == nil {
		w.err = w.enc.WriteUVarInt(v)
	}
}

func (w *bcsWriter) u8(v uint8) {
	if w.err == nil {
		w.err = w.enc.WriteUint8(v)
	}
}

func (w *bcsWriter) u16(v uint16) {
	if w.err == nil {
		w.err = w.enc.WriteUint16(v, bin.LE)
	}
}

func (w *bcsWriter) u64(v uint64) {
	if w.err == nil {
		w.err = w.enc.WriteUint64(v, bin.LE)
	}
}

func (w *bcsWriter) boolean(v bool) {
	if w.err == nil {
		w.err = w.enc.WriteBool(v)
	}
}

// vec writes a length-prefixed byte vector.
func (w *bcsWriter) vec(b []byte) {
	if w.err == nil {
		w.err = w.enc.WriteBytes(b, true)
	}
}

func (w *bcsWriter) fixed(b []byte) {
	if w.err == nil {
		w.err = w.enc.WriteBytes(b, false)
	}
}

func (w *bcsWriter) str(s string) {
	if w.err == nil {
		w.err = w.enc.WriteString(s)
	}
}

func (w *bcsWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, errors.Wrap(w.err, "bcs encoding failed")
	}
	return w.buf.Bytes(), nil
}

// pureU64 returns the BCS bytes of a u64 pure argument.
func pureU64(v uint64) []byte {
	w := newBCSWriter()
	w.u64(v)
	out, _ := w.bytes()
	return out
}

// pureBytes returns the BCS bytes of a vector<u8> pure argument.
func pureBytes(b []byte) []byte {
	w := newBCSWriter()
	w.vec(b)
	out, _ := w.bytes()
	return out
}

// ObjectRef identifies an owned object version.
type ObjectRef struct {
	ObjectID Address
	Version  uint64
	Digest   []byte
}

func (r ObjectRef) marshal(w *bcsWriter) {
	w.fixed(r.ObjectID[:])
	w.u64(r.Version)
	w.vec(r.Digest)
}

// SharedObject identifies a shared object input.
type SharedObject struct {
	ObjectID             Address
	InitialSharedVersion uint64
	Mutable              bool
}

// CallArg is a programmable transaction input: exactly one field is set.
type CallArg struct {
	Pure   []byte
	Object *ObjectRef
	Shared *SharedObject
}

func (a CallArg) marshal(w *bcsWriter) {
	switch {
	case a.Object != nil:
		w.uleb(1)
		w.uleb(0)
		a.Object.marshal(w)
	case a.Shared != nil:
		w.uleb(1)
		w.uleb(1)
		w.fixed(a.Shared.ObjectID[:])
		w.u64(a.Shared.InitialSharedVersion)
		w.boolean(a.Shared.Mutable)
	default:
		w.uleb(0)
		w.vec(a.Pure)
	}
}

const (
	argumentGasCoin      = 0
	argumentInput        = 1
	argumentResult       = 2
	argumentNestedResult = 3
)

// Argument refers to the gas coin, an input, or a command result.
type Argument struct {
	Kind   uint8
	Index  uint16
	Nested uint16
}

// GasCoin refers to the transaction's gas coin.
func GasCoin() Argument { return Argument{Kind: argumentGasCoin} }

// Input refers to the input at index.
func Input(index uint16) Argument { return Argument{Kind: argumentInput, Index: index} }

// NestedResult refers to element nested of the result of command index.
func NestedResult(index, nested uint16) Argument {
	return Argument{Kind: argumentNestedResult, Index: index, Nested: nested}
}

func (a Argument) marshal(w *bcsWriter) {
	w.uleb(int(a.Kind))
	switch a.Kind {
	case argumentInput, argumentResult:
		w.u16(a.Index)
	case argumentNestedResult:
		w.u16(a.Index)
		w.u16(a.Nested)
	}
}

func marshalArguments(w *bcsWriter, args []Argument) {
	w.uleb(len(args))
	for _, arg := range args {
		arg.marshal(w)
	}
}

// StructTag is a Move struct type such as 0x2::sui::SUI.
type StructTag struct {
	Address Address
	Module  string
	Name    string
}

// ParseStructTag parses "address::module::Name". Generic type parameters are not supported.
func ParseStructTag(s string) (StructTag, error) {
	parts := strings.Split(s, "::")
	if len(parts) != 3 || strings.ContainsAny(s, "<>") {
		return StructTag{}, errors.Wrapf(commonerrors.ErrInvalidAddress, "sui coin type %q", s)
	}
	addr, err := ParseAddress(parts[0])
	if err != nil {
		return StructTag{}, err
	}
	return StructTag{Address: addr, Module: parts[1], Name: parts[2]}, nil
}

const typeTagStruct = 7

func (t StructTag) marshal(w *bcsWriter) {
	w.uleb(typeTagStruct)
	w.fixed(t.Address[:])
	w.str(t.Module)
	w.str(t.Name)
	w.uleb(0)
}

// Command is one step of a programmable transaction.
type Command interface {
	marshal(w *bcsWriter)
}

// MoveCall calls a public Move function.
type MoveCall struct {
	Package       Address
	Module        string
	Function      string
	TypeArguments []StructTag
	Arguments     []Argument
}

func (c MoveCall) marshal(w *bcsWriter) {
	w.uleb(0)
	w.fixed(c.Package[:])
	w.str(c.Module)
	w.str(c.Function)
	w.uleb(len(c.TypeArguments))
	for _, tag := range c.TypeArguments {
		tag.marshal(w)
	}
	marshalArguments(w, c.Arguments)
}

// SplitCoins splits amounts off Coin.
type SplitCoins struct {
	Coin    Argument
	Amounts []Argument
}

func (c SplitCoins) marshal(w *bcsWriter) {
	w.uleb(2)
	c.Coin.marshal(w)
	marshalArguments(w, c.Amounts)
}

// MergeCoins merges Sources into Destination.
type MergeCoins struct {
	Destination Argument
	Sources     []Argument
}

func (c MergeCoins) marshal(w *bcsWriter) {
	w.uleb(3)
	c.Destination.marshal(w)
	marshalArguments(w, c.Sources)
}

// TransactionData is a V1 programmable transaction with its gas data and no expiration.
type TransactionData struct {
	Sender     Address
	Inputs     []CallArg
	Commands   []Command
	GasPayment []ObjectRef
	GasPrice   uint64
	GasBudget  uint64
}

// MarshalBCS returns the BCS bytes of the transaction.
func (t *TransactionData) MarshalBCS() ([]byte, error) {
	w := newBCSWriter()
	w.uleb(0) // TransactionData::V1
	w.uleb(0) // TransactionKind::ProgrammableTransaction

	w.uleb(len(t.Inputs))
	for _, input := range t.Inputs {
		input.marshal(w)
	}
	w.uleb(len(t.Commands))
	for _, command := range t.Commands {
		command.marshal(w)
	}

	w.fixed(t.Sender[:])

	w.uleb(len(t.GasPayment))
	for _, ref := range t.GasPayment {
		ref.marshal(w)
	}
	w.fixed(t.Sender[:])
	w.u64(t.GasPrice)
	w.u64(t.GasBudget)

	w.uleb(0) // TransactionExpiration::None
	return w.bytes()
}
