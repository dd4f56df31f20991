package sui

import (
	"bytes"
	"testing"

	"github.com/fardream/go-bcs/bcs"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SplitAndTransfer(t *testing.T) {
	sender := MustParseAddress("0xa11ce")

	b := NewBuilder()
	amount := b.PureU64(5)
	coin := b.SplitCoins(GasCoin(), amount)
	b.TransferObjects([]Argument{coin}, b.PureAddress(sender))

	txBytes, err := b.Build(sender, GasData{Owner: sender, Price: 1000, Budget: 2000})
	require.NoError(t, err)

	var want bytes.Buffer
	want.Write([]byte{0, 0})                      // V1, ProgrammableTransaction
	want.Write([]byte{2})                         // inputs
	want.Write([]byte{0, 8, 5, 0, 0, 0, 0, 0, 0, 0}) // Pure u64
	want.Write([]byte{0, 32})                     // Pure address
	want.Write(sender[:])
	want.Write([]byte{2})          // commands
	want.Write([]byte{2, 0, 1, 1, 0, 0}) // SplitCoins(GasCoin, [Input(0)])
	want.Write([]byte{1, 1, 2, 0, 0, 1, 1, 0}) // TransferObjects([Result(0)], Input(1))
	want.Write(sender[:])
	want.Write([]byte{0}) // no payment objects
	want.Write(sender[:])
	want.Write([]byte{0xe8, 0x03, 0, 0, 0, 0, 0, 0})
	want.Write([]byte{0xd0, 0x07, 0, 0, 0, 0, 0, 0})
	want.Write([]byte{0}) // no expiration

	assert.Equal(t, want.Bytes(), txBytes)
}

func TestBuilder_ObjectDeduplication(t *testing.T) {
	b := NewBuilder()
	pool := MustParseAddress("0x455cf8d2ac91e7cb883f515874af750ed3cd18195c970b7a2d46235ac2b0c388")

	first := b.SharedObject(pool, 499761256, false)
	second := b.SharedObject(pool, 499761256, true)
	assert.Equal(t, first, second)
	assert.True(t, b.inputs[first.index].Object.SharedObject.Mutable, "mutable use must upgrade the input")

	clock := b.SharedObject(ClockObjectID, 1, false)
	assert.NotEqual(t, first, clock)
	assert.Len(t, b.inputs, 2)
}

func TestBuilder_MoveCallErrors(t *testing.T) {
	b := NewBuilder()
	b.MoveCall("0x2::coin", nil)
	_, err := b.Build(Address{}, GasData{})
	assert.Error(t, err)

	b = NewBuilder()
	b.MoveCall("0x2::coin::zero", []string{"not a type"})
	_, err = b.Build(Address{}, GasData{})
	assert.Error(t, err)

	_, err = NewBuilder().Build(Address{}, GasData{})
	assert.Error(t, err, "empty transaction")
}

func TestBuilder_MoveCallResults(t *testing.T) {
	b := NewBuilder()
	res := b.MoveCall("0x2::coin::zero", []string{"0x2::sui::SUI"})
	assert.Equal(t, Argument{kind: argResult, index: 0}, res)
	assert.Equal(t, Argument{kind: argNestedResult, index: 0, nested: 2}, res.Nested(2))
	assert.Equal(t, 1, b.CommandCount())
}

func TestTransactionDigest(t *testing.T) {
	d1 := TransactionDigest([]byte{1, 2, 3})
	d2 := TransactionDigest([]byte{1, 2, 3})
	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, TransactionDigest([]byte{1, 2, 4}))

	raw, err := base58.Decode(d1)
	require.NoError(t, err)
	assert.Len(t, raw, DigestLength)
}

func TestBuilder_OwnedObjectInput(t *testing.T) {
	ref := ObjectRef{ObjectID: MustParseAddress("0x5"), Version: 9, Digest: Digest{1, 2}}

	b := NewBuilder()
	first := b.OwnedObject(ref)
	assert.Equal(t, first, b.OwnedObject(ref))
	require.Len(t, b.inputs, 1)

	got, err := bcs.Marshal(b.inputs[0])
	require.NoError(t, err)

	var want bytes.Buffer
	want.Write([]byte{1, 0}) // Object, ImmOrOwnedObject
	want.Write(ref.ObjectID[:])
	want.Write([]byte{9, 0, 0, 0, 0, 0, 0, 0})
	want.Write([]byte{DigestLength})
	want.Write(ref.Digest[:])
	assert.Equal(t, want.Bytes(), got)
}
