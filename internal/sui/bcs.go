package sui

import (
	"errors"
	"math/big"

	"github.com/fardream/go-bcs/bcs"
)

var errU128Range = errors.New("bcs: value out of u128 range")

var maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Wire forms of TransactionData V1, marshalled with go-bcs. An enum is a
// struct of pointers whose single non-nil field selects the variant, in
// declaration order. Field order is the on-chain layout.

type unit struct{}

type txData struct {
	V1 *txDataV1
}

func (txData) IsBcsEnum() {}

type txDataV1 struct {
	Kind       txKind
	Sender     Address
	Gas        gasData
	Expiration txExpiration
}

type txKind struct {
	ProgrammableTransaction *programmableTx
}

func (txKind) IsBcsEnum() {}

type programmableTx struct {
	Inputs   []callArg
	Commands []command
}

type gasData struct {
	Payment []objectRef
	Owner   Address
	Price   uint64
	Budget  uint64
}

type txExpiration struct {
	None  *unit
	Epoch *uint64
}

func (txExpiration) IsBcsEnum() {}

type objectRef struct {
	ObjectID Address
	Version  uint64
	Digest   []byte
}

type callArg struct {
	Pure   *[]byte
	Object *objectArg
}

func (callArg) IsBcsEnum() {}

type objectArg struct {
	ImmOrOwnedObject *objectRef
	SharedObject     *sharedObject
}

func (objectArg) IsBcsEnum() {}

type sharedObject struct {
	ID                   Address
	InitialSharedVersion uint64
	Mutable              bool
}

type argument struct {
	GasCoin      *unit
	Input        *uint16
	Result       *uint16
	NestedResult *nestedResult
}

func (argument) IsBcsEnum() {}

type nestedResult struct {
	Result uint16
	Index  uint16
}

type command struct {
	MoveCall        *moveCall
	TransferObjects *transferObjects
	SplitCoins      *splitCoins
	MergeCoins      *mergeCoins
}

func (command) IsBcsEnum() {}

type moveCall struct {
	Package  Address
	Module   string
	Function string
	TypeArgs []typeTag
	Args     []argument
}

type transferObjects struct {
	Objects []argument
	Address argument
}

type splitCoins struct {
	Coin    argument
	Amounts []argument
}

type mergeCoins struct {
	Destination argument
	Sources     []argument
}

type typeTag struct {
	Bool    *unit
	U8      *unit
	U64     *unit
	U128    *unit
	Address *unit
	Signer  *unit
	Vector  *typeTag
	Struct  *structTag
	U16     *unit
	U32     *unit
	U256    *unit
}

func (typeTag) IsBcsEnum() {}

type structTag struct {
	Address    Address
	Module     string
	Name       string
	TypeParams []typeTag
}

// pure helpers produce the raw bytes of a Pure call argument.

func pureU64(v uint64) ([]byte, error) {
	return bcs.Marshal(v)
}

func pureBool(v bool) ([]byte, error) {
	return bcs.Marshal(v)
}

func pureAddress(a Address) ([]byte, error) {
	return bcs.Marshal(a)
}

// pureU128 writes v as 16 little-endian bytes.
func pureU128(v *big.Int) ([]byte, error) {
	if v == nil || v.Sign() < 0 || v.Cmp(maxU128) > 0 {
		return nil, errU128Range
	}
	out := make([]byte, 16)
	be := v.Bytes()
	for i := range be {
		out[i] = be[len(be)-1-i]
	}
	return out, nil
}
