package sui

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/fardream/go-bcs/bcs"
	"golang.org/x/crypto/blake2b"
)

type argKind uint8

const (
	argGasCoin argKind = iota
	argInput
	argResult
	argNestedResult
)

// Argument references a value inside a programmable transaction.
type Argument struct {
	kind   argKind
	index  uint16
	nested uint16
}

// GasCoin is the coin paying for gas, usable as a SUI source.
func GasCoin() Argument { return Argument{kind: argGasCoin} }

// Nested selects one value of a command returning several.
func (a Argument) Nested(i uint16) Argument {
	return Argument{kind: argNestedResult, index: a.index, nested: i}
}

func (a Argument) wire() argument {
	switch a.kind {
	case argInput:
		idx := a.index
		return argument{Input: &idx}
	case argResult:
		idx := a.index
		return argument{Result: &idx}
	case argNestedResult:
		return argument{NestedResult: &nestedResult{Result: a.index, Index: a.nested}}
	}
	return argument{GasCoin: &unit{}}
}

func wireArgs(args []Argument) []argument {
	out := make([]argument, len(args))
	for i, a := range args {
		out[i] = a.wire()
	}
	return out
}

// GasData selects the gas payment of a transaction.
type GasData struct {
	Payment []ObjectRef
	Owner   Address
	Price   uint64
	Budget  uint64
}

// Builder assembles a programmable transaction block. Object inputs are
// de-duplicated by id. The first error is kept and returned by Build.
type Builder struct {
	inputs   []callArg
	objects  map[Address]uint16
	commands []command
	err      error
}

func NewBuilder() *Builder {
	return &Builder{objects: make(map[Address]uint16)}
}

func (b *Builder) addInput(c callArg) Argument {
	b.inputs = append(b.inputs, c)
	return Argument{kind: argInput, index: uint16(len(b.inputs) - 1)}
}

func (b *Builder) pure(raw []byte, err error) Argument {
	if err != nil {
		b.fail(err)
	}
	return b.addInput(callArg{Pure: &raw})
}

func (b *Builder) PureU64(v uint64) Argument {
	return b.pure(pureU64(v))
}

func (b *Builder) PureU128(v *big.Int) Argument {
	return b.pure(pureU128(v))
}

func (b *Builder) PureBool(v bool) Argument {
	return b.pure(pureBool(v))
}

func (b *Builder) PureAddress(a Address) Argument {
	return b.pure(pureAddress(a))
}

// SharedObject references a shared object. A later mutable use upgrades an
// earlier immutable reference.
func (b *Builder) SharedObject(id Address, initialVersion uint64, mutable bool) Argument {
	if idx, ok := b.objects[id]; ok {
		if shared := b.inputs[idx].Object.SharedObject; mutable && shared != nil {
			shared.Mutable = true
		}
		return Argument{kind: argInput, index: idx}
	}
	arg := b.addInput(callArg{Object: &objectArg{SharedObject: &sharedObject{
		ID:                   id,
		InitialSharedVersion: initialVersion,
		Mutable:              mutable,
	}}})
	b.objects[id] = arg.index
	return arg
}

// OwnedObject references an owned or immutable object.
func (b *Builder) OwnedObject(ref ObjectRef) Argument {
	if idx, ok := b.objects[ref.ObjectID]; ok {
		return Argument{kind: argInput, index: idx}
	}
	wire := ref.wire()
	arg := b.addInput(callArg{Object: &objectArg{ImmOrOwnedObject: &wire}})
	b.objects[ref.ObjectID] = arg.index
	return arg
}

func (b *Builder) addCommand(c command) Argument {
	b.commands = append(b.commands, c)
	return Argument{kind: argResult, index: uint16(len(b.commands) - 1)}
}

// MoveCall adds a call to target ("package::module::function").
func (b *Builder) MoveCall(target string, typeArgs []string, args ...Argument) Argument {
	parts := strings.Split(target, "::")
	if len(parts) != 3 {
		b.fail(fmt.Errorf("sui: invalid move call target %q", target))
		return Argument{kind: argResult}
	}
	pkg, err := ParseAddress(parts[0])
	if err != nil {
		b.fail(err)
		return Argument{kind: argResult}
	}

	tags := make([]typeTag, 0, len(typeArgs))
	for _, s := range typeArgs {
		t, err := ParseTypeTag(s)
		if err != nil {
			b.fail(err)
			return Argument{kind: argResult}
		}
		tags = append(tags, t.wire())
	}

	return b.addCommand(command{MoveCall: &moveCall{
		Package:  pkg,
		Module:   parts[1],
		Function: parts[2],
		TypeArgs: tags,
		Args:     wireArgs(args),
	}})
}

func (b *Builder) SplitCoins(coin Argument, amounts ...Argument) Argument {
	return b.addCommand(command{SplitCoins: &splitCoins{Coin: coin.wire(), Amounts: wireArgs(amounts)}})
}

func (b *Builder) MergeCoins(dst Argument, srcs ...Argument) Argument {
	return b.addCommand(command{MergeCoins: &mergeCoins{Destination: dst.wire(), Sources: wireArgs(srcs)}})
}

func (b *Builder) TransferObjects(objs []Argument, recipient Argument) Argument {
	return b.addCommand(command{TransferObjects: &transferObjects{Objects: wireArgs(objs), Address: recipient.wire()}})
}

// CommandCount returns the number of commands added so far.
func (b *Builder) CommandCount() int {
	return len(b.commands)
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build serializes TransactionData V1 with no expiration.
func (b *Builder) Build(sender Address, gas GasData) ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.commands) == 0 {
		return nil, errors.New("sui: transaction has no commands")
	}

	payment := make([]objectRef, len(gas.Payment))
	for i, ref := range gas.Payment {
		payment[i] = ref.wire()
	}

	txBytes, err := bcs.Marshal(txData{V1: &txDataV1{
		Kind: txKind{ProgrammableTransaction: &programmableTx{
			Inputs:   b.inputs,
			Commands: b.commands,
		}},
		Sender: sender,
		Gas: gasData{
			Payment: payment,
			Owner:   gas.Owner,
			Price:   gas.Price,
			Budget:  gas.Budget,
		},
		Expiration: txExpiration{None: &unit{}},
	}})
	if err != nil {
		return nil, fmt.Errorf("sui: encode transaction: %w", err)
	}
	return txBytes, nil
}

// TransactionDigest computes the digest the network assigns to txBytes.
func TransactionDigest(txBytes []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte("TransactionData::"))
	h.Write(txBytes)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d.String()
}
