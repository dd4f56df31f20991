package sui

import (
	"fmt"
	"strings"
)

// TypeKind is the kind of a Move TypeTag.
type TypeKind uint8

const (
	KindBool TypeKind = iota
	KindU8
	KindU64
	KindU128
	KindAddress
	KindSigner
	KindVector
	KindStruct
	KindU16
	KindU32
	KindU256
)

var primitiveKinds = map[string]TypeKind{
	"bool":    KindBool,
	"u8":      KindU8,
	"u16":     KindU16,
	"u32":     KindU32,
	"u64":     KindU64,
	"u128":    KindU128,
	"u256":    KindU256,
	"address": KindAddress,
	"signer":  KindSigner,
}

// TypeTag is a Move type used as a type argument of a MoveCall.
type TypeTag struct {
	Kind   TypeKind
	Elem   *TypeTag
	Struct *StructTag
}

// StructTag names a Move struct, e.g. 0x2::sui::SUI.
type StructTag struct {
	Address    Address
	Module     string
	Name       string
	TypeParams []TypeTag
}

// ParseTypeTag parses the canonical string form of a Move type.
func ParseTypeTag(s string) (TypeTag, error) {
	p := typeParser{s: s}
	t, err := p.parse()
	if err != nil {
		return TypeTag{}, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return TypeTag{}, fmt.Errorf("sui: trailing input in type %q", s)
	}
	return t, nil
}

func (t TypeTag) String() string {
	switch t.Kind {
	case KindVector:
		return "vector<" + t.Elem.String() + ">"
	case KindStruct:
		return t.Struct.String()
	}
	for name, k := range primitiveKinds {
		if k == t.Kind {
			return name
		}
	}
	return "unknown"
}

func (s *StructTag) String() string {
	out := s.Address.String() + "::" + s.Module + "::" + s.Name
	if len(s.TypeParams) == 0 {
		return out
	}
	params := make([]string, len(s.TypeParams))
	for i, p := range s.TypeParams {
		params[i] = p.String()
	}
	return out + "<" + strings.Join(params, ", ") + ">"
}

func (t TypeTag) wire() typeTag {
	switch t.Kind {
	case KindBool:
		return typeTag{Bool: &unit{}}
	case KindU8:
		return typeTag{U8: &unit{}}
	case KindU16:
		return typeTag{U16: &unit{}}
	case KindU32:
		return typeTag{U32: &unit{}}
	case KindU64:
		return typeTag{U64: &unit{}}
	case KindU128:
		return typeTag{U128: &unit{}}
	case KindU256:
		return typeTag{U256: &unit{}}
	case KindAddress:
		return typeTag{Address: &unit{}}
	case KindSigner:
		return typeTag{Signer: &unit{}}
	case KindVector:
		elem := t.Elem.wire()
		return typeTag{Vector: &elem}
	}
	params := make([]typeTag, len(t.Struct.TypeParams))
	for i, p := range t.Struct.TypeParams {
		params[i] = p.wire()
	}
	return typeTag{Struct: &structTag{
		Address:    t.Struct.Address,
		Module:     t.Struct.Module,
		Name:       t.Struct.Name,
		TypeParams: params,
	}}
}

type typeParser struct {
	s   string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *typeParser) expect(c byte) error {
	if p.peek() != c {
		return fmt.Errorf("sui: expected %q at offset %d in type %q", c, p.pos, p.s)
	}
	p.pos++
	return nil
}

func (p *typeParser) parse() (TypeTag, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune("<>, ", rune(p.s[p.pos])) {
		p.pos++
	}
	ident := p.s[start:p.pos]
	if ident == "" {
		return TypeTag{}, fmt.Errorf("sui: empty type in %q", p.s)
	}

	if ident == "vector" {
		if err := p.expect('<'); err != nil {
			return TypeTag{}, err
		}
		elem, err := p.parse()
		if err != nil {
			return TypeTag{}, err
		}
		if err := p.expect('>'); err != nil {
			return TypeTag{}, err
		}
		return TypeTag{Kind: KindVector, Elem: &elem}, nil
	}
	if k, ok := primitiveKinds[ident]; ok {
		return TypeTag{Kind: k}, nil
	}

	parts := strings.Split(ident, "::")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return TypeTag{}, fmt.Errorf("sui: invalid struct type %q", ident)
	}
	addr, err := ParseAddress(parts[0])
	if err != nil {
		return TypeTag{}, err
	}
	st := &StructTag{Address: addr, Module: parts[1], Name: parts[2]}

	if p.peek() == '<' {
		p.pos++
		for {
			param, err := p.parse()
			if err != nil {
				return TypeTag{}, err
			}
			st.TypeParams = append(st.TypeParams, param)
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case '>':
				p.pos++
			default:
				return TypeTag{}, fmt.Errorf("sui: unterminated type parameters in %q", p.s)
			}
			break
		}
	}

	return TypeTag{Kind: KindStruct, Struct: st}, nil
}
