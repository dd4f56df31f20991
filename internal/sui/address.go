// Package sui is a small Sui client: BCS encoding, programmable transaction
// building, ed25519 keys and a JSON-RPC client.
package sui

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// AddressLength is the byte length of addresses and object ids.
const AddressLength = 32

// Address is a Sui account address or object id.
type Address [AddressLength]byte

// ParseAddress accepts short (0x2) and full hex forms.
func ParseAddress(s string) (Address, error) {
	var a Address

	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if h == "" || len(h) > 2*AddressLength {
		return a, fmt.Errorf("sui: invalid address %q", s)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}

	raw, err := hex.DecodeString(h)
	if err != nil {
		return a, fmt.Errorf("sui: invalid address %q: %w", s, err)
	}
	copy(a[AddressLength-len(raw):], raw)
	return a, nil
}

// MustParseAddress is ParseAddress for constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the 0x-prefixed 64 hex character form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is all zeroes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Well-known system objects.
var (
	FrameworkAddress = MustParseAddress("0x2")
	ClockObjectID    = MustParseAddress("0x6")
)

// DigestLength is the byte length of object and transaction digests.
const DigestLength = 32

// Digest is a base58 encoded 32-byte hash.
type Digest [DigestLength]byte

// ParseDigest decodes a base58 digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	raw, err := base58.Decode(s)
	if err != nil {
		return d, fmt.Errorf("sui: invalid digest %q: %w", s, err)
	}
	if len(raw) != DigestLength {
		return d, fmt.Errorf("sui: digest %q has %d bytes", s, len(raw))
	}
	copy(d[:], raw)
	return d, nil
}

func (d Digest) String() string {
	return base58.Encode(d[:])
}

// ObjectRef identifies an owned object at a specific version.
type ObjectRef struct {
	ObjectID Address
	Version  uint64
	Digest   Digest
}

// NewObjectRef parses the string fields returned by the JSON-RPC API.
func NewObjectRef(objectID string, version uint64, digest string) (ObjectRef, error) {
	id, err := ParseAddress(objectID)
	if err != nil {
		return ObjectRef{}, err
	}
	d, err := ParseDigest(digest)
	if err != nil {
		return ObjectRef{}, err
	}
	return ObjectRef{ObjectID: id, Version: version, Digest: d}, nil
}

func (r ObjectRef) wire() objectRef {
	return objectRef{
		ObjectID: r.ObjectID,
		Version:  r.Version,
		Digest:   append([]byte(nil), r.Digest[:]...),
	}
}
