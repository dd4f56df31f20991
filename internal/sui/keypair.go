package sui

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

const (
	// PrivateKeyPrefix is the bech32 human readable part of exported keys.
	PrivateKeyPrefix = "suiprivkey"

	ed25519Flag byte = 0x00
)

var (
	ErrInvalidPrivateKey = errors.New("sui: invalid private key")
	ErrUnsupportedScheme = errors.New("sui: only ed25519 keys are supported")
)

// Keypair is an ed25519 signer bound to its Sui address.
type Keypair struct {
	private ed25519.PrivateKey
	public  ed25519.PublicKey
	address Address
}

// KeypairFromSeed derives the keypair of a 32-byte secret seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: seed must be %d bytes, got %d", ErrInvalidPrivateKey, ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	return &Keypair{
		private: priv,
		public:  pub,
		address: addressOf(pub),
	}, nil
}

// ParsePrivateKey accepts the bech32 "suiprivkey1..." export format, base64
// of a flagged or bare 32-byte seed, and 0x-prefixed hex seeds.
func ParsePrivateKey(s string) (*Keypair, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPrivateKey)
	}

	if strings.HasPrefix(strings.ToLower(s), PrivateKeyPrefix+"1") {
		hrp, data, err := bech32.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}
		if hrp != PrivateKeyPrefix {
			return nil, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidPrivateKey, hrp)
		}
		raw, err := bech32.ConvertBits(data, 5, 8, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}
		return fromFlagged(raw)
	}

	if strings.HasPrefix(s, "0x") {
		raw, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}
		return KeypairFromSeed(raw)
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: unrecognized format", ErrInvalidPrivateKey)
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return KeypairFromSeed(raw)
	case ed25519.SeedSize + 1:
		return fromFlagged(raw)
	}
	return nil, fmt.Errorf("%w: decoded key has %d bytes", ErrInvalidPrivateKey, len(raw))
}

func fromFlagged(raw []byte) (*Keypair, error) {
	if len(raw) != ed25519.SeedSize+1 {
		return nil, fmt.Errorf("%w: decoded key has %d bytes", ErrInvalidPrivateKey, len(raw))
	}
	if raw[0] != ed25519Flag {
		return nil, fmt.Errorf("%w: scheme flag 0x%02x", ErrUnsupportedScheme, raw[0])
	}
	return KeypairFromSeed(raw[1:])
}

func addressOf(pub ed25519.PublicKey) Address {
	buf := make([]byte, 0, 1+len(pub))
	buf = append(buf, ed25519Flag)
	buf = append(buf, pub...)
	return Address(blake2b.Sum256(buf))
}

func (k *Keypair) Address() Address {
	return k.address
}

func (k *Keypair) PublicKey() []byte {
	return append([]byte(nil), k.public...)
}

// ExportPrivateKey encodes the seed in the bech32 "suiprivkey" format.
func (k *Keypair) ExportPrivateKey() (string, error) {
	raw := append([]byte{ed25519Flag}, k.private.Seed()...)
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(PrivateKeyPrefix, conv)
}

// SignTransaction signs the intent message of txBytes and returns the
// base64 serialized signature (flag || signature || public key).
func (k *Keypair) SignTransaction(txBytes []byte) (string, error) {
	if len(txBytes) == 0 {
		return "", errors.New("sui: nothing to sign")
	}
	msg := make([]byte, 0, 3+len(txBytes))
	msg = append(msg, 0, 0, 0) // intent: TransactionData, V0, Sui
	msg = append(msg, txBytes...)
	digest := blake2b.Sum256(msg)

	sig := ed25519.Sign(k.private, digest[:])

	out := make([]byte, 0, 1+len(sig)+len(k.public))
	out = append(out, ed25519Flag)
	out = append(out, sig...)
	out = append(out, k.public...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// VerifySignature checks a serialized signature produced by SignTransaction.
func VerifySignature(txBytes []byte, serialized string) (Address, bool) {
	raw, err := base64.StdEncoding.DecodeString(serialized)
	if err != nil || len(raw) != 1+ed25519.SignatureSize+ed25519.PublicKeySize || raw[0] != ed25519Flag {
		return Address{}, false
	}
	sig := raw[1 : 1+ed25519.SignatureSize]
	pub := ed25519.PublicKey(raw[1+ed25519.SignatureSize:])

	msg := append([]byte{0, 0, 0}, txBytes...)
	digest := blake2b.Sum256(msg)
	return addressOf(pub), ed25519.Verify(pub, digest[:], sig)
}
