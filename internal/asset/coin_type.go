package asset

import (
	"fmt"
	"strings"
)

// CoinType is a fully qualified Move struct tag with a normalized, 32-byte
// address, e.g. 0x000…002::sui::SUI.
type CoinType string

// SUICoinType is the native gas coin.
var SUICoinType = MustParseCoinType("0x2::sui::SUI")

// ParseCoinType normalizes the address part of a coin type so that short
// (0x2) and long forms compare equal.
func ParseCoinType(s string) (CoinType, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, "::", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", fmt.Errorf("asset: invalid coin type %q", s)
	}

	addr := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(parts[0], "0x"), "0X"))
	if addr == "" || len(addr) > 64 {
		return "", fmt.Errorf("asset: invalid coin type address %q", parts[0])
	}
	for _, c := range addr {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return "", fmt.Errorf("asset: invalid coin type address %q", parts[0])
		}
	}

	return CoinType("0x" + strings.Repeat("0", 64-len(addr)) + addr + "::" + parts[1] + "::" + parts[2]), nil
}

// MustParseCoinType is ParseCoinType for constants.
func MustParseCoinType(s string) CoinType {
	ct, err := ParseCoinType(s)
	if err != nil {
		panic(err)
	}
	return ct
}

// Address returns the package address part.
func (c CoinType) Address() string {
	addr, _, _ := strings.Cut(string(c), "::")
	return addr
}

// Module returns the module name.
func (c CoinType) Module() string {
	parts := strings.SplitN(string(c), "::", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}

// Name returns the struct name.
func (c CoinType) Name() string {
	parts := strings.SplitN(string(c), "::", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

func (c CoinType) String() string {
	return string(c)
}
