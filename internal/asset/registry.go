package asset

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultDecimals is used for coin types nobody registered.
const DefaultDecimals uint8 = 9

// Registry is a thread-safe registry of known assets.
type Registry struct {
	byType   map[CoinType]*Asset
	bySymbol map[string]*Asset
	mu       sync.RWMutex
}

// NewRegistry creates a new empty asset registry.
func NewRegistry() *Registry {
	return &Registry{
		byType:   make(map[CoinType]*Asset),
		bySymbol: make(map[string]*Asset),
	}
}

// Register adds an asset to the registry. Duplicate coin types or symbols
// are rejected.
func (r *Registry) Register(a *Asset) error {
	if a == nil {
		return ErrNilAsset
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byType[a.CoinType()]; exists {
		return fmt.Errorf("asset: %s already registered", a.CoinType())
	}
	sym := strings.ToUpper(a.Symbol())
	if _, exists := r.bySymbol[sym]; exists {
		return fmt.Errorf("asset: symbol %s already registered", a.Symbol())
	}

	r.byType[a.CoinType()] = a
	r.bySymbol[sym] = a
	return nil
}

// MustRegister is Register for static setup.
func (r *Registry) MustRegister(a *Asset) {
	if err := r.Register(a); err != nil {
		panic(err)
	}
}

// Get retrieves an asset by coin type.
func (r *Registry) Get(coinType CoinType) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byType[coinType]
	return a, ok
}

// GetBySymbol retrieves an asset by symbol, case-insensitively.
func (r *Registry) GetBySymbol(symbol string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.bySymbol[strings.ToUpper(symbol)]
	return a, ok
}

// Decimals returns the precision for a coin type, or DefaultDecimals when the
// type is unknown.
func (r *Registry) Decimals(coinType CoinType) uint8 {
	if a, ok := r.Get(coinType); ok {
		return a.Decimals()
	}
	return DefaultDecimals
}

// All returns all registered assets sorted with SUI first, then by symbol.
func (r *Registry) All() []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Asset, 0, len(r.byType))
	for _, a := range r.byType {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsGas() != result[j].IsGas() {
			return result[i].IsGas()
		}
		return result[i].Symbol() < result[j].Symbol()
	})
	return result
}

// Count returns the number of registered assets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType)
}
