package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/asset"
)

// Registry maps symbolic names to assets, pools and protocol objects. It is
// immutable once built.
type Registry struct {
	protocol  Protocol
	assets    *asset.Registry
	pools     []*Pool
	byName    map[string]*Pool
	headrooms map[string]Headroom
}

// NewRegistry validates and indexes pools. Each pool is reachable under
// "A_B" and "B_A".
func NewRegistry(protocol Protocol, assets *asset.Registry, pools []*Pool, headrooms map[string]Headroom) (*Registry, error) {
	r := &Registry{
		protocol:  protocol,
		assets:    assets,
		byName:    make(map[string]*Pool, 2*len(pools)),
		headrooms: make(map[string]Headroom, len(headrooms)),
	}

	for sym, h := range headrooms {
		if h.Absolute == nil && (h.Percent < 0 || h.Percent >= 100) {
			return nil, invalidRegistry("headroom for %s: percent %d out of range", sym, h.Percent)
		}
		r.headrooms[strings.ToUpper(sym)] = h
	}

	for _, p := range pools {
		if p.TokenA == nil || p.TokenB == nil || p.TokenA.Equals(p.TokenB) {
			return nil, invalidRegistry("pool %s: needs two distinct tokens", p.Name)
		}
		if p.ObjectID.IsZero() {
			return nil, invalidRegistry("pool %s: missing object id", p.Name)
		}
		if p.ForwardLimit == nil || p.ForwardLimit.Sign() <= 0 || p.ReverseLimit == nil || p.ReverseLimit.Sign() <= 0 {
			return nil, invalidRegistry("pool %s: price limits must be positive", p.Name)
		}

		for _, key := range []string{
			pairKey(p.TokenA.Symbol(), p.TokenB.Symbol()),
			pairKey(p.TokenB.Symbol(), p.TokenA.Symbol()),
			strings.ToUpper(p.Name),
		} {
			if existing, ok := r.byName[key]; ok && existing != p {
				return nil, invalidRegistry("pool name %s is ambiguous", key)
			}
			r.byName[key] = p
		}
		r.pools = append(r.pools, p)
	}

	return r, nil
}

func invalidRegistry(format string, args ...any) error {
	return apperror.New(apperror.CodeInvalidRegistry, apperror.WithContext(fmt.Sprintf(format, args...)))
}

func pairKey(a, b string) string {
	return strings.ToUpper(a) + "_" + strings.ToUpper(b)
}

func (r *Registry) Protocol() Protocol {
	return r.protocol
}

func (r *Registry) Assets() *asset.Registry {
	return r.assets
}

// Pools returns the pools in declaration order.
func (r *Registry) Pools() []*Pool {
	out := make([]*Pool, len(r.pools))
	copy(out, r.pools)
	return out
}

// PoolNames returns every accepted name, sorted.
func (r *Registry) PoolNames() []string {
	names := make([]string, 0, len(r.byName))
	for k := range r.byName {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Pool resolves a pool name in either token order, case-insensitively.
func (r *Registry) Pool(name string) (*Pool, error) {
	p, ok := r.byName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return nil, apperror.New(apperror.CodePoolNotFound, apperror.WithContext(name))
	}
	return p, nil
}

// Route reads name as "FROM_TO" and returns the route spending FROM, or TO
// when reverse is set. The on-chain token order only decides A2B.
func (r *Registry) Route(name string, reverse bool) (Route, error) {
	p, err := r.Pool(name)
	if err != nil {
		return Route{}, err
	}

	parts := strings.Split(strings.ToUpper(strings.TrimSpace(name)), "_")
	if len(parts) != 2 || !p.namesTokens(parts[0], parts[1]) {
		// A custom pool name: fall back to the pool's own order.
		return p.Route(reverse), nil
	}
	from := parts[0]
	if reverse {
		from = parts[1]
	}
	return Route{Pool: p, A2B: strings.EqualFold(p.TokenA.Symbol(), from)}, nil
}

// Swap returns the route from one asset symbol to another.
func (r *Registry) Swap(from, to string) (Route, error) {
	return r.Route(pairKey(from, to), false)
}

// Asset looks up an asset by symbol.
func (r *Registry) Asset(symbol string) (*asset.Asset, error) {
	a, ok := r.assets.GetBySymbol(symbol)
	if !ok {
		return nil, apperror.New(apperror.CodeAssetNotFound, apperror.WithContext(symbol))
	}
	return a, nil
}

// Decimals returns the precision of coinType, or the default for unknown types.
func (r *Registry) Decimals(coinType asset.CoinType) uint8 {
	return r.assets.Decimals(coinType)
}

// Headroom returns the reserve policy of symbol.
func (r *Registry) Headroom(symbol string) Headroom {
	if h, ok := r.headrooms[strings.ToUpper(symbol)]; ok {
		return h
	}
	return DefaultHeadroom
}
