// Package registryfile loads the token/pool registry from YAML.
package registryfile

import (
	_ "embed"
	"fmt"
	"math/big"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/asset"
	"github.com/fd1az/sui-swap-bot/internal/sui"
)

//go:embed default.yaml
var defaultRegistry []byte

// Default returns the embedded mainnet registry document.
func Default() []byte {
	return append([]byte(nil), defaultRegistry...)
}

type sharedDoc struct {
	ID                   string `yaml:"id"`
	InitialSharedVersion uint64 `yaml:"initial_shared_version"`
}

type headroomDoc struct {
	Percent  *int64 `yaml:"percent"`
	Absolute string `yaml:"absolute"`
}

type assetDoc struct {
	Symbol   string       `yaml:"symbol"`
	Name     string       `yaml:"name"`
	CoinType string       `yaml:"coin_type"`
	Decimals uint8        `yaml:"decimals"`
	Headroom *headroomDoc `yaml:"headroom"`
}

type poolDoc struct {
	Name                 string `yaml:"name"`
	ObjectID             string `yaml:"object_id"`
	InitialSharedVersion uint64 `yaml:"initial_shared_version"`
	TokenA               string `yaml:"token_a"`
	TokenB               string `yaml:"token_b"`
	ForwardLimit         string `yaml:"forward_limit"`
	ReverseLimit         string `yaml:"reverse_limit"`
}

type document struct {
	Protocol struct {
		TradePackage    string    `yaml:"trade_package"`
		SlippagePackage string    `yaml:"slippage_package"`
		VersionObject   sharedDoc `yaml:"version_object"`
		ClockObject     sharedDoc `yaml:"clock_object"`
	} `yaml:"protocol"`
	Assets []assetDoc `yaml:"assets"`
	Pools  []poolDoc  `yaml:"pools"`
}

// Load reads the registry at path, or the embedded default when path is empty.
func Load(path string) (*domain.Registry, error) {
	if path == "" {
		return Parse(defaultRegistry)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidRegistry,
			apperror.WithContext("read "+path), apperror.WithCause(err))
	}
	return Parse(data)
}

// Parse decodes and validates a registry document.
func Parse(data []byte) (*domain.Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperror.New(apperror.CodeInvalidRegistry,
			apperror.WithContext("decode yaml"), apperror.WithCause(err))
	}

	protocol, err := doc.protocol()
	if err != nil {
		return nil, err
	}

	assets := asset.NewRegistry()
	headrooms := make(map[string]domain.Headroom)
	for _, a := range doc.Assets {
		ct, err := asset.ParseCoinType(a.CoinType)
		if err != nil {
			return nil, invalid("asset %s: %v", a.Symbol, err)
		}
		if a.Symbol == "" {
			return nil, invalid("asset %s: symbol is required", a.CoinType)
		}
		if err := assets.Register(asset.NewAssetWithName(ct, strings.ToUpper(a.Symbol), a.Name, a.Decimals)); err != nil {
			return nil, invalid("asset %s: %v", a.Symbol, err)
		}
		if a.Headroom != nil {
			h, err := a.Headroom.toDomain()
			if err != nil {
				return nil, invalid("asset %s: %v", a.Symbol, err)
			}
			headrooms[a.Symbol] = h
		}
	}

	pools := make([]*domain.Pool, 0, len(doc.Pools))
	for _, p := range doc.Pools {
		pool, err := p.toDomain(assets)
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	if len(pools) == 0 {
		return nil, invalid("no pools defined")
	}

	return domain.NewRegistry(protocol, assets, pools, headrooms)
}

func (d *document) protocol() (domain.Protocol, error) {
	var (
		p   domain.Protocol
		err error
	)
	if p.TradePackage, err = sui.ParseAddress(d.Protocol.TradePackage); err != nil {
		return p, invalid("protocol.trade_package: %v", err)
	}
	if p.SlippagePackage, err = sui.ParseAddress(d.Protocol.SlippagePackage); err != nil {
		return p, invalid("protocol.slippage_package: %v", err)
	}
	if p.Version, err = d.Protocol.VersionObject.toDomain(); err != nil {
		return p, invalid("protocol.version_object: %v", err)
	}

	clock := d.Protocol.ClockObject
	if clock.ID == "" {
		clock = sharedDoc{ID: "0x6", InitialSharedVersion: 1}
	}
	if p.Clock, err = clock.toDomain(); err != nil {
		return p, invalid("protocol.clock_object: %v", err)
	}
	return p, nil
}

func (s sharedDoc) toDomain() (domain.SharedObject, error) {
	id, err := sui.ParseAddress(s.ID)
	if err != nil {
		return domain.SharedObject{}, err
	}
	if s.InitialSharedVersion == 0 {
		return domain.SharedObject{}, fmt.Errorf("initial_shared_version is required")
	}
	return domain.SharedObject{ID: id, InitialSharedVersion: s.InitialSharedVersion}, nil
}

func (h headroomDoc) toDomain() (domain.Headroom, error) {
	switch {
	case h.Percent != nil && h.Absolute != "":
		return domain.Headroom{}, fmt.Errorf("headroom: percent and absolute are exclusive")
	case h.Percent != nil:
		return domain.PercentHeadroom(*h.Percent), nil
	case h.Absolute != "":
		v, ok := new(big.Int).SetString(h.Absolute, 10)
		if !ok || v.Sign() < 0 {
			return domain.Headroom{}, fmt.Errorf("headroom: invalid absolute %q", h.Absolute)
		}
		return domain.Headroom{Absolute: v}, nil
	}
	return domain.DefaultHeadroom, nil
}

func (p poolDoc) toDomain(assets *asset.Registry) (*domain.Pool, error) {
	id, err := sui.ParseAddress(p.ObjectID)
	if err != nil {
		return nil, invalid("pool %s: object_id: %v", p.Name, err)
	}
	a, ok := assets.GetBySymbol(p.TokenA)
	if !ok {
		return nil, invalid("pool %s: unknown token_a %q", p.Name, p.TokenA)
	}
	b, ok := assets.GetBySymbol(p.TokenB)
	if !ok {
		return nil, invalid("pool %s: unknown token_b %q", p.Name, p.TokenB)
	}
	fwd, ok := new(big.Int).SetString(p.ForwardLimit, 10)
	if !ok {
		return nil, invalid("pool %s: invalid forward_limit %q", p.Name, p.ForwardLimit)
	}
	rev, ok := new(big.Int).SetString(p.ReverseLimit, 10)
	if !ok {
		return nil, invalid("pool %s: invalid reverse_limit %q", p.Name, p.ReverseLimit)
	}
	if p.InitialSharedVersion == 0 {
		return nil, invalid("pool %s: initial_shared_version is required", p.Name)
	}

	name := p.Name
	if name == "" {
		name = a.Symbol() + "_" + b.Symbol()
	}
	return &domain.Pool{
		Name:                 strings.ToUpper(name),
		ObjectID:             id,
		InitialSharedVersion: p.InitialSharedVersion,
		TokenA:               a,
		TokenB:               b,
		ForwardLimit:         fwd,
		ReverseLimit:         rev,
	}, nil
}

func invalid(format string, args ...any) error {
	return apperror.New(apperror.CodeInvalidRegistry, apperror.WithContext(fmt.Sprintf(format, args...)))
}
