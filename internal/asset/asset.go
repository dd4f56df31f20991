package asset

// Asset describes a Sui coin type. Identity is the normalized coin type;
// the symbol is display metadata.
type Asset struct {
	coinType CoinType
	symbol   string
	name     string
	decimals uint8
}

// NewAsset creates a new Asset with the given parameters.
func NewAsset(coinType CoinType, symbol string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}

	return &Asset{
		coinType: coinType,
		symbol:   symbol,
		decimals: decimals,
	}
}

// NewAssetWithName creates a new Asset with a human-readable name.
func NewAssetWithName(coinType CoinType, symbol, name string, decimals uint8) *Asset {
	a := NewAsset(coinType, symbol, decimals)
	a.name = name
	return a
}

// CoinType returns the normalized on-chain type of the coin.
func (a *Asset) CoinType() CoinType {
	return a.coinType
}

// Symbol returns the ticker symbol (e.g., "SUI", "USDC").
func (a *Asset) Symbol() string {
	return a.symbol
}

// Name returns the human-readable name, falling back to the symbol.
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

// IsGas reports whether this is the coin that pays for gas.
func (a *Asset) IsGas() bool {
	return a.coinType == SUICoinType
}

// Equals compares identity by coin type.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.coinType == other.coinType
}

func (a *Asset) String() string {
	return a.symbol
}
