package asset

// Mainnet coin types traded by the bot.
var (
	USDCCoinType  = MustParseCoinType("0xdba34672e30cb065b1f93e3ab55318768fd6fef66c15942c9f7cb846e2f900e7::usdc::USDC")
	USDTCoinType  = MustParseCoinType("0x375f70cf2ae4c00bf37117d0c85a2c71545e6ee05c4a5c7d282cd66a4504b068::usdt::USDT")
	WALCoinType   = MustParseCoinType("0x356a26eb9e012a68958082340d4c4116e7f55615cf27affcff209cf0ae544f59::wal::WAL")
	STSUICoinType = MustParseCoinType("0xd1b72982e40348d069bb1ff701e634c117bb5f741f44dff91e472d3b01461e55::stsui::STSUI")
)

// Well-known assets.
var (
	SUI   = NewAssetWithName(SUICoinType, "SUI", "Sui", 9)
	USDC  = NewAssetWithName(USDCCoinType, "USDC", "USD Coin", 6)
	USDT  = NewAssetWithName(USDTCoinType, "USDT", "Tether USD", 6)
	WAL   = NewAssetWithName(WALCoinType, "WAL", "Walrus", 8)
	STSUI = NewAssetWithName(STSUICoinType, "STSUI", "Staked SUI", 9)
)

// DefaultRegistry returns a registry pre-populated with the mainnet assets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(SUI)
	r.MustRegister(USDC)
	r.MustRegister(USDT)
	r.MustRegister(WAL)
	r.MustRegister(STSUI)
	return r
}
