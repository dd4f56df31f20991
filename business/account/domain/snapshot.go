package domain

// Placeholders rendered when a value can't be determined.
const (
	NoRecord      = "No record"
	UnknownVolume = "Unknown"
	UnknownAmount = "?"
)

// Balance is one formatted asset balance.
type Balance struct {
	Symbol string
	Amount string
}

// Snapshot is the reporting view of one account.
type Snapshot struct {
	Index    int // 1-based position in the accounts file
	Label    string
	Address  string
	Balances []Balance
	LastSwap string
	Volume   string // empty when not requested
}

// BalanceOf returns the formatted balance of symbol, or UnknownAmount.
func (s Snapshot) BalanceOf(symbol string) string {
	for _, b := range s.Balances {
		if b.Symbol == symbol {
			return b.Amount
		}
	}
	return UnknownAmount
}
