package ledger

// ServiceFee is the flat per-gift service fee in currency units,
// charged on top of the gift price.
const ServiceFee = 7.0

// Wallet statuses
const (
	StatusActive = "active"
	StatusLocked = "locked"
)

// Default configuration values
const (
	DefaultCurrency         = "USD"
	DefaultMaxDepositAmount = 5000.0
	DefaultMinDepositAmount = 1.0
)

// CalculateGiftCost returns the total chargeable cost of a gift:
// the item price plus the flat service fee. Pure function, no I/O.
func CalculateGiftCost(giftPrice float64) float64 {
	return giftPrice + ServiceFee
}
