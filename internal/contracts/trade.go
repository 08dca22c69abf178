package contracts

// Trade is one completed round trip: buy at the signal day's close,
// sell at the next trading day's open. Treat values as immutable once
// recorded.
type Trade struct {
	Code      string  `json:"code" csv:"code"`
	BuyDate   string  `json:"buy_date" csv:"buy_date"`
	BuyPrice  float64 `json:"buy_price" csv:"buy_price"`
	SellDate  string  `json:"sell_date" csv:"sell_date"`
	SellPrice float64 `json:"sell_price" csv:"sell_price"`
}

// Return is the fractional profit of the round trip.
func (t Trade) Return() float64 {
	if t.BuyPrice <= 0 {
		return 0
	}
	return (t.SellPrice - t.BuyPrice) / t.BuyPrice
}

// IsWin reports whether the trade closed above its entry.
func (t Trade) IsWin() bool {
	return t.Return() > 0
}
