package kalshi

// NormalizePrice converts a raw order-book price into a probability
// fraction. The upstream representation is ambiguous between an
// already-normalized fraction and an integer cent value, so anything
// above 1 is treated as hundredths. Exactly 1 passes through unchanged.
func NormalizePrice(price float64) float64 {
	if price > 1 {
		return price / 100
	}
	return price
}
