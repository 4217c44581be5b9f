package domain

// PricePoint is one point of historical price data for charting.
type PricePoint struct {
	TimestampMs int64 // Unix timestamp in milliseconds
	Price       float64
}
