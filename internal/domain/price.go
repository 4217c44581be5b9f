package domain

// TokenPrice is the current price record for one mint.
// A mint absent from a PriceMap means "no price available", which views
// must render distinctly from a zero price.
type TokenPrice struct {
	UsdPrice       float64
	Decimals       int
	BlockID        int64
	PriceChange24h float64
}

// PriceMap maps mint address to its current price.
type PriceMap map[string]TokenPrice
