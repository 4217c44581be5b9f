package domain

// TokenInfo is the normalized token record used across the dashboard.
// Upstream has shipped two shapes for the same data (id/icon vs
// mint/logoURI); normalization resolves both into this one.
type TokenInfo struct {
	Mint         string   // token mint address, stable join key
	Name         string
	Symbol       string
	Decimals     int
	LogoURI      string   // empty when upstream has no icon
	Tags         []string
	OrganicScore float64
	MarketCap    float64
	Holders      int64
}

// Token categories served by the tokens API.
const (
	CategoryTopOrganicScore = "toporganicscore"
	CategoryTopTraded       = "toptraded"
	CategoryTopTrending     = "toptrending"
)

// Category intervals accepted by the tokens API.
const (
	Interval5m  = "5m"
	Interval1h  = "1h"
	Interval6h  = "6h"
	Interval24h = "24h"
)
