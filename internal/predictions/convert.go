package predictions

import (
	"fmt"
	"math"

	"solana-token-desk/internal/domain"
)

// Probability converts a micro-dollar buy price into a 0-100 percentage.
// A nil price (no liquidity) converts to 0.
func Probability(buyPriceUsd *int64) float64 {
	if buyPriceUsd == nil {
		return 0
	}
	return float64(*buyPriceUsd) / 10_000
}

// DollarsToContracts converts a dollar amount into whole contracts at a
// micro-dollar price. Each contract pays $1 when the prediction is correct.
func DollarsToContracts(dollarAmount float64, priceMicroUsd int64) int64 {
	if priceMicroUsd <= 0 {
		return 0
	}
	return int64(math.Floor(dollarAmount * domain.MicroDollarsPerDollar / float64(priceMicroUsd)))
}

// ContractsToDollars converts a contract count into its dollar cost at a
// micro-dollar price.
func ContractsToDollars(contracts int64, priceMicroUsd int64) float64 {
	return float64(contracts) * float64(priceMicroUsd) / domain.MicroDollarsPerDollar
}

// FormatPrice renders a micro-dollar price in cents, "—" when nil.
func FormatPrice(priceMicroUsd *int64) string {
	if priceMicroUsd == nil {
		return "—"
	}
	return fmt.Sprintf("%.0f¢", float64(*priceMicroUsd)/10_000)
}

// FormatVolume renders a dollar volume with a magnitude suffix:
// $999, $2K, $1.5M.
func FormatVolume(volume float64) string {
	switch {
	case volume >= 1_000_000:
		return fmt.Sprintf("$%.1fM", volume/1_000_000)
	case volume >= 1_000:
		return fmt.Sprintf("$%.0fK", volume/1_000)
	default:
		return fmt.Sprintf("$%.0f", volume)
	}
}
