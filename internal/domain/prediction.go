package domain

// Prediction market status values.
const (
	PMStatusOpen      = "open"
	PMStatusClosed    = "closed"
	PMStatusCancelled = "cancelled"
)

// Prediction market event categories.
const (
	PMCategoryAll       = "all"
	PMCategoryCrypto    = "crypto"
	PMCategorySports    = "sports"
	PMCategoryPolitics  = "politics"
	PMCategoryEsports   = "esports"
	PMCategoryCulture   = "culture"
	PMCategoryEconomics = "economics"
	PMCategoryTech      = "tech"
)

// MicroDollarsPerDollar is the pricing unit of the prediction market API:
// 1,000,000 micro-dollars = $1.
const MicroDollarsPerDollar = 1_000_000

// PMMarketMetadata describes one binary-outcome market.
type PMMarketMetadata struct {
	MarketID   string
	Title      string
	Subtitle   string
	Status     string // open | closed | cancelled
	Result     string // "" | pending | yes | no
	OpenTime   int64
	CloseTime  int64
	IsTradable bool
}

// PMMarketPricing carries market prices in micro-dollars. Nil pointers mean
// no liquidity on that side.
type PMMarketPricing struct {
	BuyYesPriceUsd  *int64
	BuyNoPriceUsd   *int64
	SellYesPriceUsd *int64
	SellNoPriceUsd  *int64
	Volume          int64
	Volume24h       int64
}

// PMMarket is one binary-outcome market inside an event.
// Only markets with Status == open and Metadata.IsTradable are orderable.
type PMMarket struct {
	MarketID  string
	EventID   string
	Status    string
	Result    string
	OpenTime  int64
	CloseTime int64
	Metadata  PMMarketMetadata
	Pricing   PMMarketPricing
}

// Orderable reports whether an order may be placed on this market.
func (m PMMarket) Orderable() bool {
	return m.Status == PMStatusOpen && m.Metadata.IsTradable
}

// PMEvent groups one or more binary-outcome markets.
type PMEvent struct {
	EventID     string
	Title       string
	Subtitle    string
	ImageURL    string
	Series      string
	Category    string
	Subcategory string
	IsActive    bool
	IsLive      bool
	Markets     []PMMarket
	TvlDollars  string
	VolumeUsd   string
}

// HasOrderableMarket reports whether any market in the event accepts orders.
func (e PMEvent) HasOrderableMarket() bool {
	for _, m := range e.Markets {
		if m.Orderable() {
			return true
		}
	}
	return false
}
