package domain

// PortfolioElement is one platform position group for a wallet.
type PortfolioElement struct {
	PlatformID    string
	PlatformName  string
	PlatformImage string
	Type          string
	Label         string
	Value         float64 // USD
	Assets        []PortfolioAsset
}

// PortfolioAsset is platform-specific asset data nested in an element.
type PortfolioAsset struct {
	ImageURI   string
	Link       string
	Prediction *PredictionPosition // nil for non-prediction assets
}

// PredictionPosition holds prediction-market position fields for an asset.
type PredictionPosition struct {
	SideName          string // "Yes" | "No"
	Size              float64
	EntryPrice        float64
	MarkPrice         float64
	FeesPaidValue     float64
	PnlAfterFeesValue float64
	EventTitle        string
	CloseTime         int64 // unix seconds
	CreatedAt         string
}

// Portfolio is the normalized portfolio view for one wallet.
// TotalValue comes from upstream when provided, otherwise it is the sum of
// element values. TotalPnl is summed locally from prediction positions.
type Portfolio struct {
	Owner      string
	Date       int64
	Elements   []PortfolioElement
	TotalValue float64
	TotalPnl   float64
}
