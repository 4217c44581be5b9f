package domain

// PMOrderRequest is the client-assembled prediction market order.
// One request corresponds to one UI submission; nothing is persisted.
type PMOrderRequest struct {
	OwnerPubkey    string
	MarketID       string
	IsYes          bool
	IsBuy          bool
	Contracts      int64
	MaxBuyPriceUsd int64 // micro-dollars, 0 when unset
	DepositAmount  int64 // micro-dollars, 0 when unset
}

// TxMeta carries the confirmation anchors returned at order-creation time.
type TxMeta struct {
	Blockhash            string
	LastValidBlockHeight uint64
}

// PMOrder is the upstream reply to order creation: an unsigned transaction
// blob plus the metadata needed to confirm it later.
type PMOrder struct {
	Transaction     string // base64-encoded unsigned transaction, "" on failure
	TxMeta          *TxMeta
	ExternalOrderID string
	OrderPubkey     string
	OrderCostUsd    string
	NewPayoutUsd    string
}

// PMOrderStatus is the lifecycle record of a submitted order.
type PMOrderStatus struct {
	Pubkey       string
	Status       string // pending | filled | failed
	Owner        string
	MarketID     string
	IsYes        bool
	IsBuy        bool
	Contracts    string
	FillPriceUsd string
	CreatedAt    int64
	UpdatedAt    int64
}

// SwapQuote is the upstream reply to a swap order request. Transaction is
// present only when a taker address was supplied with the request.
type SwapQuote struct {
	RequestID   string
	Transaction string // base64-encoded unsigned transaction
	InAmount    string // raw units
	OutAmount   string // raw units
	Message     string
}

// SwapResult is the upstream reply to swap execution.
type SwapResult struct {
	Signature string
	Status    string
}
