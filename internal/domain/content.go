package domain

// Content types carried by curated token content.
const (
	ContentTypeText    = "text"
	ContentTypeTweet   = "tweet"
	ContentTypeSummary = "summary"
	ContentTypeNews    = "news"
)

// TokenContent is one curated content item for a token. Summary items are
// synthesized client-side from per-token singleton fields and carry ids of
// the form "{mint}-token-summary" / "{mint}-news-summary".
type TokenContent struct {
	ID          string
	Mint        string
	Type        string // text | tweet | summary | news
	Content     string // text body, never empty after normalization
	SubmittedBy string
	Source      string
	Citations   []string
	CreatedAt   string
	UpdatedAt   string
}
