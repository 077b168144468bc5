package search

import "context"

// Provider defines the interface for web search providers.
type Provider interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]Result, error)
}

// Result represents a single search result. Ordering within a result
// list is significant (most relevant first) and is preserved end to end.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchOptions controls search behavior across providers.
type SearchOptions struct {
	Limit     int
	FocusMode string
}

// Focus modes. Filtered modes map to engine/category filters on backends
// that support them; other backends ignore the hint.
const (
	FocusQuick    = "quick"
	FocusReddit   = "reddit"
	FocusNews     = "news"
	FocusShopping = "shopping"
)
