// Package sources defines the common schema every upstream game
// source normalizes into, and the capability interface the search
// aggregator fans out over.
package sources

import "context"

// Hit is one normalized game listing.
type Hit struct {
	Title string `json:"title"`
	Url   string `json:"url"`
}

// SourceResult holds everything one upstream returned for a query.
// MoreUrl is always populated, even with zero hits, so the caller can
// still point the user at the live upstream search page.
type SourceResult struct {
	Source    string `json:"source"`
	MoreUrl   string `json:"more_url"`
	Hits      []Hit  `json:"hits"`
	TotalHits int    `json:"total_hits"`
	Preview   []Hit  `json:"preview"`
}

// Source is implemented once per upstream. Search never fails: any
// network, status or parse problem is absorbed into a zero-hit
// SourceResult carrying the source's fallback MoreUrl.
type Source interface {
	Name() string
	Search(ctx context.Context, query string) SourceResult
}

// PreviewLimit is how many hits are shown inline per source; the full
// list stays reachable through MoreUrl.
const PreviewLimit = 3

// Shape fills in the preview as the first limit entries of Hits,
// leaving Hits and TotalHits untouched. Idempotent for a fixed limit.
func Shape(result SourceResult, limit int) SourceResult {
	if limit > len(result.Hits) {
		limit = len(result.Hits)
	}
	result.Preview = result.Hits[:limit]
	return result
}
