package search

// Result is one metadata-enriched entry of the final result set.
// Immutable once constructed.
type Result struct {
	ID          string
	Title       string
	TextSnippet string
	Language    string
	// WARCDate is the capture date: an epoch-microseconds string for
	// parseable dates, the raw unparsed value otherwise.
	WARCDate  string
	WordCount int
	URL       string

	// Enriched is false for degraded-mode results carrying only the raw
	// engine identifier.
	Enriched bool
}

// Unenriched builds the degraded-mode projection of a raw hit: the
// identifier exposed as URL, nothing else.
func Unenriched(url string) Result {
	return Result{URL: url}
}
