package searchd

// Ranking selects the word-count re-rank direction.
type Ranking string

const (
	// RankingAsc sorts results by ascending word count.
	RankingAsc Ranking = "asc"
	// RankingDesc sorts results by descending word count.
	RankingDesc Ranking = "desc"
)

// Result is one entry of the assembled result set. Entries from an index
// without metadata carry only the URL.
type Result struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	TextSnippet string `json:"textSnippet,omitempty"`
	Language    string `json:"language,omitempty"`
	WARCDate    string `json:"warcDate,omitempty"`
	WordCount   int    `json:"wordCount,omitempty"`
	URL         string `json:"url,omitempty"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}
