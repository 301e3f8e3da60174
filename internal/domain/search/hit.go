package search

// Hit is a single scored document reference returned by the engine.
type Hit struct {
	// ID is the document's identifier string: either a full URL or an
	// opaque ID, depending on the index.
	ID string
	// Key is the engine-internal document key.
	Key string
	// Score is the engine relevance score.
	Score float64
	// Fields holds the stored fields returned with the hit.
	Fields map[string]string
}

// Cursor is an opaque pagination token. The empty cursor means "start from
// the top"; engines derive the next cursor from the page they return.
type Cursor string

// Page is one page of engine hits plus the cursor for the next page.
type Page struct {
	Hits   []Hit
	Cursor Cursor
	Total  int
}
