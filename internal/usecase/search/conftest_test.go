package search

import (
	"context"
	"strconv"
	"sync"

	"github.com/openwebindex/searchd/internal/domain"
	"github.com/openwebindex/searchd/internal/domain/metadata"
	"github.com/openwebindex/searchd/internal/domain/search"
)

// mockEngine serves scripted pages of hits: Search returns pages[0],
// each SearchAfter the next page. Ran-dry pages are empty.
type mockEngine struct {
	hasIndex bool
	pages    [][]search.Hit
	err      error

	searchCalls      int
	searchAfterCalls int
	requestedLimits  []int
	seenCursors      []search.Cursor
}

func (m *mockEngine) HasIndex(_ string) bool {
	return m.hasIndex
}

func (m *mockEngine) Search(_ context.Context, _, _ string, limit int) (search.Page, error) {
	m.searchCalls++
	m.requestedLimits = append(m.requestedLimits, limit)
	if m.err != nil {
		return search.Page{}, m.err
	}
	return m.page(0), nil
}

func (m *mockEngine) SearchAfter(
	_ context.Context, _, _ string, cursor search.Cursor, limit int,
) (search.Page, error) {
	m.searchAfterCalls++
	m.requestedLimits = append(m.requestedLimits, limit)
	m.seenCursors = append(m.seenCursors, cursor)
	if m.err != nil {
		return search.Page{}, m.err
	}
	return m.page(m.searchAfterCalls), nil
}

func (m *mockEngine) page(n int) search.Page {
	if n >= len(m.pages) {
		return search.Page{}
	}
	return search.Page{
		Hits:   m.pages[n],
		Cursor: search.Cursor(strconv.Itoa(n + 1)),
	}
}

// mockCatalog exposes a fixed record set for one index.
type mockCatalog struct {
	hasMeta bool
	records []metadata.Record
}

func (m *mockCatalog) HasIndex(_ string) bool {
	return m.hasMeta
}

func (m *mockCatalog) Records(_ string) []metadata.Record {
	return m.records
}

func (m *mockCatalog) Record(_, id string) (metadata.Record, bool) {
	for _, rec := range m.records {
		if rec.Identifier() == id {
			return rec, true
		}
	}
	return metadata.Record{}, false
}

// mockEmbedder maps texts to fixed vectors and counts calls per text.
type mockEmbedder struct {
	mu    sync.Mutex
	vecs  map[string][]float32
	err   error
	calls map[string]int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[text]++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	if vec, ok := m.vecs[text]; ok {
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 0}}, nil
}

func (m *mockEmbedder) callCount(text string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[text]
}

// records is shorthand for building a record slice inline.
func records(rs ...metadata.Record) []metadata.Record {
	return rs
}

// urlRecord builds a URL-schema record with sensible defaults for tests.
func urlRecord(recordID, url, lang, text string) metadata.Record {
	return metadata.Record{
		Schema:    metadata.SchemaURL,
		RecordID:  recordID,
		URL:       url,
		Title:     "Title " + recordID,
		PlainText: text,
		Language:  lang,
		WARCDate:  "2022-03-14T09:26:53Z",
	}
}
