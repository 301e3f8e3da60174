package engine

import (
	"context"

	"github.com/openwebindex/searchd/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchPageFn  func(ctx context.Context, q *db.PageQuery) (*db.SearchResult, error)
	listIndexesFn func(ctx context.Context) ([]string, error)
	searchCalls   []*db.PageQuery
}

func (m *mockStore) SearchPage(ctx context.Context, q *db.PageQuery) (*db.SearchResult, error) {
	m.searchCalls = append(m.searchCalls, q)
	if m.searchPageFn != nil {
		return m.searchPageFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) ListIndexes(ctx context.Context) ([]string, error) {
	if m.listIndexesFn != nil {
		return m.listIndexesFn(ctx)
	}
	return []string{"demo"}, nil
}
