// Package db defines the storage contract consumed by the repositories.
package db

import (
	"context"
	"time"
)

// Store is the engine-store contract: full-text search plus a small
// key-value surface used by the persistent embedding cache.
type Store interface {
	Ping(ctx context.Context) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error

	// ListIndexes returns the names of all full-text indexes.
	ListIndexes(ctx context.Context) ([]string, error)
	// SearchPage runs a paged full-text search.
	SearchPage(ctx context.Context, q *PageQuery) (*SearchResult, error)

	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// PageQuery describes one page of a full-text search.
type PageQuery struct {
	IndexName    string
	Query        string
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchEntry is a single scored document from the store.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// SearchResult holds one page of entries plus the total match count.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}
