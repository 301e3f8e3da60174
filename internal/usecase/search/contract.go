package search

import (
	"context"

	"github.com/openwebindex/searchd/internal/domain"
	"github.com/openwebindex/searchd/internal/domain/metadata"
	"github.com/openwebindex/searchd/internal/domain/search"
)

// Engine defines the full-text engine contract for search operations.
type Engine interface {
	HasIndex(name string) bool
	Search(ctx context.Context, index, query string, limit int) (search.Page, error)
	SearchAfter(ctx context.Context, index, query string, cursor search.Cursor, limit int) (search.Page, error)
}

// Catalog reads the loaded metadata records for result enrichment.
type Catalog interface {
	HasIndex(index string) bool
	Records(index string) []metadata.Record
	Record(index, id string) (metadata.Record, bool)
}

// Embedder vectorizes text for the semantic candidate ranking.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
