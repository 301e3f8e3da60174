// Package engine adapts the full-text store into the paging contract the
// search use case consumes.
package engine

import (
	"context"
	"errors"
	"strconv"

	"github.com/openwebindex/searchd/internal/db"
	"github.com/openwebindex/searchd/internal/domain"
	"github.com/openwebindex/searchd/internal/domain/search"
)

// DefaultIdentifierField is the stored field that carries the document
// identifier handed to the metadata resolver.
const DefaultIdentifierField = "url"

// store is the consumer interface for engine operations (ISP).
type store interface {
	SearchPage(ctx context.Context, q *db.PageQuery) (*db.SearchResult, error)
	ListIndexes(ctx context.Context) ([]string, error)
}

// Repo implements usecase/search.Engine on top of a full-text store.
type Repo struct {
	store           store
	identifierField string
	indexes         map[string]struct{}
}

// Option configures a Repo.
type Option func(*Repo)

// WithIdentifierField overrides the stored field used as the hit identifier.
func WithIdentifierField(field string) Option {
	return func(r *Repo) {
		if field != "" {
			r.identifierField = field
		}
	}
}

// New creates an engine repository. The known index names are loaded once at
// construction so index existence checks do not hit the store per request.
func New(ctx context.Context, s store, opts ...Option) (*Repo, error) {
	r := &Repo{
		store:           s,
		identifierField: DefaultIdentifierField,
	}
	for _, opt := range opts {
		opt(r)
	}

	names, err := s.ListIndexes(ctx)
	if err != nil {
		return nil, err
	}
	r.indexes = make(map[string]struct{}, len(names))
	for _, name := range names {
		r.indexes[name] = struct{}{}
	}
	return r, nil
}

// HasIndex reports whether the engine knows the named index.
func (r *Repo) HasIndex(name string) bool {
	_, ok := r.indexes[name]
	return ok
}

// Indexes returns the known index names.
func (r *Repo) Indexes() []string {
	names := make([]string, 0, len(r.indexes))
	for name := range r.indexes {
		names = append(names, name)
	}
	return names
}

// Search returns the first page of hits for the query.
func (r *Repo) Search(ctx context.Context, index, query string, limit int) (search.Page, error) {
	return r.page(ctx, index, query, 0, limit)
}

// SearchAfter returns the page of hits following the given cursor.
func (r *Repo) SearchAfter(
	ctx context.Context, index, query string, cursor search.Cursor, limit int,
) (search.Page, error) {
	offset, err := decodeCursor(cursor)
	if err != nil {
		return search.Page{}, err
	}
	return r.page(ctx, index, query, offset, limit)
}

func (r *Repo) page(ctx context.Context, index, query string, offset, limit int) (search.Page, error) {
	sr, err := r.store.SearchPage(ctx, &db.PageQuery{
		IndexName: index,
		Query:     query,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return search.Page{}, domain.ErrIndexNotFound
		}
		return search.Page{}, err
	}

	page := search.Page{
		Hits:  make([]search.Hit, 0, len(sr.Entries)),
		Total: sr.Total,
	}
	for _, e := range sr.Entries {
		id, ok := e.Fields[r.identifierField]
		if !ok || id == "" {
			id = e.Key
		}
		page.Hits = append(page.Hits, search.Hit{
			ID:     id,
			Key:    e.Key,
			Score:  e.Score,
			Fields: e.Fields,
		})
	}
	if len(page.Hits) > 0 {
		page.Cursor = encodeCursor(offset + len(page.Hits))
	}
	return page, nil
}

func encodeCursor(offset int) search.Cursor {
	return search.Cursor(strconv.Itoa(offset))
}

func decodeCursor(c search.Cursor) (int, error) {
	if c == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(string(c))
	if err != nil || offset < 0 {
		return 0, domain.ErrInvalidQuery
	}
	return offset, nil
}
