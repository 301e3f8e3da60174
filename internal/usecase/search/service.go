// Package search assembles the final result set: it pages hits out of the
// full-text engine, joins them against the metadata catalog and re-ranks
// the enriched results.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openwebindex/searchd/internal/domain"
	"github.com/openwebindex/searchd/internal/domain/search"
	"github.com/openwebindex/searchd/internal/logger"
)

// DefaultCandidateWindow bounds how many catalog records a URL-schema join
// considers per hit.
const DefaultCandidateWindow = 16

// Service handles result assembly over the engine, catalog and embedder.
type Service struct {
	engine Engine
	meta   Catalog
	embed  Embedder
	window int
}

// New creates a search service.
func New(engine Engine, meta Catalog, embed Embedder) *Service {
	return &Service{
		engine: engine,
		meta:   meta,
		embed:  embed,
		window: DefaultCandidateWindow,
	}
}

// WithCandidateWindow overrides the URL-join candidate window.
func (s *Service) WithCandidateWindow(n int) *Service {
	if n > 0 {
		s.window = n
	}
	return s
}

// Search runs the full pipeline for one request. Hits that fail the
// metadata join or the language filter are dropped and replaced by hits
// from further pages until the limit is filled or the engine runs dry.
// For an index without metadata the raw hits pass through unenriched.
func (s *Service) Search(ctx context.Context, req *search.Request) ([]search.Result, error) {
	log := logger.FromContext(ctx)

	if !s.engine.HasIndex(req.Index) {
		return nil, domain.ErrIndexNotFound
	}

	hasMeta := s.meta.HasIndex(req.Index)
	if !hasMeta {
		log.Info("No metadata for index, results will not be enriched",
			zap.String("index", req.Index))
	}

	out := make([]search.Result, 0, req.Limit)
	var cursor search.Cursor
	first := true

	for len(out) < req.Limit {
		var (
			page search.Page
			err  error
		)
		if first {
			page, err = s.engine.Search(ctx, req.Index, req.Query, req.Limit)
			first = false
		} else {
			page, err = s.engine.SearchAfter(ctx, req.Index, req.Query, cursor, req.Limit-len(out))
		}
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", req.Index, err)
		}
		if len(page.Hits) == 0 {
			break
		}
		cursor = page.Cursor

		for _, hit := range page.Hits {
			if !hasMeta {
				out = append(out, search.Unenriched(hit.ID))
				continue
			}
			out = append(out, s.resolve(ctx, req, hit)...)
		}
	}

	if len(out) > req.Limit {
		out = out[:req.Limit]
	}

	if hasMeta {
		reRank(out, req.Ranking)
	}

	return out, nil
}
