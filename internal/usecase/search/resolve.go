package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/openwebindex/searchd/internal/domain/metadata"
	"github.com/openwebindex/searchd/internal/domain/search"
	"github.com/openwebindex/searchd/internal/logger"
)

// resolve joins one engine hit against the metadata catalog. A hit carrying
// a URL identifier is matched by URL equality within a semantically ranked
// candidate window; an opaque identifier is a direct catalog lookup. A hit
// may resolve to zero results (dropped) or, for URL joins, several.
func (s *Service) resolve(ctx context.Context, req *search.Request, hit search.Hit) []search.Result {
	if strings.HasPrefix(hit.ID, "http") {
		return s.resolveByURL(ctx, req, hit)
	}
	return s.resolveByID(ctx, req, hit)
}

func (s *Service) resolveByURL(ctx context.Context, req *search.Request, hit search.Hit) []search.Result {
	records := s.meta.Records(req.Index)
	if len(records) > s.window {
		records = records[:s.window]
	}

	ranked := s.rankBySimilarity(ctx, req.Query, records)

	var out []search.Result
	for _, rec := range ranked {
		if metadata.SameURL(hit.ID, rec.FullURL()) && rec.InLanguage(req.Lang) {
			out = append(out, s.assemble(ctx, rec, hit.ID))
		}
	}
	if len(out) == 0 {
		logger.FromContext(ctx).Debug("Hit dropped: no matching metadata record",
			zap.String("index", req.Index), zap.String("url", hit.ID))
	}
	return out
}

func (s *Service) resolveByID(ctx context.Context, req *search.Request, hit search.Hit) []search.Result {
	rec, ok := s.meta.Record(req.Index, hit.ID)
	if !ok {
		logger.FromContext(ctx).Debug("Hit dropped: unknown metadata id",
			zap.String("index", req.Index), zap.String("id", hit.ID))
		return nil
	}
	if !rec.InLanguage(req.Lang) {
		return nil
	}
	return []search.Result{s.assemble(ctx, rec, rec.FullURL())}
}
