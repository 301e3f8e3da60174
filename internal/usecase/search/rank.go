package search

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openwebindex/searchd/internal/domain/metadata"
	"github.com/openwebindex/searchd/internal/logger"
)

// embedConcurrency bounds the parallel provider calls per candidate window.
const embedConcurrency = 4

// rankBySimilarity orders the candidate records by cosine similarity of
// their text against the query, most similar first. The ordering is stable
// so equally similar records keep their catalog order.
func (s *Service) rankBySimilarity(ctx context.Context, query string, records []metadata.Record) []metadata.Record {
	if len(records) < 2 {
		return records
	}

	queryVec := s.embedFor(ctx, query)

	sims := make([]float64, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, rec := range records {
		g.Go(func() error {
			sims[i] = cosine(queryVec, s.embedFor(gctx, rec.PlainText))
			return nil
		})
	}
	_ = g.Wait()

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return sims[idx[a]] > sims[idx[b]]
	})

	ranked := make([]metadata.Record, len(records))
	for i, j := range idx {
		ranked[i] = records[j]
	}
	return ranked
}

// embedFor returns the embedding for the text, degrading to a degenerate
// single-zero vector on provider failure so ranking never fails a search.
func (s *Service) embedFor(ctx context.Context, text string) []float32 {
	result, err := s.embed.Embed(ctx, text)
	if err != nil {
		logger.FromContext(ctx).Warn("Embedding failed, ranking degrades", zap.Error(err))
		return []float32{0}
	}
	return result.Embedding
}

// cosine computes the cosine similarity of two vectors over their common
// prefix. Zero-norm input yields 0.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
