// Package embedding holds the in-process memoization layer in front of the
// embedding provider. Query vectors and document vectors are requested over
// and over within and across searches, so one successful embed per distinct
// text is enough for the process lifetime.
package embedding

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/openwebindex/searchd/internal/domain"
	"github.com/openwebindex/searchd/internal/metrics"
)

// MemoizingEmbedder memoizes successful embeddings by the full text string.
// Failures are never memoized so a transient provider outage does not pin
// degenerate vectors in memory. Concurrent requests for the same text are
// collapsed into one provider call.
type MemoizingEmbedder struct {
	inner domain.Embedder

	mu    sync.RWMutex
	cache map[string][]float32

	group singleflight.Group

	// maxEntries caps the memo size; 0 means unbounded. At capacity new
	// vectors are still returned, just not stored.
	maxEntries int
}

// Option configures a MemoizingEmbedder.
type Option func(*MemoizingEmbedder)

// WithMaxEntries caps the number of memoized texts.
func WithMaxEntries(n int) Option {
	return func(m *MemoizingEmbedder) {
		m.maxEntries = n
	}
}

// New creates a memoizing decorator over the given embedder.
func New(inner domain.Embedder, opts ...Option) *MemoizingEmbedder {
	m := &MemoizingEmbedder{
		inner: inner,
		cache: make(map[string][]float32),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Embed implements domain.Embedder.
func (m *MemoizingEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if vec, ok := m.lookup(text); ok {
		metrics.EmbeddingCacheTotal.WithLabelValues("memo", "hit").Inc()
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	metrics.EmbeddingCacheTotal.WithLabelValues("memo", "miss").Inc()

	v, err, _ := m.group.Do(text, func() (any, error) {
		result, err := m.inner.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		m.store(text, result.Embedding)
		return result, nil
	})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}

	return v.(domain.EmbeddingResult), nil
}

// Len returns the number of memoized texts.
func (m *MemoizingEmbedder) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

func (m *MemoizingEmbedder) lookup(text string) ([]float32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vec, ok := m.cache[text]
	return vec, ok
}

func (m *MemoizingEmbedder) store(text string, vec []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxEntries > 0 && len(m.cache) >= m.maxEntries {
		if _, ok := m.cache[text]; !ok {
			return
		}
	}
	m.cache[text] = vec
}
