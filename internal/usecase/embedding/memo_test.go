package embedding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/openwebindex/searchd/internal/domain"
)

type countingEmbedder struct {
	calls  atomic.Int64
	result domain.EmbeddingResult
	err    error
}

func (c *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	c.calls.Add(1)
	if c.err != nil {
		return domain.EmbeddingResult{}, c.err
	}
	return c.result, nil
}

func TestEmbed_MemoizesByText(t *testing.T) {
	inner := &countingEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2}}}
	m := New(inner)
	ctx := context.Background()

	for range 5 {
		result, err := m.Embed(ctx, "climate change")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Embedding[0] != 1 {
			t.Fatalf("unexpected vector: %v", result.Embedding)
		}
	}

	if got := inner.calls.Load(); got != 1 {
		t.Errorf("expected 1 provider call for repeated text, got %d", got)
	}

	if _, err := m.Embed(ctx, "other text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("expected 2 provider calls for distinct texts, got %d", got)
	}
}

func TestEmbed_DoesNotMemoizeErrors(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("provider down")}
	m := New(inner)
	ctx := context.Background()

	if _, err := m.Embed(ctx, "q"); err == nil {
		t.Fatal("expected error")
	}

	// Provider recovers; the failed text must be retried.
	inner.err = nil
	inner.result = domain.EmbeddingResult{Embedding: []float32{3}}

	result, err := m.Embed(ctx, "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embedding[0] != 3 {
		t.Fatalf("unexpected vector: %v", result.Embedding)
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("expected 2 provider calls, got %d", got)
	}
}

func TestEmbed_CollapsesConcurrentCalls(t *testing.T) {
	inner := &countingEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	m := New(inner)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Embed(ctx, "same text"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	// Concurrent callers may race past the memo check, but singleflight
	// keeps the provider calls well below the caller count.
	if got := inner.calls.Load(); got > 2 {
		t.Errorf("expected collapsed provider calls, got %d", got)
	}
}

func TestEmbed_MaxEntriesCap(t *testing.T) {
	inner := &countingEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	m := New(inner, WithMaxEntries(2))
	ctx := context.Background()

	for _, text := range []string{"a", "b", "c"} {
		if _, err := m.Embed(ctx, text); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := m.Len(); got != 2 {
		t.Errorf("expected memo capped at 2, got %d", got)
	}

	// The uncached text still embeds, hitting the provider again.
	before := inner.calls.Load()
	if _, err := m.Embed(ctx, "c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls.Load() != before+1 {
		t.Error("expected provider call for text beyond the cap")
	}
}
