// Package search holds the request, hit and result model of the
// result assembly pipeline.
package search

import (
	"strings"

	"github.com/openwebindex/searchd/internal/domain"
)

// Ranking selects the final scalar re-rank order.
type Ranking string

const (
	// RankingNone preserves accumulation order.
	RankingNone Ranking = ""
	// RankingAsc sorts by ascending word count.
	RankingAsc Ranking = "asc"
	// RankingDesc sorts by descending word count.
	RankingDesc Ranking = "desc"
)

// ParseRanking maps a raw ranking parameter to a Ranking.
// Unrecognized values fall back to RankingNone, matching the re-ranker
// contract of preserving accumulation order.
func ParseRanking(s string) Ranking {
	switch strings.ToLower(s) {
	case "asc":
		return RankingAsc
	case "desc":
		return RankingDesc
	default:
		return RankingNone
	}
}

// Request is a validated search request.
type Request struct {
	Query   string
	Index   string
	Lang    string
	Ranking Ranking
	Limit   int
}

// NewRequest validates the raw parameters and builds a Request.
func NewRequest(query, index, lang, ranking string, limit int) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, domain.ErrInvalidQuery
	}
	if limit <= 0 {
		return Request{}, domain.ErrInvalidLimit
	}
	return Request{
		Query:   query,
		Index:   index,
		Lang:    lang,
		Ranking: ParseRanking(ranking),
		Limit:   limit,
	}, nil
}
