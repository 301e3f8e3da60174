package search

import (
	"sort"

	"github.com/openwebindex/searchd/internal/domain/search"
)

// reRank orders enriched results by word count in the requested direction.
// The sort is stable so equal word counts keep their assembly order; an
// unset ranking leaves the order untouched.
func reRank(results []search.Result, ranking search.Ranking) {
	switch ranking {
	case search.RankingAsc:
		sort.SliceStable(results, func(a, b int) bool {
			return results[a].WordCount < results[b].WordCount
		})
	case search.RankingDesc:
		sort.SliceStable(results, func(a, b int) bool {
			return results[a].WordCount > results[b].WordCount
		})
	}
}
