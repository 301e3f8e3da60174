// Package searchd provides a Go client for the searchd full-text result
// assembly API.
//
//	client := searchd.New("http://localhost:8080")
//	results, err := client.Search(ctx, "climate change",
//	    searchd.WithIndex("owi-news"),
//	    searchd.WithLanguage("en"),
//	    searchd.WithRanking(searchd.RankingDesc),
//	    searchd.WithLimit(10),
//	)
package searchd
