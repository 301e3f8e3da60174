package searchd

import "strconv"

// SearchOption configures a single search call.
type SearchOption interface {
	apply(*searchParams)
}

// optionFunc adapts a function to the SearchOption interface.
type optionFunc func(*searchParams)

func (f optionFunc) apply(p *searchParams) { f(p) }

type searchParams struct {
	index   string
	lang    string
	ranking Ranking
	limit   int
}

// WithIndex selects the index to search. The server default applies when unset.
func WithIndex(index string) SearchOption {
	return optionFunc(func(p *searchParams) {
		p.index = index
	})
}

// WithLanguage filters results to the given language (case-insensitive).
func WithLanguage(lang string) SearchOption {
	return optionFunc(func(p *searchParams) {
		p.lang = lang
	})
}

// WithRanking re-ranks results by word count in the given direction.
func WithRanking(r Ranking) SearchOption {
	return optionFunc(func(p *searchParams) {
		p.ranking = r
	})
}

// WithLimit caps the result count. The server default applies when unset.
func WithLimit(n int) SearchOption {
	return optionFunc(func(p *searchParams) {
		p.limit = n
	})
}

func (p *searchParams) query(q string) map[string]string {
	values := map[string]string{"q": q}
	if p.index != "" {
		values["index"] = p.index
	}
	if p.lang != "" {
		values["lang"] = p.lang
	}
	if p.ranking != "" {
		values["ranking"] = string(p.ranking)
	}
	if p.limit > 0 {
		values["limit"] = strconv.Itoa(p.limit)
	}
	return values
}
