// Package metadata holds the read-only record model of the columnar
// metadata store and the join helpers used during result enrichment.
package metadata

import "strings"

// Schema identifies how records in a metadata file are keyed.
// A given search index uses exactly one schema.
type Schema int

const (
	// SchemaURL marks records carrying a pre-built URL, a record_id and a
	// string-encoded capture date. Hits join against these by URL.
	SchemaURL Schema = iota
	// SchemaComponents marks records carrying an opaque id, URL component
	// fields and a numeric epoch capture date. Hits join against these by ID.
	SchemaComponents
)

// Record is one row of the metadata store. Immutable once loaded.
type Record struct {
	Schema Schema

	RecordID string // SchemaURL
	ID       string // SchemaComponents

	Title     string
	PlainText string
	Language  string

	// WARCDate holds the string-encoded capture date (SchemaURL);
	// WARCDateEpoch holds the numeric epoch value (SchemaComponents).
	WARCDate      string
	WARCDateEpoch int64

	// URL is the pre-built record URL (SchemaURL), possibly still wrapped
	// in the crawler's angle brackets.
	URL string

	// URL components (SchemaComponents).
	URLScheme    string
	URLSubdomain string
	URLDomain    string
	URLSuffix    string
	URLPath      string
	URLQuery     string
	URLFragment  string
}

// Identifier returns the record's key field for the result projection.
func (r Record) Identifier() string {
	if r.Schema == SchemaURL {
		return r.RecordID
	}
	return r.ID
}

// FullURL returns the record's URL. For SchemaURL records the stored URL is
// used with the crawler's optional <...> wrapping stripped; for
// SchemaComponents records the URL is recomposed from its fields following
// RFC 3986 §5.2.2: scheme://[subdomain.]domain.suffix[path][?query][#fragment].
func (r Record) FullURL() string {
	if r.Schema == SchemaURL {
		u := r.URL
		u = strings.TrimPrefix(u, "<")
		u = strings.TrimSuffix(u, ">")
		return u
	}

	var b strings.Builder
	b.WriteString(r.URLScheme)
	b.WriteString("://")
	if r.URLSubdomain != "" {
		b.WriteString(r.URLSubdomain)
		b.WriteString(".")
	}
	b.WriteString(r.URLDomain)
	b.WriteString(".")
	b.WriteString(r.URLSuffix)
	if r.URLPath != "" {
		b.WriteString(r.URLPath)
	}
	if r.URLQuery != "" {
		b.WriteString("?")
		b.WriteString(r.URLQuery)
	}
	if r.URLFragment != "" {
		b.WriteString("#")
		b.WriteString(r.URLFragment)
	}
	return b.String()
}

// InLanguage reports whether the record passes the language filter.
// An empty filter matches everything; comparison is case-insensitive.
func (r Record) InLanguage(lang string) bool {
	return lang == "" || strings.EqualFold(r.Language, lang)
}

// SameURL compares an engine hit URL with a record URL, tolerating a single
// trailing slash on either side.
func SameURL(hitURL, recordURL string) bool {
	return hitURL == recordURL ||
		hitURL == recordURL+"/" ||
		recordURL == hitURL+"/"
}
