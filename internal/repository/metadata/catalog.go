// Package metadata loads the per-index columnar metadata files into an
// in-memory catalog used for result enrichment.
package metadata

import (
	"github.com/openwebindex/searchd/internal/domain/metadata"
)

// Catalog holds the loaded metadata records grouped by index name.
// Immutable after Load; safe for concurrent reads.
type Catalog struct {
	// records per index, in file order. URL-schema joins scan this slice.
	groups map[string][]metadata.Record
	// id → record per index. Component-schema joins look up here.
	byID map[string]map[string]metadata.Record
}

// Records returns the records of the named index in load order.
// Returns nil when the index carries no metadata.
func (c *Catalog) Records(index string) []metadata.Record {
	return c.groups[index]
}

// Record looks up a record by its identifier within the named index.
func (c *Catalog) Record(index, id string) (metadata.Record, bool) {
	rec, ok := c.byID[index][id]
	return rec, ok
}

// HasIndex reports whether metadata was loaded for the named index.
func (c *Catalog) HasIndex(index string) bool {
	_, ok := c.groups[index]
	return ok
}

// Indexes returns the names of all indexes with loaded metadata.
func (c *Catalog) Indexes() []string {
	names := make([]string, 0, len(c.groups))
	for name := range c.groups {
		names = append(names, name)
	}
	return names
}

// Size returns the number of records loaded for the named index.
func (c *Catalog) Size(index string) int {
	return len(c.groups[index])
}
