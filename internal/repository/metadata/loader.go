package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/openwebindex/searchd/internal/domain/metadata"
)

// Load reads every *.parquet file in dir into a catalog. The index name is
// the file basename without the .parquet extension. A file that fails to
// load is logged and skipped so one bad file does not take the whole
// catalog down.
func Load(dir string, logger *zap.Logger) (*Catalog, error) {
	pattern := filepath.Join(dir, "*.parquet")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob parquet files: %w", err)
	}
	sort.Strings(files)

	cat := &Catalog{
		groups: make(map[string][]metadata.Record, len(files)),
		byID:   make(map[string]map[string]metadata.Record, len(files)),
	}

	for _, path := range files {
		index := strings.TrimSuffix(filepath.Base(path), ".parquet")

		records, err := readFile(path)
		if err != nil {
			logger.Warn("Failed to load metadata file, skipping",
				zap.String("file", filepath.Base(path)), zap.Error(err))
			continue
		}

		cat.groups[index] = records
		ids := make(map[string]metadata.Record, len(records))
		for _, rec := range records {
			ids[rec.Identifier()] = rec
		}
		cat.byID[index] = ids

		logger.Info("Loaded metadata index",
			zap.String("index", index), zap.Int("records", len(records)))
	}

	return cat, nil
}

// recordColumns holds the leaf-level indexes of the columns we extract.
type recordColumns struct {
	recordID     int
	id           int
	url          int
	title        int
	plainText    int
	language     int
	warcDate     int
	urlScheme    int
	urlSubdomain int
	urlDomain    int
	urlSuffix    int
	urlPath      int
	urlQuery     int
	urlFragment  int
}

// resolveColumns finds leaf-level column indexes by name.
func resolveColumns(pf *parquet.File) recordColumns {
	cols := recordColumns{
		recordID: -1, id: -1, url: -1, title: -1, plainText: -1,
		language: -1, warcDate: -1, urlScheme: -1, urlSubdomain: -1,
		urlDomain: -1, urlSuffix: -1, urlPath: -1, urlQuery: -1,
		urlFragment: -1,
	}
	for i, path := range pf.Schema().Columns() {
		if len(path) == 0 {
			continue
		}
		switch path[0] {
		case "record_id":
			cols.recordID = i
		case "id":
			cols.id = i
		case "url":
			cols.url = i
		case "title":
			cols.title = i
		case "plain_text":
			cols.plainText = i
		case "language":
			cols.language = i
		case "warc_date":
			cols.warcDate = i
		case "url_scheme":
			cols.urlScheme = i
		case "url_subdomain":
			cols.urlSubdomain = i
		case "url_domain":
			cols.urlDomain = i
		case "url_suffix":
			cols.urlSuffix = i
		case "url_path":
			cols.urlPath = i
		case "url_query":
			cols.urlQuery = i
		case "url_fragment":
			cols.urlFragment = i
		}
	}
	return cols
}

func readFile(path string) ([]metadata.Record, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	cols := resolveColumns(pf)

	// The record_id column marks the URL schema; files without it carry
	// the component schema keyed by the opaque id column.
	schema := metadata.SchemaComponents
	if cols.recordID >= 0 {
		schema = metadata.SchemaURL
	}

	var records []metadata.Record
	for _, rg := range pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, 1000)

		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				records = append(records, rowToRecord(buf[i], cols, schema))
			}

			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, fmt.Errorf("read rows: %w", readErr)
			}
		}
	}

	return records, nil
}

// rowToRecord extracts a metadata record from a generic parquet row.
func rowToRecord(row parquet.Row, cols recordColumns, schema metadata.Schema) metadata.Record {
	rec := metadata.Record{Schema: schema}

	for _, v := range row {
		if v.IsNull() {
			continue
		}
		switch v.Column() {
		case cols.recordID:
			rec.RecordID = v.String()
		case cols.id:
			rec.ID = v.String()
		case cols.url:
			rec.URL = v.String()
		case cols.title:
			rec.Title = v.String()
		case cols.plainText:
			rec.PlainText = v.String()
		case cols.language:
			rec.Language = v.String()
		case cols.warcDate:
			if schema == metadata.SchemaURL {
				rec.WARCDate = v.String()
			} else {
				rec.WARCDateEpoch = v.Int64()
			}
		case cols.urlScheme:
			rec.URLScheme = v.String()
		case cols.urlSubdomain:
			rec.URLSubdomain = v.String()
		case cols.urlDomain:
			rec.URLDomain = v.String()
		case cols.urlSuffix:
			rec.URLSuffix = v.String()
		case cols.urlPath:
			rec.URLPath = v.String()
		case cols.urlQuery:
			rec.URLQuery = v.String()
		case cols.urlFragment:
			rec.URLFragment = v.String()
		}
	}

	return rec
}
