package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"
)

// urlSchemaRow mirrors the crawler export keyed by record_id.
type urlSchemaRow struct {
	RecordID  string `parquet:"record_id"`
	URL       string `parquet:"url"`
	Title     string `parquet:"title"`
	PlainText string `parquet:"plain_text"`
	Language  string `parquet:"language"`
	WARCDate  string `parquet:"warc_date"`
}

// componentSchemaRow mirrors the export keyed by an opaque id with URL parts.
type componentSchemaRow struct {
	ID           string `parquet:"id"`
	Title        string `parquet:"title"`
	PlainText    string `parquet:"plain_text"`
	Language     string `parquet:"language"`
	WARCDate     int64  `parquet:"warc_date"`
	URLScheme    string `parquet:"url_scheme"`
	URLSubdomain string `parquet:"url_subdomain"`
	URLDomain    string `parquet:"url_domain"`
	URLSuffix    string `parquet:"url_suffix"`
	URLPath      string `parquet:"url_path"`
	URLQuery     string `parquet:"url_query"`
	URLFragment  string `parquet:"url_fragment"`
}

func writeParquet[T any](t *testing.T, path string, rows []T) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	w := parquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
}

func TestLoad_URLSchema(t *testing.T) {
	dir := t.TempDir()
	writeParquet(t, filepath.Join(dir, "demo-graz.parquet"), []urlSchemaRow{
		{
			RecordID:  "rec-1",
			URL:       "<http://example.com/page>",
			Title:     "Example Page",
			PlainText: "short\na much longer line of text\nend",
			Language:  "en",
			WARCDate:  "2022-03-14T09:26:53Z",
		},
		{
			RecordID: "rec-2",
			URL:      "http://example.org/",
			Title:    "Other",
			Language: "de",
		},
	})

	cat, err := Load(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cat.HasIndex("demo-graz") {
		t.Fatal("expected demo-graz index to be loaded")
	}
	if cat.Size("demo-graz") != 2 {
		t.Fatalf("expected 2 records, got %d", cat.Size("demo-graz"))
	}

	rec, ok := cat.Record("demo-graz", "rec-1")
	if !ok {
		t.Fatal("expected rec-1 to be indexed by identifier")
	}
	if rec.URL != "<http://example.com/page>" {
		t.Errorf("unexpected url %q", rec.URL)
	}
	if rec.FullURL() != "http://example.com/page" {
		t.Errorf("expected angle brackets stripped, got %q", rec.FullURL())
	}
	if rec.WARCDate != "2022-03-14T09:26:53Z" {
		t.Errorf("unexpected warc date %q", rec.WARCDate)
	}

	records := cat.Records("demo-graz")
	if records[0].RecordID != "rec-1" || records[1].RecordID != "rec-2" {
		t.Error("expected records in file order")
	}
}

func TestLoad_ComponentSchema(t *testing.T) {
	dir := t.TempDir()
	writeParquet(t, filepath.Join(dir, "owi-news.parquet"), []componentSchemaRow{
		{
			ID:           "doc-7",
			Title:        "News",
			PlainText:    "one two three",
			Language:     "en",
			WARCDate:     1647250013000000,
			URLScheme:    "https",
			URLSubdomain: "www",
			URLDomain:    "example",
			URLSuffix:    "com",
			URLPath:      "/news",
			URLQuery:     "p=1",
		},
	})

	cat, err := Load(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, ok := cat.Record("owi-news", "doc-7")
	if !ok {
		t.Fatal("expected doc-7 to be indexed by id")
	}
	if rec.WARCDateEpoch != 1647250013000000 {
		t.Errorf("unexpected epoch %d", rec.WARCDateEpoch)
	}
	if got := rec.FullURL(); got != "https://www.example.com/news?p=1" {
		t.Errorf("unexpected recomposed url %q", got)
	}
}

func TestLoad_SkipsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeParquet(t, filepath.Join(dir, "good.parquet"), []urlSchemaRow{
		{RecordID: "rec-1", URL: "http://a.example/", Title: "A", Language: "en"},
	})
	if err := os.WriteFile(filepath.Join(dir, "broken.parquet"), []byte("not parquet"), 0o600); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cat.HasIndex("good") {
		t.Error("expected good index to survive")
	}
	if cat.HasIndex("broken") {
		t.Error("expected broken file to be skipped")
	}
}

func TestLoad_EmptyDir(t *testing.T) {
	cat, err := Load(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Indexes()) != 0 {
		t.Errorf("expected no indexes, got %v", cat.Indexes())
	}
}
