package search

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openwebindex/searchd/internal/domain/metadata"
	"github.com/openwebindex/searchd/internal/domain/search"
	"github.com/openwebindex/searchd/internal/logger"
)

// warcDateLayout is the capture-date format of URL-schema metadata files.
const warcDateLayout = "2006-01-02T15:04:05Z"

// assemble projects a matched metadata record into a result entry.
func (s *Service) assemble(ctx context.Context, rec metadata.Record, url string) search.Result {
	return search.Result{
		ID:          rec.Identifier(),
		Title:       strings.TrimSpace(rec.Title),
		TextSnippet: strings.TrimSpace(longestLine(rec.PlainText)),
		Language:    strings.TrimSpace(rec.Language),
		WARCDate:    s.warcDate(ctx, rec),
		WordCount:   len(strings.Fields(rec.PlainText)),
		URL:         url,
		Enriched:    true,
	}
}

// warcDate normalizes the capture date to an epoch-microseconds string.
// Component-schema records already store the epoch value; URL-schema records
// store a formatted string that is parsed here. An unparseable date is
// retained verbatim rather than dropping the result.
func (s *Service) warcDate(ctx context.Context, rec metadata.Record) string {
	if rec.Schema == metadata.SchemaComponents {
		return strconv.FormatInt(rec.WARCDateEpoch, 10)
	}

	t, err := time.Parse(warcDateLayout, rec.WARCDate)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to parse capture date",
			zap.String("warc_date", rec.WARCDate))
		return rec.WARCDate
	}
	return strconv.FormatInt(t.UnixMicro(), 10)
}

// longestLine returns the longest newline-delimited line of the text.
// Earlier lines win ties.
func longestLine(text string) string {
	longest := ""
	for _, line := range strings.Split(text, "\n") {
		if len(line) > len(longest) {
			longest = line
		}
	}
	return longest
}
