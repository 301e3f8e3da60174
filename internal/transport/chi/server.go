// Package chi exposes the HTTP API: result search, health and metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openwebindex/searchd/internal/db"
	"github.com/openwebindex/searchd/internal/domain"
	"github.com/openwebindex/searchd/internal/domain/search"
	healthuc "github.com/openwebindex/searchd/internal/usecase/health"
)

// SearchService runs the result assembly pipeline.
type SearchService interface {
	Search(ctx context.Context, req *search.Request) ([]search.Result, error)
}

// HealthService aggregates component checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server implements the HTTP API.
type Server struct {
	search       SearchService
	health       HealthService
	defaultIndex string
	defaultLimit int
	logger       *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search SearchService,
	health HealthService,
	defaultIndex string,
	defaultLimit int,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:       search,
		health:       health,
		defaultIndex: defaultIndex,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/search", s.handleSearch)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// resultDTO is the wire projection of one result entry. Degraded-mode
// entries carry only the url.
type resultDTO struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	TextSnippet string `json:"textSnippet,omitempty"`
	Language    string `json:"language,omitempty"`
	WARCDate    string `json:"warcDate,omitempty"`
	WordCount   int    `json:"wordCount,omitempty"`
	URL         string `json:"url,omitempty"`
}

type searchResponse struct {
	Results []resultDTO `json:"results"`
}

// handleSearch handles GET /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := s.defaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			plainError(w, http.StatusBadRequest, "The limit must be a positive value")
			return
		}
		limit = n
	}

	index := q.Get("index")
	if index == "" {
		index = s.defaultIndex
	}

	req, err := search.NewRequest(q.Get("q"), index, q.Get("lang"), q.Get("ranking"), limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := searchResponse{Results: make([]resultDTO, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, resultDTO{
			ID:          res.ID,
			Title:       res.Title,
			TextSnippet: res.TextSnippet,
			Language:    res.Language,
			WARCDate:    res.WARCDate,
			WordCount:   res.WordCount,
			URL:         res.URL,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// writeDomainError maps domain errors to the API's plain-text error bodies.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrIndexNotFound):
		plainError(w, http.StatusNotFound, "The index could not be found")
	case errors.Is(err, domain.ErrInvalidLimit):
		plainError(w, http.StatusBadRequest, "The limit must be a positive value")
	case errors.Is(err, domain.ErrInvalidQuery):
		plainError(w, http.StatusBadRequest, "The query is missing or malformed")
	case errors.Is(err, db.ErrBadQuery):
		plainError(w, http.StatusBadRequest, "The query could not be parsed")
	default:
		s.logger.Error("Search failed", zap.Error(err))
		plainError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func plainError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
