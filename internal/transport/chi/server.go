// Package chi exposes the HTTP API over a go-chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/promptdex/promptdex/internal/domain"
	"github.com/promptdex/promptdex/internal/domain/search/algorithm"
	"github.com/promptdex/promptdex/internal/domain/search/query"
	"github.com/promptdex/promptdex/internal/metrics"
	healthuc "github.com/promptdex/promptdex/internal/usecase/health"
	promptuc "github.com/promptdex/promptdex/internal/usecase/prompt"
	searchuc "github.com/promptdex/promptdex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	search  *searchuc.Service
	prompts *promptuc.Service
	health  *healthuc.Service
	logger  *zap.Logger

	defaultMinConfidence float64
	errorHandlers        []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	prompts *promptuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		prompts: prompts,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeEmptyQuery),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidPrompt, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
	}
	return s
}

// WithMinConfidence sets the configured default confidence threshold applied
// to requests that omit min_confidence.
func (s *Server) WithMinConfidence(v float64) *Server {
	if v > 0 && v <= 1 {
		s.defaultMinConfidence = v
	}
	return s
}

// Mount registers all routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Route("/prompts", func(r chi.Router) {
			r.Post("/", s.CreatePrompt)
			r.Get("/", s.ListPrompts)
			r.Get("/{id}", s.GetPrompt)
			r.Delete("/{id}", s.DeletePrompt)
		})
	})
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	minConfidence := req.MinConfidence
	if minConfidence == 0 {
		minConfidence = s.defaultMinConfidence
	}
	enableCache := true
	if req.EnableCache != nil {
		enableCache = *req.EnableCache
	}

	q, err := query.New(
		req.Query,
		algorithm.Algorithm(req.Algorithm),
		req.Category,
		req.Tags,
		req.MaxResults,
		minConfidence,
		query.Order(req.SortBy),
		enableCache,
	)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(req.Algorithm, "rejected").Inc()
		s.handleDomainError(w, err)
		return
	}

	resp := s.search.Search(r.Context(), &q)

	items := make([]SearchResultItem, 0, len(resp.Results))
	for i := range resp.Results {
		items = append(items, resultToDTO(&resp.Results[i]))
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Success:    true,
		Results:    items,
		TotalFound: resp.TotalFound,
		FromCache:  resp.FromCache,
		TookMs:     resp.TookMs,
		Degraded:   resp.Degraded,
	})
}

// CreatePrompt handles POST /v1/prompts.
func (s *Server) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	var req CreatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	created, err := s.prompts.Create(r.Context(),
		req.Name, req.Description, req.Category, req.Tags, messagesFromDTO(req.Messages))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, promptToDTO(&created))
}

// GetPrompt handles GET /v1/prompts/{id}.
func (s *Server) GetPrompt(w http.ResponseWriter, r *http.Request) {
	p, err := s.prompts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promptToDTO(&p))
}

// DeletePrompt handles DELETE /v1/prompts/{id}.
func (s *Server) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	if err := s.prompts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPrompts handles GET /v1/prompts.
func (s *Server) ListPrompts(w http.ResponseWriter, r *http.Request) {
	list, err := s.prompts.List(r.Context(), 0)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]PromptResponse, 0, len(list))
	for i := range list {
		items = append(items, promptToDTO(&list[i]))
	}
	writeJSON(w, http.StatusOK, PromptListResponse{Items: items, Total: len(items)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrInvalidQuery,
		domain.ErrInvalidPrompt,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
