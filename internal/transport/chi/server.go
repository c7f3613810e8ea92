// Package chi exposes the HTTP API: listing ingest and retrieval, similar
// listing search, health and metrics.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hearthside/propsim/internal/domain"
	"github.com/hearthside/propsim/internal/domain/listing"
	"github.com/hearthside/propsim/internal/domain/search/mode"
	"github.com/hearthside/propsim/internal/metrics"
	healthuc "github.com/hearthside/propsim/internal/usecase/health"
	ingestuc "github.com/hearthside/propsim/internal/usecase/ingest"
	searchuc "github.com/hearthside/propsim/internal/usecase/search"
)

// Machine-readable error codes for clients.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeListingNotFound        = "listing_not_found"
	codeQueryListingNotFound   = "query_listing_not_found"
	codeVectorDimMismatch      = "vector_dim_mismatch"
	codeMissingVisualVector    = "missing_visual_vector"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeInternalError          = "internal_error"
)

// sentinelMapping associates a domain sentinel with its HTTP status and code.
type sentinelMapping struct {
	sentinel error
	status   int
	code     string
}

// Server routes HTTP requests to the use case services.
type Server struct {
	ingest    *ingestuc.Service
	search    *searchuc.Service
	health    *healthuc.Service
	logger    *zap.Logger
	sentinels []sentinelMapping
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		ingest: ingest,
		search: search,
		health: health,
		logger: logger,
		sentinels: []sentinelMapping{
			{domain.ErrQueryListingNotFound, http.StatusNotFound, codeQueryListingNotFound},
			{domain.ErrListingNotFound, http.StatusNotFound, codeListingNotFound},
			{domain.ErrUnknownSearchMode, http.StatusBadRequest, codeValidationFailed},
			{domain.ErrInvalidWeight, http.StatusBadRequest, codeValidationFailed},
			{domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch},
			{domain.ErrMissingVisualVector, http.StatusBadRequest, codeMissingVisualVector},
			{domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError},
		},
	}
}

// Routes mounts all API routes onto r.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1/listings/{id}", func(r chi.Router) {
		r.Put("/", s.UpsertListing)
		r.Get("/", s.GetListing)
		r.Delete("/", s.DeleteListing)
		r.Post("/similar", s.SearchSimilar)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// UpsertListing handles PUT /api/v1/listings/{id}.
func (s *Server) UpsertListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req upsertListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	l, err := listing.New(id, listingFieldsFromUpsert(req))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.ingest.Ingest(r.Context(), &l, req.VisualVector); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listingToResponse(&l))
}

// GetListing handles GET /api/v1/listings/{id}.
func (s *Server) GetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	l, err := s.ingest.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listingToResponse(&l))
}

// DeleteListing handles DELETE /api/v1/listings/{id}.
func (s *Server) DeleteListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.ingest.Remove(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchSimilar handles POST /api/v1/listings/{id}/similar.
func (s *Server) SearchSimilar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req := searchRequest{Mode: string(mode.Balanced)}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}
	if req.Mode == "" {
		req.Mode = string(mode.Balanced)
	}

	m := mode.Mode(req.Mode)
	if !m.IsValid() {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "unknown search mode: "+req.Mode)
		return
	}
	if req.TopK < 0 || req.TopK > searchuc.MaxTopK {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "top_k out of range")
		return
	}

	spec, err := filterSpecFromRequest(req.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	start := time.Now()
	matches, err := s.search.SearchSimilar(r.Context(), id, m, spec, req.TopK)
	metrics.SearchDuration.WithLabelValues(req.Mode).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(req.Mode, "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.SearchRequestsTotal.WithLabelValues(req.Mode, "success").Inc()

	writeJSON(w, http.StatusOK, matchesToResponse(matches))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
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
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func (s *Server) safeDomainMessage(err error) string {
	for _, m := range s.sentinels {
		if errors.Is(err, m.sentinel) {
			return m.sentinel.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := s.safeDomainMessage(err)
	for _, m := range s.sentinels {
		if errors.Is(err, m.sentinel) {
			s.logger.Warn("domain error", zap.Error(err))
			writeError(w, m.status, m.code, msg)
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
