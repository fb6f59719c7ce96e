// Package chi exposes the catalog over HTTP with the chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product/patch"
	"github.com/kailas-cloud/prodex/internal/logger"
	batchuc "github.com/kailas-cloud/prodex/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
)

// maxBodyBytes caps request bodies; batch bodies are the largest.
const maxBodyBytes = 8 << 20

// Services groups the use cases behind the HTTP API.
type Services struct {
	Products ProductService
	Search   Ranker
	Batch    BatchService
	Suggest  Suggester
	Health   HealthChecker
}

// Server implements the HTTP handlers.
type Server struct {
	svc           Services
	limits        PageLimits
	version       string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, limits PageLimits, version string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if limits.Default <= 0 {
		limits.Default = 10
	}
	if limits.Max < limits.Default {
		limits.Max = limits.Default
	}
	return &Server{
		svc:           svc,
		limits:        limits,
		version:       version,
		logger:        log,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.SearchProducts)
		r.Post("/", s.CreateProduct)
		r.Get("/suggestions", s.SuggestProducts)
		r.Post("/batch", s.BatchUpsert)
		r.Post("/batch/delete", s.BatchDelete)
		r.Get("/{id}", s.GetProduct)
		r.Patch("/{id}", s.PatchProduct)
		r.Delete("/{id}", s.DeleteProduct)
	})
}

// Handler returns a bare router with the API mounted; middleware is the
// caller's concern.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

// SearchProducts handles GET /products.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	q, err := params.toQuery(s.limits)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.svc.Search.Rank(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResultToDTO(res))
}

// SuggestProducts handles GET /products/suggestions.
func (s *Server) SuggestProducts(w http.ResponseWriter, r *http.Request) {
	params, err := bindSuggestParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if params.Limit != nil && *params.Limit < 1 {
		s.handleDomainError(w, r, fmt.Errorf("limit must be at least 1: %w", domain.ErrInvalidQuery))
		return
	}

	res, err := s.svc.Suggest.Suggest(r.Context(), params.toRequest())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestionsToDTO(res))
}

// CreateProduct handles POST /products.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	p, err := s.svc.Products.Create(r.Context(), req.fields())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, productToDTO(p))
}

// GetProduct handles GET /products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productToDTO(p))
}

// PatchProduct handles PATCH /products/{id}.
func (s *Server) PatchProduct(w http.ResponseWriter, r *http.Request) {
	var req PatchProductRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	var tags []string
	if req.Tags != nil {
		tags = *req.Tags
	}
	pt, err := patch.New(
		req.Name, req.Description, req.Category, req.Location,
		req.Price, req.Stock, tags, req.Tags != nil,
	)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	p, err := s.svc.Products.Update(r.Context(), chi.URLParam(r, "id"), pt)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productToDTO(p))
}

// DeleteProduct handles DELETE /products/{id}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchUpsert handles POST /products/batch.
func (s *Server) BatchUpsert(w http.ResponseWriter, r *http.Request) {
	var req BatchUpsertRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "items must not be empty")
		return
	}

	items := make([]batchuc.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = batchuc.Item{ID: it.ID, Fields: it.fields()}
	}

	results, err := s.svc.Batch.Upsert(r.Context(), items)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchToDTO(results))
}

// BatchDelete handles POST /products/batch/delete.
func (s *Server) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "ids must not be empty")
		return
	}

	results, err := s.svc.Batch.Delete(r.Context(), req.IDs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchToDTO(results))
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())
	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthToDTO(report, s.version))
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// handleDomainError maps err through the sentinel handlers; anything else
// is logged and answered with 500.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log := logger.FromContext(r.Context())
	if errors.Is(err, context.Canceled) {
		log.Warn("request cancelled", zap.Error(err))
	} else {
		log.Error("request failed", zap.Error(err))
	}
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
