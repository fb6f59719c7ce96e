package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func catalogRouter() chi.Router {
	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/health", ok)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", ok)
		r.Post("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
		r.Get("/suggestions", ok)
		r.Post("/batch", ok)
		r.Post("/batch/delete", ok)
		r.Get("/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })
		r.Patch("/{id}", ok)
		r.Delete("/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	})
	r.Get("/debug", ok)
	return r
}

func TestMiddleware_LabelsCatalogOperations(t *testing.T) {
	r := catalogRouter()

	tests := []struct {
		method, target string
		op, path       string
		status         string
	}{
		{"GET", "/health", "health", "/health", "200"},
		{"GET", "/products?searchTerm=lamp", "search", "/products", "200"},
		{"POST", "/products", "create", "/products", "201"},
		{"GET", "/products/suggestions?searchTerm=la", "suggest", "/products/suggestions", "200"},
		{"POST", "/products/batch", "batch_upsert", "/products/batch", "200"},
		{"POST", "/products/batch/delete", "batch_delete", "/products/batch/delete", "200"},
		{"GET", "/products/p-1", "get", "/products/{id}", "404"},
		{"PATCH", "/products/p-1", "update", "/products/{id}", "200"},
		{"DELETE", "/products/p-2", "delete", "/products/{id}", "204"},
		{"GET", "/debug", "other", "/debug", "200"},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.op, tc.method, tc.path, tc.status))

			req := httptest.NewRequest(tc.method, tc.target, http.NoBody)
			r.ServeHTTP(httptest.NewRecorder(), req)

			after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.op, tc.method, tc.path, tc.status))
			if after-before != 1 {
				t.Errorf("requests_total{%s %s %s} grew by %v, want 1", tc.op, tc.path, tc.status, after-before)
			}
		})
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := catalogRouter()

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("other", "GET", "unknown", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nope/42", http.NoBody))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("other", "GET", "unknown", "404"))

	if after-before != 1 {
		t.Errorf("unmatched requests grew by %v, want 1", after-before)
	}
}

func TestMiddleware_WithoutRouteContext(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("other", "GET", "unknown", "200"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/plain", http.NoBody))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("other", "GET", "unknown", "200"))

	if after-before != 1 {
		t.Errorf("requests grew by %v, want 1", after-before)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/", "/"},
		{"/products/", "/products"},
		{"/products/{id}", "/products/{id}"},
		{"/health", "/health"},
	}

	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestOperationFor(t *testing.T) {
	if got := operationFor("PUT", "/products/{id}"); got != "other" {
		t.Errorf("PUT /products/{id} = %q, want other", got)
	}
	if got := operationFor("GET", "/products"); got != "search" {
		t.Errorf("GET /products = %q, want search", got)
	}
}
