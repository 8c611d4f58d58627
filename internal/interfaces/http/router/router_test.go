package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"journal-cover-ai-api/internal/application/export"
	"journal-cover-ai-api/internal/application/layout"
	"journal-cover-ai-api/internal/application/pipeline"
	"journal-cover-ai-api/internal/application/port"
	"journal-cover-ai-api/internal/application/resolver"
	"journal-cover-ai-api/internal/application/session"
	"journal-cover-ai-api/internal/config"
	"journal-cover-ai-api/internal/domain/entity"
	"journal-cover-ai-api/internal/infrastructure/imaging"
	"journal-cover-ai-api/internal/infrastructure/persistence/memory"
	"journal-cover-ai-api/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBackend struct{}

func (stubBackend) EnsureModelAccess(entity.ImageModel) error { return nil }

func (stubBackend) GenerateText(context.Context, port.TextRequest) (string, error) {
	return "stub description", nil
}

func (stubBackend) GenerateImage(context.Context, port.ImageRequest) (port.ImageData, error) {
	return port.ImageData{MIMEType: "image/png", Data: []byte("stub")}, nil
}

func (stubBackend) ExtractArticle(context.Context, []byte) (entity.ArticleRecord, error) {
	return entity.ArticleRecord{}, nil
}

type stubDirectory struct{}

func (stubDirectory) Lookup(context.Context, string) (entity.ArticleRecord, error) {
	return entity.ArticleRecord{}, nil
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	store := memory.NewSessionStore(memory.Options{})
	backend := stubBackend{}

	compositor, err := imaging.NewCompositor()
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Name = "journal-cover-ai-api"
	cfg.App.Env = "test"

	handlers := RouterHandlers{
		Health:   handler.NewHealthHandler(store, backend, nil),
		Session:  handler.NewSessionHandler(session.NewService(store)),
		Resolve:  handler.NewResolveHandler(resolver.NewService(stubDirectory{}, backend)),
		Generate: handler.NewGenerateHandler(pipeline.NewService(store, backend)),
		Layout:   handler.NewLayoutHandler(layout.NewService(store)),
		Export:   handler.NewExportHandler(export.NewService(store, compositor, config.ExportConfig{})),
	}

	return NewWithDeps(cfg, handlers, nil)
}

func TestRouterServesSystemEndpoints(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/health", "/live"} {
		rec := httptest.NewRecorder()
		r.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /ready = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "session_store") {
		t.Errorf("readiness body missing session_store check: %s", rec.Body.String())
	}
}

func TestRouterRegistersSessionRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /v1/sessions = %d, want 201", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /v1/unknown = %d, want 404", rec.Code)
	}
}

func TestRouterEchoesRequestID(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	r.Engine().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}
}
