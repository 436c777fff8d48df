package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpsync/internal/config"
	"wpsync/internal/database"
	"wpsync/internal/logger"
	"wpsync/internal/models"
	"wpsync/internal/syncer"
	"wpsync/internal/worker/events"
)

type fakeProducts struct {
	products   []models.Product
	lastFilter models.ProductFilter
}

func (f *fakeProducts) List(_ context.Context, filter models.ProductFilter) ([]models.Product, int64, error) {
	f.lastFilter = filter
	return f.products, int64(len(f.products)), nil
}

func (f *fakeProducts) Get(_ context.Context, id string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, errors.Wrap(database.ErrNotFound, id)
}

type fakeAttachments map[string]models.Attachment

func (f fakeAttachments) Get(_ context.Context, id string) (*models.Attachment, error) {
	a, ok := f[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &a, nil
}

type fakeRuns []models.SyncRun

func (f fakeRuns) Recent(_ context.Context, limit int) ([]models.SyncRun, error) {
	if limit > len(f) {
		limit = len(f)
	}
	return f[:limit], nil
}

type fakePublisher struct {
	published []events.Event
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, event events.Event) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

type fixture struct {
	router    *gin.Engine
	products  *fakeProducts
	publisher *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		products: &fakeProducts{products: []models.Product{
			{ID: "p1", SKU: "A1", Name: "Lamp", Status: models.ProductStatusPublished},
			{ID: "p2", SKU: "B2", Name: "Desk", Status: models.ProductStatusDraft},
		}},
		publisher: &fakePublisher{},
	}
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cfg := &config.Config{Env: "test", MediaBackend: "memory"}
	srv := New(cfg, logger.Discard(), Deps{
		Products:    f.products,
		Attachments: fakeAttachments{"a1": {ID: "a1", File: "2026/01/lamp.png"}},
		Runs:        fakeRuns{{ID: "r1", Kind: models.SyncKindSync, Status: models.SyncRunStatusCompleted, StartedAt: started}},
		Publisher:   f.publisher,
		Running:     func() bool { return true },
		MediaURL:    func(file string) string { return "http://cdn/media/" + file },
	})
	f.router = srv.Router()
	return f
}

func (f *fixture) do(t *testing.T, method, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestListProducts(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/v1/products?status=draft&search=de&page=2&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 2)
	assert.Equal(t, models.ProductFilter{Status: models.ProductStatusDraft, Search: "de", Offset: 5, Limit: 5}, f.products.lastFilter)

	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 2, pagination["page"])
	assert.EqualValues(t, 2, pagination["total"])
}

func TestListProductsRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/products?status=trash")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/v1/products/p1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A1", body["data"].(map[string]interface{})["sku"])

	rec, _ = f.do(t, http.MethodGet, "/api/v1/products/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAttachment(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/v1/attachments/a1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://cdn/media/2026/01/lamp.png", body["url"])

	rec, _ = f.do(t, http.MethodGet, "/api/v1/attachments/zzz")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTriggerSync(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/api/v1/sync")
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.EventSyncRequested, f.publisher.published[0].Type)
}

func TestTriggerImport(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/api/v1/sync/import?offset=4000")
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.EventImportRequested, f.publisher.published[0].Type)
	assert.Equal(t, 4000, f.publisher.published[0].Offset)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/sync/import?offset=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerWhileRunning(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = syncer.ErrRunInProgress

	rec, _ := f.do(t, http.MethodPost, "/api/v1/sync")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSyncStatusAndRuns(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/v1/sync/status")
	require.Equal(t, http.StatusOK, rec.Code)
	status := body["data"].(map[string]interface{})
	assert.Equal(t, true, status["running"])
	assert.Equal(t, "r1", status["last_run"].(map[string]interface{})["id"])

	rec, body = f.do(t, http.MethodGet, "/api/v1/sync/runs?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sync", nil)
	req.Header.Set("Origin", "http://admin.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, f.publisher.published)
}
