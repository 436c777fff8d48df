package database

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpsync/internal/models"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New("sqlite://:memory:", "error")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestProductStoreSaveAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewProductStore(newTestDB(t).DB)

	qty := 3
	p := &models.Product{
		SKU:           "A1",
		Name:          "Lamp",
		RegularPrice:  decimal.NewNullDecimal(decimal.RequireFromString("19.99")),
		StockQuantity: &qty,
		Status:        models.ProductStatusPublished,
	}
	require.NoError(t, store.Save(ctx, p))
	require.NotEmpty(t, p.ID)

	id, ok, err := store.FindBySKU(ctx, "A1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p.ID, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Name)
	assert.True(t, got.RegularPrice.Valid)
	assert.Equal(t, "19.99", got.RegularPrice.Decimal.StringFixed(2))
	require.NotNil(t, got.StockQuantity)
	assert.Equal(t, 3, *got.StockQuantity)

	_, ok, err = store.FindBySKU(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductStoreGetMissing(t *testing.T) {
	store := NewProductStore(newTestDB(t).DB)

	_, err := store.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProductStoreDuplicateSKU(t *testing.T) {
	ctx := context.Background()
	store := NewProductStore(newTestDB(t).DB)

	require.NoError(t, store.Save(ctx, &models.Product{SKU: "DUP"}))
	err := store.Save(ctx, &models.Product{SKU: "DUP"})
	require.Error(t, err)

	var writeErr *StoreWriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "DUP", writeErr.Key)
	assert.True(t, errors.Is(err, ErrDuplicateSKU))
}

func TestProductStoreListIDsFilters(t *testing.T) {
	ctx := context.Background()
	store := NewProductStore(newTestDB(t).DB)

	require.NoError(t, store.Save(ctx, &models.Product{SKU: "P1", Name: "Red chair", Status: models.ProductStatusPublished}))
	require.NoError(t, store.Save(ctx, &models.Product{SKU: "P2", Name: "Blue chair", Status: models.ProductStatusDraft}))
	require.NoError(t, store.Save(ctx, &models.Product{SKU: "P3", Name: "Table", Status: models.ProductStatusPublished}))

	all, err := store.ListIDs(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	published, err := store.ListIDs(ctx, models.ProductFilter{Status: models.ProductStatusPublished})
	require.NoError(t, err)
	assert.Len(t, published, 2)

	chairs, total, err := store.List(ctx, models.ProductFilter{Search: "chair", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, chairs, 1)
	assert.EqualValues(t, 2, total)

	underscore, _, err := store.List(ctx, models.ProductFilter{Search: "_"})
	require.NoError(t, err)
	assert.Empty(t, underscore)
}

func TestAttachmentStoreLookups(t *testing.T) {
	ctx := context.Background()
	store := NewAttachmentStore(newTestDB(t).DB)

	a := &models.Attachment{File: "2026/10/pic.png", SourceURL: "http://x/pic.png", MimeType: "image/png"}
	require.NoError(t, store.Create(ctx, a))
	require.NotEmpty(t, a.ID)

	id, ok, err := store.FindByFileLike(ctx, "pic.png")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.ID, id)

	_, ok, err = store.FindByFileLike(ctx, "pic%")
	require.NoError(t, err)
	assert.False(t, ok)

	id, ok, err = store.FindBySourceURL(ctx, "http://x/pic.png")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.ID, id)

	meta := models.AttachmentMeta{Width: 10, Height: 20, File: a.File, Filesize: 99}
	require.NoError(t, store.UpdateMetadata(ctx, a.ID, meta))

	got, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Metadata.Width)
	assert.EqualValues(t, 99, got.Metadata.Filesize)

	err = store.UpdateMetadata(ctx, "missing", meta)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRunStoreRecent(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore(newTestDB(t).DB)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	run := &models.SyncRun{Kind: models.SyncKindSync, Status: models.SyncRunStatusRunning}
	require.NoError(t, store.Create(ctx, run))
	run.Status = models.SyncRunStatusCompleted
	run.Created = 4
	require.NoError(t, store.Save(ctx, run))

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.SyncRunStatusCompleted, runs[0].Status)
	assert.Equal(t, 4, runs[0].Created)
}
