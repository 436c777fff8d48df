package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpsync/internal/models"
)

type fakeImages struct {
	ids   map[string]string
	calls []string
}

func (f *fakeImages) Resolve(_ context.Context, imageURL string) (string, bool) {
	f.calls = append(f.calls, imageURL)
	id, ok := f.ids[imageURL]
	return id, ok
}

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"$19.99", "19.99", true},
		{"19.99", "19.99", true},
		{" $5 ", "5", true},
		{"$", "", false},
		{"", "", false},
		{"free", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePrice(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
			}
		})
	}
}

func TestFieldsMapsPresentValues(t *testing.T) {
	images := &fakeImages{ids: map[string]string{"http://x/pic.png": "img-7"}}
	tr := NewTransformer(images)

	fields := tr.Fields(context.Background(), RemoteProduct{
		SKU:         "A1",
		Name:        str("Lamp"),
		Description: str("Warm light"),
		Price:       str("$19.99"),
		Picture:     str("http://x/pic.png"),
		InStock:     num(3),
	})

	assert.Equal(t, "A1", fields.SKU)
	assert.Equal(t, "Lamp", *fields.Name)
	assert.Equal(t, "Warm light", *fields.Description)
	assert.Equal(t, "19.99", fields.RegularPrice.StringFixed(2))
	assert.Equal(t, 3, *fields.StockQuantity)
	require.NotNil(t, fields.ImageID)
	assert.Equal(t, "img-7", *fields.ImageID)
}

func TestFieldsLeavesAbsentValuesUnset(t *testing.T) {
	images := &fakeImages{}
	tr := NewTransformer(images)

	fields := tr.Fields(context.Background(), RemoteProduct{
		SKU:     "A1",
		Price:   str("n/a"),
		Picture: str(""),
	})

	assert.Nil(t, fields.Name)
	assert.Nil(t, fields.RegularPrice)
	assert.Nil(t, fields.ImageID)
	assert.Empty(t, images.calls)
}

func TestFieldsUnresolvedImageLeavesImageUnset(t *testing.T) {
	images := &fakeImages{}
	tr := NewTransformer(images)

	fields := tr.Fields(context.Background(), RemoteProduct{SKU: "A1", Picture: str("http://x/broken.png")})

	assert.Nil(t, fields.ImageID)
	assert.Equal(t, []string{"http://x/broken.png"}, images.calls)
}

func TestNewProductForcesPublishedVisibleManaged(t *testing.T) {
	tr := NewTransformer(nil)

	p := tr.NewProduct(ProductFields{SKU: "X1", Name: str("New")})

	assert.Equal(t, "X1", p.SKU)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, models.ProductStatusPublished, p.Status)
	assert.Equal(t, models.VisibilityVisible, p.CatalogVisibility)
	assert.True(t, p.ManageStock)
	assert.False(t, p.RegularPrice.Valid)
}

func TestApplyUpdateRepublishesAndKeepsUnsetFields(t *testing.T) {
	tr := NewTransformer(nil)
	image := "img-1"
	p := &models.Product{
		SKU:               "A1",
		Name:              "Old",
		Description:       "Keep me",
		RegularPrice:      decimal.NewNullDecimal(decimal.RequireFromString("1.00")),
		ImageID:           &image,
		Status:            models.ProductStatusDraft,
		CatalogVisibility: models.VisibilityHidden,
	}

	price := decimal.RequireFromString("2.50")
	tr.ApplyUpdate(p, ProductFields{SKU: "IGNORED", Name: str("New"), RegularPrice: &price})

	assert.Equal(t, "A1", p.SKU)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, "Keep me", p.Description)
	assert.Equal(t, "2.50", p.RegularPrice.Decimal.StringFixed(2))
	assert.Equal(t, "img-1", *p.ImageID)
	assert.Equal(t, models.ProductStatusPublished, p.Status)
	assert.Equal(t, models.VisibilityHidden, p.CatalogVisibility)
}
