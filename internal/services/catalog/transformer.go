package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"wpsync/internal/models"
)

// ImageResolver turns an image URL into a local attachment id.
type ImageResolver interface {
	Resolve(ctx context.Context, imageURL string) (string, bool)
}

// ProductFields is the local field set mapped from one remote record.
// Nil fields were absent (or unusable) and must be left untouched.
type ProductFields struct {
	SKU           string
	Name          *string
	Description   *string
	RegularPrice  *decimal.Decimal
	StockQuantity *int
	ImageID       *string
}

type Transformer struct {
	images ImageResolver
}

func NewTransformer(images ImageResolver) *Transformer {
	return &Transformer{images: images}
}

// Fields maps a remote record to local fields, resolving its picture.
func (t *Transformer) Fields(ctx context.Context, remote RemoteProduct) ProductFields {
	fields := ProductFields{
		SKU:           remote.SKU,
		Name:          remote.Name,
		Description:   remote.Description,
		StockQuantity: remote.InStock,
	}

	if remote.Price != nil {
		if price, ok := ParsePrice(*remote.Price); ok {
			fields.RegularPrice = &price
		}
	}

	if remote.Picture != nil && *remote.Picture != "" && t.images != nil {
		if id, ok := t.images.Resolve(ctx, *remote.Picture); ok {
			fields.ImageID = &id
		}
	}

	return fields
}

// NewProduct builds a product that has never been seen locally.
// New products are always published, visible and stock managed.
func (t *Transformer) NewProduct(fields ProductFields) *models.Product {
	p := &models.Product{SKU: fields.SKU}
	fields.Apply(p)
	p.Status = models.ProductStatusPublished
	p.CatalogVisibility = models.VisibilityVisible
	p.ManageStock = true
	return p
}

// ApplyUpdate copies fields onto an existing product and republishes it,
// overriding any manual draft state.
func (t *Transformer) ApplyUpdate(p *models.Product, fields ProductFields) {
	fields.Apply(p)
	p.Status = models.ProductStatusPublished
}

// Apply sets every present field on p. SKU is never touched.
func (f ProductFields) Apply(p *models.Product) {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.RegularPrice != nil {
		p.RegularPrice = decimal.NewNullDecimal(*f.RegularPrice)
	}
	if f.StockQuantity != nil {
		qty := *f.StockQuantity
		p.StockQuantity = &qty
	}
	if f.ImageID != nil {
		id := *f.ImageID
		p.ImageID = &id
	}
}

// ParsePrice reads a price such as "$19.99" or "19.99".
func ParsePrice(raw string) (decimal.Decimal, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "$")
	if s == "" {
		return decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return price, true
}
