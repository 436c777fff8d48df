package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID                string              `json:"id" gorm:"type:varchar(36);primaryKey"`
	SKU               string              `json:"sku" gorm:"uniqueIndex;not null"`
	Name              string              `json:"name"`
	Description       string              `json:"description" gorm:"type:text"`
	RegularPrice      decimal.NullDecimal `json:"regular_price" gorm:"type:decimal(10,2)"`
	StockQuantity     *int                `json:"stock_quantity"`
	ManageStock       bool                `json:"manage_stock" gorm:"default:false"`
	ImageID           *string             `json:"image_id" gorm:"type:varchar(36)"`
	Status            ProductStatus       `json:"status" gorm:"index;default:draft"`
	CatalogVisibility CatalogVisibility   `json:"catalog_visibility" gorm:"default:visible"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
)

type CatalogVisibility string

const (
	VisibilityVisible CatalogVisibility = "visible"
	VisibilityCatalog CatalogVisibility = "catalog"
	VisibilitySearch  CatalogVisibility = "search"
	VisibilityHidden  CatalogVisibility = "hidden"
)

// ProductFilter narrows a product listing. Zero value matches everything.
type ProductFilter struct {
	Status ProductStatus
	Search string
	Offset int
	Limit  int
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
