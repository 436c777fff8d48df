package database

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"wpsync/internal/models"
)

// ProductStore is the gorm-backed local catalog.
type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) query(ctx context.Context, filter models.ProductFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + escapeLike(filter.Search) + "%"
		q = q.Where("name LIKE ? ESCAPE '\\' OR sku LIKE ? ESCAPE '\\'", like, like)
	}
	return q
}

// ListIDs returns the ids of every product matching filter, oldest first.
func (s *ProductStore) ListIDs(ctx context.Context, filter models.ProductFilter) ([]string, error) {
	var ids []string
	q := s.query(ctx, filter).Order("created_at, id")
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "list product ids")
	}
	return ids, nil
}

// List returns one page of products and the total count for filter.
func (s *ProductStore) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error) {
	var total int64
	if err := s.query(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	var products []models.Product
	q := s.query(ctx, filter).Order("created_at, id")
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	return products, total, nil
}

func (s *ProductStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count products")
	}
	return total, nil
}

func (s *ProductStore) Get(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(notFound(err), "get product %s", id)
	}
	return &p, nil
}

// FindBySKU reports the id of the product carrying sku.
func (s *ProductStore) FindBySKU(ctx context.Context, sku string) (string, bool, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("sku = ?", sku).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", false, errors.Wrapf(err, "find product by sku %s", sku)
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

// Save inserts p when it has no id yet and overwrites it otherwise.
func (s *ProductStore) Save(ctx context.Context, p *models.Product) error {
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return writeError("save product", p.SKU, err)
	}
	return nil
}
