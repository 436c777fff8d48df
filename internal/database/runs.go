package database

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"wpsync/internal/models"
)

// RunStore keeps the history of sync and import runs.
type RunStore struct {
	db *gorm.DB
}

func NewRunStore(db *gorm.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Create(ctx context.Context, run *models.SyncRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return writeError("create sync run", string(run.Kind), err)
	}
	return nil
}

func (s *RunStore) Save(ctx context.Context, run *models.SyncRun) error {
	if err := s.db.WithContext(ctx).Save(run).Error; err != nil {
		return writeError("save sync run", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	var runs []models.SyncRun
	if err := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, errors.Wrap(err, "list sync runs")
	}
	return runs, nil
}

func (s *RunStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.SyncRun{}).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count sync runs")
	}
	return total, nil
}
