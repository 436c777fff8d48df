package database

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"wpsync/internal/models"
)

type AttachmentStore struct {
	db *gorm.DB
}

func NewAttachmentStore(db *gorm.DB) *AttachmentStore {
	return &AttachmentStore{db: db}
}

// FindByFileLike returns the first attachment whose stored file contains name.
func (s *AttachmentStore) FindByFileLike(ctx context.Context, name string) (string, bool, error) {
	return s.firstID(ctx, "file LIKE ? ESCAPE '\\'", "%"+escapeLike(name)+"%")
}

func (s *AttachmentStore) FindByFile(ctx context.Context, file string) (string, bool, error) {
	return s.firstID(ctx, "file = ?", file)
}

func (s *AttachmentStore) FindBySourceURL(ctx context.Context, url string) (string, bool, error) {
	return s.firstID(ctx, "source_url = ?", url)
}

func (s *AttachmentStore) firstID(ctx context.Context, where string, arg string) (string, bool, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Attachment{}).
		Where(where, arg).
		Order("created_at, id").
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", false, errors.Wrap(err, "find attachment")
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

func (s *AttachmentStore) Get(ctx context.Context, id string) (*models.Attachment, error) {
	var a models.Attachment
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(notFound(err), "get attachment %s", id)
	}
	return &a, nil
}

func (s *AttachmentStore) Create(ctx context.Context, a *models.Attachment) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return writeError("create attachment", a.File, err)
	}
	return nil
}

func (s *AttachmentStore) UpdateMetadata(ctx context.Context, id string, meta models.AttachmentMeta) error {
	res := s.db.WithContext(ctx).Model(&models.Attachment{}).
		Where("id = ?", id).
		Select("metadata").
		Updates(&models.Attachment{Metadata: meta})
	if res.Error != nil {
		return writeError("update attachment metadata", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &StoreWriteError{Op: "update attachment metadata", Key: id, Err: ErrNotFound}
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
