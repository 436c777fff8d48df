package media

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"

	"wpsync/internal/database"
	"wpsync/internal/models"
)

// Store is the media library: attachment records in the database and their
// bytes in Blobs, laid out as YYYY/MM/name.ext under the media root.
type Store struct {
	attachments *database.AttachmentStore
	blobs       Blobs
	baseURL     string
	now         func() time.Time
}

func NewStore(attachments *database.AttachmentStore, blobs Blobs, baseURL string) *Store {
	return &Store{
		attachments: attachments,
		blobs:       blobs,
		baseURL:     strings.TrimRight(baseURL, "/"),
		now:         time.Now,
	}
}

func (s *Store) FindByFilenameLike(ctx context.Context, name string) (string, bool, error) {
	return s.attachments.FindByFileLike(ctx, name)
}

// ResolveURLToID maps a public media URL back to its attachment, falling
// back to the URL the attachment was originally downloaded from.
func (s *Store) ResolveURLToID(ctx context.Context, rawURL string) (string, bool, error) {
	if s.baseURL != "" && strings.HasPrefix(rawURL, s.baseURL+"/") {
		file := strings.TrimPrefix(rawURL, s.baseURL+"/")
		if i := strings.IndexAny(file, "?#"); i >= 0 {
			file = file[:i]
		}
		if unescaped, err := url.PathUnescape(file); err == nil {
			file = unescaped
		}
		id, ok, err := s.attachments.FindByFile(ctx, file)
		if err != nil || ok {
			return id, ok, err
		}
	}
	return s.attachments.FindBySourceURL(ctx, rawURL)
}

// StoreBytes writes data under the current upload directory and returns the
// stored path. Existing names get a -N suffix.
func (s *Store) StoreBytes(ctx context.Context, filename string, data []byte) (string, error) {
	if !allowedExtension(filename) {
		return "", errors.Wrapf(ErrFileType, "store %q", filename)
	}

	dir := s.now().Format("2006/01")
	name, err := s.uniqueName(ctx, dir, filename)
	if err != nil {
		return "", err
	}
	if err := s.blobs.Write(ctx, name, data); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Store) uniqueName(ctx context.Context, dir, filename string) (string, error) {
	ext := path.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	candidate := path.Join(dir, filename)
	for i := 1; ; i++ {
		exists, err := s.blobs.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = path.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
	}
}

// DetectMIME sniffs the content of a stored file.
func (s *Store) DetectMIME(ctx context.Context, stored string) (string, error) {
	data, err := s.blobs.Read(ctx, stored)
	if err != nil {
		return "", err
	}
	return mimetype.Detect(data).String(), nil
}

func (s *Store) CreateAttachment(ctx context.Context, att *models.Attachment, stored string) (string, error) {
	att.File = stored
	if att.Title == "" {
		base := path.Base(stored)
		att.Title = strings.TrimSuffix(base, path.Ext(base))
	}
	if err := s.attachments.Create(ctx, att); err != nil {
		return "", err
	}
	return att.ID, nil
}

func (s *Store) GenerateMetadata(ctx context.Context, id, stored string) (models.AttachmentMeta, error) {
	data, err := s.blobs.Read(ctx, stored)
	if err != nil {
		return models.AttachmentMeta{}, errors.Wrapf(err, "generate metadata for %s", id)
	}
	return buildMetadata(stored, data, mimetype.Detect(data).String()), nil
}

func (s *Store) UpdateMetadata(ctx context.Context, id string, meta models.AttachmentMeta) error {
	return s.attachments.UpdateMetadata(ctx, id, meta)
}

// URL returns the public address of a stored file.
func (s *Store) URL(stored string) string {
	return s.baseURL + "/" + stored
}
