package media

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/go-faster/errors"

	"wpsync/internal/logger"
	"wpsync/internal/models"
)

const defaultImageExt = ".jpg"

// Library is the media store the resolver reads from and uploads into.
type Library interface {
	FindByFilenameLike(ctx context.Context, name string) (string, bool, error)
	ResolveURLToID(ctx context.Context, rawURL string) (string, bool, error)
	StoreBytes(ctx context.Context, filename string, data []byte) (string, error)
	DetectMIME(ctx context.Context, stored string) (string, error)
	CreateAttachment(ctx context.Context, att *models.Attachment, stored string) (string, error)
	GenerateMetadata(ctx context.Context, id, stored string) (models.AttachmentMeta, error)
	UpdateMetadata(ctx context.Context, id string, meta models.AttachmentMeta) error
}

// Resolver turns remote image URLs into local attachment ids, downloading
// each image at most once. Images are matched by file name, not content.
type Resolver struct {
	library Library
	client  *http.Client
	logger  *logger.Logger
}

func NewResolver(library Library, timeout time.Duration, logger *logger.Logger) *Resolver {
	return NewResolverWithClient(library, &http.Client{Timeout: timeout}, logger)
}

func NewResolverWithClient(library Library, client *http.Client, logger *logger.Logger) *Resolver {
	return &Resolver{
		library: library,
		client:  client,
		logger:  logger,
	}
}

// Resolve returns the attachment id for imageURL. ok is false when there is
// no usable image; failures are logged, never returned.
func (r *Resolver) Resolve(ctx context.Context, imageURL string) (string, bool) {
	if imageURL == "" {
		return "", false
	}

	id, err := r.resolve(ctx, imageURL)
	if err != nil {
		r.logger.Error("Image resolution failed for %s: %v", imageURL, err)
		return "", false
	}
	return id, true
}

func (r *Resolver) resolve(ctx context.Context, imageURL string) (string, error) {
	name := urlBasename(imageURL)

	if name != "" {
		id, ok, err := r.library.FindByFilenameLike(ctx, name)
		if err != nil {
			return "", errors.Wrap(err, "find existing image")
		}
		if ok {
			r.logger.Debug("Reusing attachment %s for %s", id, imageURL)
			return id, nil
		}
	}

	id, ok, err := r.library.ResolveURLToID(ctx, imageURL)
	if err != nil {
		return "", errors.Wrap(err, "resolve image url")
	}
	if ok {
		return id, nil
	}

	data, err := r.download(ctx, imageURL)
	if err != nil {
		return "", err
	}

	filename := name
	if filename == "" {
		filename = "image"
	}
	if path.Ext(filename) == "" {
		filename += defaultImageExt
	}

	return r.upload(ctx, imageURL, filename, data)
}

func (r *Resolver) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, &ImageFetchError{URL: imageURL, Err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &ImageFetchError{URL: imageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ImageFetchError{URL: imageURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ImageFetchError{URL: imageURL, Err: err}
	}
	return data, nil
}

func (r *Resolver) upload(ctx context.Context, imageURL, filename string, data []byte) (string, error) {
	stored, err := r.library.StoreBytes(ctx, filename, data)
	if err != nil {
		return "", &ImageUploadError{URL: imageURL, Err: err}
	}

	mimeType, err := r.library.DetectMIME(ctx, stored)
	if err != nil {
		return "", &ImageUploadError{URL: imageURL, Err: err}
	}

	id, err := r.library.CreateAttachment(ctx, &models.Attachment{
		SourceURL: imageURL,
		MimeType:  mimeType,
	}, stored)
	if err != nil {
		return "", &ImageUploadError{URL: imageURL, Err: err}
	}

	meta, err := r.library.GenerateMetadata(ctx, id, stored)
	if err != nil {
		r.logger.Warn("Attachment %s created without metadata: %v", id, err)
		return id, nil
	}
	if err := r.library.UpdateMetadata(ctx, id, meta); err != nil {
		r.logger.Warn("Attachment %s metadata not saved: %v", id, err)
	}

	r.logger.Info("Stored image %s as attachment %s (%s)", imageURL, id, stored)
	return id, nil
}

// urlBasename is the last path segment of the URL, without query or fragment.
func urlBasename(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
