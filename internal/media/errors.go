package media

import (
	"fmt"

	"github.com/go-faster/errors"
)

var ErrFileType = errors.New("file type is not allowed")

// ImageFetchError means the source image could not be downloaded.
type ImageFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ImageFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("image download failed for %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("image download failed for %s: status %d", e.URL, e.StatusCode)
}

func (e *ImageFetchError) Unwrap() error {
	return e.Err
}

// ImageUploadError means the downloaded image could not be stored or registered.
type ImageUploadError struct {
	URL string
	Err error
}

func (e *ImageUploadError) Error() string {
	return fmt.Sprintf("image upload failed for %s: %v", e.URL, e.Err)
}

func (e *ImageUploadError) Unwrap() error {
	return e.Err
}
