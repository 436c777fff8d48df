package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"wpsync/internal/models"
)

type sizeSpec struct {
	name   string
	width  int
	height int
	crop   bool
}

var imageSizes = []sizeSpec{
	{name: "thumbnail", width: 150, height: 150, crop: true},
	{name: "medium", width: 300, height: 300},
	{name: "medium_large", width: 768},
	{name: "large", width: 1024, height: 1024},
}

// allowedExtensions maps permitted upload extensions to their MIME type.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jpe":  "image/jpeg",
	".gif":  "image/gif",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".ico":  "image/x-icon",
	".webp": "image/webp",
}

func allowedExtension(name string) bool {
	_, ok := allowedExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

// buildMetadata describes the stored file and the size variants derived
// from its dimensions. Undecodable images still get file and size info.
func buildMetadata(file string, data []byte, mimeType string) models.AttachmentMeta {
	meta := models.AttachmentMeta{
		File:     file,
		Filesize: int64(len(data)),
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return meta
	}
	meta.Width = cfg.Width
	meta.Height = cfg.Height

	base := path.Base(file)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for _, spec := range imageSizes {
		w, h, ok := resizeDimensions(cfg.Width, cfg.Height, spec)
		if !ok {
			continue
		}
		if meta.Sizes == nil {
			meta.Sizes = make(map[string]models.ImageSize)
		}
		meta.Sizes[spec.name] = models.ImageSize{
			File:     fmt.Sprintf("%s-%dx%d%s", stem, w, h, ext),
			Width:    w,
			Height:   h,
			MimeType: mimeType,
		}
	}
	return meta
}

// resizeDimensions reports the variant size for an origW x origH image, or
// false when the original is already within bounds.
func resizeDimensions(origW, origH int, spec sizeSpec) (int, int, bool) {
	if origW <= 0 || origH <= 0 {
		return 0, 0, false
	}

	if spec.crop {
		if origW <= spec.width && origH <= spec.height {
			return 0, 0, false
		}
		return min(origW, spec.width), min(origH, spec.height), true
	}

	ratio := 1.0
	if spec.width > 0 {
		ratio = math.Min(ratio, float64(spec.width)/float64(origW))
	}
	if spec.height > 0 {
		ratio = math.Min(ratio, float64(spec.height)/float64(origH))
	}
	if ratio >= 1 {
		return 0, 0, false
	}

	w := max(1, int(math.Round(float64(origW)*ratio)))
	h := max(1, int(math.Round(float64(origH)*ratio)))
	return w, h, true
}
