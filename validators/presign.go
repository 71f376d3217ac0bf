// Package validators contains checks requests have to pass before any work is
// done for them
package validators

import (
	"errors"
	"net/http"
	"slices"

	"github.com/spf13/viper"
)

var (
	ErrFormatUnsupported = errors.New("this format can't be played in a browser. On iPhone set Settings > Camera > Formats to \"Most Compatible\" and re-record, or export the file as MP4/JPEG before uploading")
	ErrTypeNotAllowed    = errors.New("unsupported file type")
	ErrFileTooLarge      = errors.New("file too large")
	ErrInvalidSize       = errors.New("size must be a positive number of bytes")
)

// Formats that browsers won't render inline. These get their own message
// because the fix is on the user's side, not ours.
var unsupportedTypes = []string{
	"image/heic",
	"image/heif",
	"image/heic-sequence",
	"video/quicktime",
	"video/x-matroska",
}

var allowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/avif",
	"video/mp4",
	"video/webm",
}

// PresignValidator runs the admission policy checks in order and short
// circuits on the first failure. The returned status code is 0 on success.
func PresignValidator(contentType string, size int64) (int, error) {
	if slices.Contains(unsupportedTypes, contentType) {
		return http.StatusUnsupportedMediaType, ErrFormatUnsupported
	}

	if !slices.Contains(allowedTypes, contentType) {
		return http.StatusUnsupportedMediaType, ErrTypeNotAllowed
	}

	if size > viper.GetInt64("upload.max_size") {
		return http.StatusRequestEntityTooLarge, ErrFileTooLarge
	}

	if size <= 0 {
		return http.StatusBadRequest, ErrInvalidSize
	}

	return 0, nil
}
