package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/voxly-app/voxly/internal/media"
)

const maxImageSize = 5 << 20 // 5 MiB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

var (
	errImageTooLarge    = errors.New("image exceeds the size limit")
	errImageUnsupported = errors.New("unsupported image type")
)

// formImage extracts an optional image from a multipart form field.
// Absent field is not an error, it returns nil file.
func formImage(r *http.Request, field string) (*media.File, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if header.Size > maxImageSize {
		return nil, errImageTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return nil, errImageUnsupported
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageSize {
		return nil, errImageTooLarge
	}

	return &media.File{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// queryInt parses an optional integer query parameter.
// Empty value means fallback, garbage means error.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	return strconv.Atoi(raw)
}
