package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxImageBytes  = 10 * 1024 * 1024
	DefaultMinImageWidth  = 800
	DefaultMinImageHeight = 600
)

var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

var (
	ErrEmptyImage           = errors.New("image is empty")
	ErrImageTooLarge        = errors.New("image exceeds the maximum upload size")
	ErrUnsupportedImageType = errors.New("only JPEG, PNG, WebP and GIF images are allowed")
	ErrImageTooSmall        = errors.New("image is smaller than the minimum dimensions")
	ErrUnreadableImage      = errors.New("image dimensions could not be read")
)

// ImageFilter decides which uploaded files may become listing photos. The
// content type is sniffed from the bytes; the client supplied header is
// ignored.
type ImageFilter struct {
	MaxBytes             int64
	EnforceMinDimensions bool
	MinWidth             int
	MinHeight            int
}

func NewImageFilter(maxBytes int64, enforceMinDimensions bool, minWidth, minHeight int) ImageFilter {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if minWidth <= 0 {
		minWidth = DefaultMinImageWidth
	}
	if minHeight <= 0 {
		minHeight = DefaultMinImageHeight
	}
	return ImageFilter{
		MaxBytes:             maxBytes,
		EnforceMinDimensions: enforceMinDimensions,
		MinWidth:             minWidth,
		MinHeight:            minHeight,
	}
}

// Check returns the detected content type of an accepted image.
func (f ImageFilter) Check(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if f.MaxBytes > 0 && int64(len(data)) > f.MaxBytes {
		return "", fmt.Errorf("%w (%dMB)", ErrImageTooLarge, f.MaxBytes/(1024*1024))
	}

	mtype := mimetype.Detect(data)
	contentType := ""
	for _, allowed := range AllowedImageTypes {
		if mtype.Is(allowed) {
			contentType = allowed
			break
		}
	}
	if contentType == "" {
		return "", fmt.Errorf("%w: got %s", ErrUnsupportedImageType, mtype.String())
	}

	if f.EnforceMinDimensions {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnreadableImage, err)
		}
		if cfg.Width < f.MinWidth || cfg.Height < f.MinHeight {
			return "", fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrImageTooSmall, cfg.Width, cfg.Height, f.MinWidth, f.MinHeight)
		}
	}

	return contentType, nil
}
