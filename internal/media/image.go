// Package media validates image references attached to tickets and, when
// configured, moves inline images to hosted storage.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

const dataURLPrefix = "data:"

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/heic": true,
}

// Image is a decoded inline image.
type Image struct {
	MimeType string
	Data     []byte
}

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, image io.Reader, name string) (string, error)
}

// Resolver turns the image reference of a submission into the value stored on
// the ticket.
type Resolver struct {
	maxBytes int
	uploader Uploader
	logger   *zap.Logger
}

// NewResolver builds a Resolver. A nil uploader keeps data URLs inline.
func NewResolver(maxBytes int, uploader Uploader, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{maxBytes: maxBytes, uploader: uploader, logger: logger}
}

// Resolve validates ref. Blank refs yield "". Hosted https URLs pass through.
// Data URLs are checked and either uploaded or returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, ref, name string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if strings.HasPrefix(strings.ToLower(ref), "https://") {
		return ref, nil
	}
	img, err := ParseDataURL(ref, r.maxBytes)
	if err != nil {
		return "", err
	}
	if r.uploader == nil {
		return ref, nil
	}
	url, err := r.uploader.Upload(ctx, bytes.NewReader(img.Data), name)
	if err != nil {
		r.logger.Error("image upload failed", zap.String("name", name), zap.Error(err))
		return "", apperrors.NewInternalError(err)
	}
	r.logger.Info("image uploaded", zap.String("name", name), zap.Int("bytes", len(img.Data)))
	return url, nil
}

// ParseDataURL decodes a base64 image data URL no larger than maxBytes once
// decoded. maxBytes <= 0 disables the size check.
func ParseDataURL(ref string, maxBytes int) (Image, error) {
	invalid := func(reason string) error {
		return apperrors.NewValidationError("invalid image", map[string]any{"imageUrl": reason})
	}

	if !strings.HasPrefix(strings.ToLower(ref), dataURLPrefix) {
		return Image{}, invalid("must be a data URL or an https URL")
	}
	header, body, ok := strings.Cut(ref[len(dataURLPrefix):], ",")
	if !ok {
		return Image{}, invalid("missing data")
	}
	mimeType, encoding, ok := strings.Cut(header, ";")
	if !ok || !strings.EqualFold(encoding, "base64") {
		return Image{}, invalid("must be base64 encoded")
	}
	mimeType = strings.ToLower(mimeType)
	if !allowedImageTypes[mimeType] {
		return Image{}, invalid(fmt.Sprintf("unsupported type %q", mimeType))
	}

	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(body)) > maxBytes+2 {
		return Image{}, invalid("too large")
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return Image{}, invalid("body is not valid base64")
	}
	if len(data) == 0 {
		return Image{}, invalid("empty image")
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return Image{}, invalid("too large")
	}
	return Image{MimeType: mimeType, Data: data}, nil
}
