package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/spec-kit/report-desk/internal/config"
)

// CloudinaryUploader hosts ticket images on Cloudinary.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader creates an uploader from the media configuration.
func NewCloudinaryUploader(cfg config.MediaConfig) (*CloudinaryUploader, error) {
	if !cfg.CloudinaryEnabled() {
		return nil, fmt.Errorf("cloudinary configuration is missing")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryUploader{cld: cld, folder: cfg.CloudinaryFolder}, nil
}

// Upload stores the image under name inside the configured folder.
func (u *CloudinaryUploader) Upload(ctx context.Context, image io.Reader, name string) (string, error) {
	overwrite := true
	result, err := u.cld.Upload.Upload(ctx, image, uploader.UploadParams{
		PublicID:     name,
		Folder:       u.folder,
		Overwrite:    &overwrite,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload ticket image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}
