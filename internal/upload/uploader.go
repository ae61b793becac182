// Package upload stores garment photos on Cloudinary and notifies an optional
// downstream endpoint with the hosted URL.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrNotConfigured is returned when Cloudinary credentials are missing
var ErrNotConfigured = errors.New("cloudinary is not configured")

// Uploader stores an image and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}

// assetAPI is the subset of the Cloudinary upload API we call
type assetAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryConfig holds Cloudinary credentials and the destination folder
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// CloudinaryUploader uploads files with resource type "auto"
type CloudinaryUploader struct {
	api    assetAPI
	folder string
	logger *slog.Logger
}

// NewCloudinaryUploader builds an uploader from credentials
func NewCloudinaryUploader(cfg CloudinaryConfig, logger *slog.Logger) (*CloudinaryUploader, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, ErrNotConfigured
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return newCloudinaryUploader(&cld.Upload, cfg.Folder, logger), nil
}

func newCloudinaryUploader(api assetAPI, folder string, logger *slog.Logger) *CloudinaryUploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudinaryUploader{api: api, folder: folder, logger: logger}
}

// Upload sends the file to Cloudinary and returns its secure URL
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	resp, err := u.api.Upload(ctx, file, uploader.UploadParams{
		Folder:       u.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("failed to upload file: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("failed to upload file: empty secure url")
	}

	u.logger.Info("File uploaded",
		slog.String("filename", filename),
		slog.String("public_id", resp.PublicID),
		slog.String("url", resp.SecureURL),
	)

	return resp.SecureURL, nil
}
