package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssetAPI struct {
	params uploader.UploadParams
	body   string
	result *uploader.UploadResult
	err    error
}

func (f *fakeAssetAPI) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = params
	if r, ok := file.(io.Reader); ok {
		b, _ := io.ReadAll(r)
		f.body = string(b)
	}
	return f.result, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewCloudinaryUploader_MissingCredentials(t *testing.T) {
	_, err := NewCloudinaryUploader(CloudinaryConfig{CloudName: "demo"}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCloudinaryUploader_Upload(t *testing.T) {
	tests := []struct {
		name    string
		result  *uploader.UploadResult
		err     error
		wantURL string
		wantErr string
	}{
		{
			name:    "success",
			result:  &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/shirt.png", PublicID: "garments/shirt"},
			wantURL: "https://res.cloudinary.com/demo/shirt.png",
		},
		{
			name:    "transport error",
			err:     errors.New("connection reset"),
			wantErr: "connection reset",
		},
		{
			name:    "api error in result",
			result:  &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}},
			wantErr: "Invalid image file",
		},
		{
			name:    "missing url",
			result:  &uploader.UploadResult{},
			wantErr: "empty secure url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAssetAPI{result: tt.result, err: tt.err}
			u := newCloudinaryUploader(fake, "garments", discardLogger())

			url, err := u.Upload(context.Background(), strings.NewReader("image-bytes"), "shirt.png")

			assert.Equal(t, "garments", fake.params.Folder)
			assert.Equal(t, "auto", fake.params.ResourceType)
			assert.Equal(t, "image-bytes", fake.body)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, url)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, url)
		})
	}
}
