package handler

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func doUpload(t *testing.T, h *UploadHandler, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "nothing attached"))
	}
	require.NoError(t, mw.Close())

	r := gin.New()
	r.POST("/uploads/clothes", h.UploadClothes)

	req := httptest.NewRequest(http.MethodPost, "/uploads/clothes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadHandler_UploadClothes(t *testing.T) {
	deps := newTestDeps(t)
	up := deps.Uploader.(*fakeUploader)
	fwd := deps.Forwarder.(*fakeForwarder)
	h := NewUploadHandler(deps)

	w := doUpload(t, h, "clothesPhoto", "shirt.png", pngBytes)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "File uploaded successfully", body["message"])
	assert.Equal(t, "https://res.cloudinary.com/demo/shirt.png", body["imageUrl"])
	assert.Equal(t, pngBytes, up.received, "uploader must receive the whole file")
	assert.Equal(t, "shirt.png", up.filename)
	assert.Equal(t, []string{"https://res.cloudinary.com/demo/shirt.png"}, fwd.urls)
}

func TestUploadHandler_Failures(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		content     []byte
		maxSize     int64
		uploadErr   error
		noUploader  bool
		wantStatus  int
		wantMessage string
		wantError   string
	}{
		{
			name:        "no file",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "No file uploaded.",
		},
		{
			name:        "wrong field",
			field:       "photo",
			content:     pngBytes,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "No file uploaded.",
		},
		{
			name:        "not an image",
			field:       "clothesPhoto",
			content:     []byte("just some text, definitely not a picture"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Error uploading file",
			wantError:   "only image files are allowed",
		},
		{
			name:        "too large",
			field:       "clothesPhoto",
			content:     pngBytes,
			maxSize:     16,
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantMessage: "Error uploading file",
			wantError:   "file exceeds the 16 byte limit",
		},
		{
			name:        "cloudinary error",
			field:       "clothesPhoto",
			content:     pngBytes,
			uploadErr:   errors.New("failed to upload file: Invalid image file"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Error uploading file",
			wantError:   "failed to upload file: Invalid image file",
		},
		{
			name:        "not configured",
			field:       "clothesPhoto",
			content:     pngBytes,
			noUploader:  true,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Error uploading file",
			wantError:   "cloudinary is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps(t)
			deps.MaxUploadSize = tt.maxSize
			deps.Uploader.(*fakeUploader).err = tt.uploadErr
			fwd := deps.Forwarder.(*fakeForwarder)
			if tt.noUploader {
				deps.Uploader = nil
			}
			h := NewUploadHandler(deps)

			w := doUpload(t, h, tt.field, "shirt.png", tt.content)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			body := decode(t, w)
			assert.Equal(t, tt.wantMessage, body["message"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
			assert.NotContains(t, body, "imageUrl")
			assert.Empty(t, fwd.urls)
		})
	}
}
