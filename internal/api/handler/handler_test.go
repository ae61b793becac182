package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cuongbtq/vtryon/internal/api/domain"
	"github.com/cuongbtq/vtryon/internal/api/model"
	"github.com/cuongbtq/vtryon/internal/api/storage"
	"github.com/cuongbtq/vtryon/internal/i18n"
	"github.com/cuongbtq/vtryon/internal/tryon"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	femaleID = "0b0c5a52-7f07-4d0b-8f55-2a3e9c1d6a01"
	maleID   = "0b0c5a52-7f07-4d0b-8f55-2a3e9c1d6a02"
)

type fakeModelStore struct {
	models     []model.Model
	lastFilter storage.ModelFilter
	listErr    error
	getErr     error
}

func (f *fakeModelStore) ListModels(_ context.Context, filter storage.ModelFilter) ([]model.Model, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Model
	for _, m := range f.models {
		if filter.BodyType != "" && m.BodyType != filter.BodyType {
			continue
		}
		out = append(out, m)
		if len(out) == filter.PageSize+1 {
			break
		}
	}
	return out, nil
}

func (f *fakeModelStore) GetModelByID(_ context.Context, modelID string) (*model.Model, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.models {
		if f.models[i].ModelID == modelID {
			return &f.models[i], nil
		}
	}
	return nil, domain.ErrModelNotFound
}

type fakeTryOn struct {
	mu       sync.Mutex
	outcome  tryon.Outcome
	requests []tryon.JobRequest
	hasKey   bool
}

func (f *fakeTryOn) Process(_ context.Context, req tryon.JobRequest) tryon.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.outcome
}

func (f *fakeTryOn) HasCredential() bool { return f.hasKey }

type fakePublisher struct {
	bodies [][]byte
	err    error
}

func (f *fakePublisher) PublishWithRetry(_ context.Context, body []byte, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.bodies = append(f.bodies, body)
	return nil
}

type fakeUploader struct {
	url      string
	err      error
	received []byte
	filename string
}

func (f *fakeUploader) Upload(_ context.Context, file io.Reader, filename string) (string, error) {
	f.received, _ = io.ReadAll(file)
	f.filename = filename
	return f.url, f.err
}

type fakeForwarder struct {
	urls []string
}

func (f *fakeForwarder) ForwardBestEffort(_ context.Context, imageURL string) {
	f.urls = append(f.urls, imageURL)
}

func gallery() []model.Model {
	base := time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC)
	return []model.Model{
		{ModelID: femaleID, Name: "Model 6", BodyType: "female", ImageURL: "https://res.cloudinary.com/demo/model6.webp", CreatedAt: base.Add(3 * time.Hour)},
		{ModelID: maleID, Name: "Model 5", BodyType: "male", ImageURL: "https://res.cloudinary.com/demo/model5.webp", CreatedAt: base.Add(2 * time.Hour)},
		{ModelID: "0b0c5a52-7f07-4d0b-8f55-2a3e9c1d6a03", Name: "Model 4", BodyType: "female", ImageURL: "https://res.cloudinary.com/demo/model4.webp", CreatedAt: base.Add(time.Hour)},
	}
}

func newTestDeps(t *testing.T) *Dependencies {
	t.Helper()
	tr, err := i18n.New("en")
	require.NoError(t, err)

	return &Dependencies{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Models:     &fakeModelStore{models: gallery()},
		TryOn:      &fakeTryOn{hasKey: true},
		Publisher:  &fakePublisher{},
		Uploader:   &fakeUploader{url: "https://res.cloudinary.com/demo/shirt.png"},
		Forwarder:  &fakeForwarder{},
		Translator: tr,
		ModelName:  tryon.DefaultModelName,
	}
}

func doJSON(t *testing.T, h gin.HandlerFunc, method, path, route string, body any, locale string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	r := gin.New()
	if locale != "" {
		r.Use(func(c *gin.Context) {
			c.Set(LocaleKey, locale)
			c.Next()
		})
	}
	r.Handle(method, route, h)

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

var errDB = errors.New("connection refused")
