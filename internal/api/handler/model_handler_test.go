package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelHandler_ListModels(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantIDs    int
		wantCursor bool
	}{
		{name: "all", query: "", wantStatus: http.StatusOK, wantIDs: 3},
		{name: "female only", query: "?type=female", wantStatus: http.StatusOK, wantIDs: 2},
		{name: "paged", query: "?page_size=2", wantStatus: http.StatusOK, wantIDs: 2, wantCursor: true},
		{name: "bad type", query: "?type=child", wantStatus: http.StatusBadRequest},
		{name: "bad cursor", query: "?cursor=%25%25", wantStatus: http.StatusBadRequest},
		{name: "bad page size", query: "?page_size=abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps(t)
			h := NewModelHandler(deps)

			w := doJSON(t, h.ListModels, http.MethodGet, "/models"+tt.query, "/models", nil, "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			body := decode(t, w)
			assert.Len(t, body["models"], tt.wantIDs)
			_, hasCursor := body["next_cursor"]
			assert.Equal(t, tt.wantCursor, hasCursor)
		})
	}
}

func TestModelHandler_ListModels_PageSizeClamp(t *testing.T) {
	deps := newTestDeps(t)
	store := deps.Models.(*fakeModelStore)
	h := NewModelHandler(deps)

	doJSON(t, h.ListModels, http.MethodGet, "/models?page_size=1000", "/models", nil, "")
	assert.Equal(t, maxPageSize, store.lastFilter.PageSize)

	doJSON(t, h.ListModels, http.MethodGet, "/models", "/models", nil, "")
	assert.Equal(t, defaultPageSize, store.lastFilter.PageSize)
}

func TestModelHandler_ListModels_StoreError(t *testing.T) {
	deps := newTestDeps(t)
	deps.Models.(*fakeModelStore).listErr = errDB
	h := NewModelHandler(deps)

	w := doJSON(t, h.ListModels, http.MethodGet, "/models", "/models", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to list models", decode(t, w)["error"])
}

func TestModelHandler_GetModel(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		getErr     error
		wantStatus int
	}{
		{name: "found", id: maleID, wantStatus: http.StatusOK},
		{name: "not uuid", id: "model-5", wantStatus: http.StatusBadRequest},
		{name: "missing", id: "1d3e8f7a-0000-4000-8000-000000000000", wantStatus: http.StatusNotFound},
		{name: "store error", id: maleID, getErr: errDB, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps(t)
			deps.Models.(*fakeModelStore).getErr = tt.getErr
			h := NewModelHandler(deps)

			w := doJSON(t, h.GetModel, http.MethodGet, "/models/"+tt.id, "/models/:model_id", nil, "")
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				body := decode(t, w)
				assert.Equal(t, maleID, body["model_id"])
				assert.Equal(t, "male", body["type"])
				assert.Equal(t, "https://res.cloudinary.com/demo/model5.webp", body["image"])
			}
		})
	}
}
