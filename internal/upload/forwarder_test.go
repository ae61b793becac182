package upload

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewForwarder_EmptyEndpoint(t *testing.T) {
	f := NewForwarder("  ", time.Second, nil)
	assert.Nil(t, f)

	// nil forwarder is a no-op
	assert.NoError(t, f.Forward(context.Background(), "https://example.com/a.png"))
	f.ForwardBestEffort(context.Background(), "https://example.com/a.png")
}

func TestForwarder_Forward(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, time.Second, discardLogger())
	require.NoError(t, f.Forward(context.Background(), "https://res.cloudinary.com/demo/shirt.png"))
	assert.Equal(t, map[string]string{"imageUrl": "https://res.cloudinary.com/demo/shirt.png"}, got)
}

func TestForwarder_Forward_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, time.Second, discardLogger())
	err := f.Forward(context.Background(), "https://example.com/a.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "nope")

	// best effort swallows the failure
	f.ForwardBestEffort(context.Background(), "https://example.com/a.png")
}
