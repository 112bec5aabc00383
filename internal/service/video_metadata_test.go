package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoMetadataFetchTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "https://youtu.be/abc123", r.URL.Query().Get("url"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"  Spanish for beginners  ","author_name":"Lingo Channel"}`))
	}))
	defer server.Close()

	svc := NewVideoMetadataService(server.URL, 5*time.Second)
	title, err := svc.FetchTitle(context.Background(), "https://youtu.be/abc123")
	require.NoError(t, err)
	assert.Equal(t, "Spanish for beginners", title)
}

func TestVideoMetadataFetchTitleErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewVideoMetadataService(server.URL, 5*time.Second)
	_, err := svc.FetchTitle(context.Background(), "https://youtu.be/missing")
	assert.Error(t, err)
}
