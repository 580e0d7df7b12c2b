package images

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerpAPI_ImageURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ICE CREAM", r.URL.Query().Get("q"))
		assert.Equal(t, "isch", r.URL.Query().Get("tbm"))
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "true", r.URL.Query().Get("no_cache"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"images_results":[
			{"thumbnail":"t1"},{"thumbnail":"t2"},{"thumbnail":""},{"thumbnail":"t3"},
			{"thumbnail":"t4"},{"thumbnail":"t5"},{"thumbnail":"t6"}]}`)
	}))
	defer srv.Close()

	api := NewSerpAPI("secret", srv.Client()).WithEndpoint(srv.URL)

	urls, err := api.ImageURLs(context.Background(), "ICE CREAM")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5"}, urls)
}

func TestSerpAPI_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"Invalid API key."}`)
	}))
	defer srv.Close()

	_, err := NewSerpAPI("bad", srv.Client()).WithEndpoint(srv.URL).ImageURLs(context.Background(), "APPLE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key.")
}

func TestSerpAPI_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	urls, err := NewSerpAPI("k", srv.Client()).WithEndpoint(srv.URL).ImageURLs(context.Background(), "APPLE")
	require.NoError(t, err)
	assert.Empty(t, urls)
	assert.NotNil(t, urls)
}

func TestNone(t *testing.T) {
	urls, err := None{}.ImageURLs(context.Background(), "APPLE")
	require.NoError(t, err)
	assert.Equal(t, []string{}, urls)
}
