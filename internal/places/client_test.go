package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, "places.id,places.displayName,places.photos", r.Header.Get("X-Goog-FieldMask"))

		var body searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Cinema 21 Portland OR", body.TextQuery)
		assert.Equal(t, 1, body.MaxResultCount)

		_, _ = w.Write([]byte(`{"places":[{"id":"ChIJ21","displayName":{"text":"Cinema 21"},
			"photos":[{"name":"places/ChIJ21/photos/a"},{"name":"places/ChIJ21/photos/b"}]}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/v1/", "test-key", srv.Client())
	p, err := c.SearchText(context.Background(), "Cinema 21 Portland OR")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "ChIJ21", p.ID)
	assert.Equal(t, "Cinema 21", p.DisplayName)
	assert.Equal(t, []string{"places/ChIJ21/photos/a", "places/ChIJ21/photos/b"}, p.PhotoNames)
}

func TestSearchText_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL, "k", nil).SearchText(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSearchText_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "API key not valid", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bad", nil).SearchText(context.Background(), "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "places api error: 403 - API key not valid", err.Error())
}

func TestDownloadPhoto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places/ChIJ21/photos/a/media", r.URL.Path)
		assert.Equal(t, "1920", r.URL.Query().Get("maxWidthPx"))
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpegbytes"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	n, err := NewClient(srv.URL, "k", nil).DownloadPhoto(context.Background(), "places/ChIJ21/photos/a", 1920, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "jpegbytes", buf.String())
}

func TestDownloadPhoto_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	var buf bytes.Buffer
	_, err := NewClient(srv.URL, "k", nil).DownloadPhoto(context.Background(), "places/x/photos/y", 800, &buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
