package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageURL(t *testing.T) {
	got := PageURL("https://www.ymm.co.jp/p/detail.php?code=", "GTP01099999", "&dm=d&o=", 20)
	assert.Equal(t, "https://www.ymm.co.jp/p/detail.php?code=GTP01099999&dm=d&o=20", got)
}

func TestHTTPFetcher(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		if r.URL.Query().Get("code") == "missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<html>ok " + r.URL.Query().Get("o") + "</html>"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(FetcherOptions{UserAgent: "songbook-test", Timeout: time.Second})

	body, err := fetcher.Fetch(context.Background(), PageURL(server.URL+"/?code=", "A1", "&o=", 10))
	require.NoError(t, err)
	assert.Equal(t, "<html>ok 10</html>", body)
	assert.Equal(t, "songbook-test", gotAgent)

	_, err = fetcher.Fetch(context.Background(), PageURL(server.URL+"/?code=", "missing", "&o=", 0))
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestHTTPFetcherCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(FetcherOptions{RequestsPerSecond: 0.001, Burst: 1})

	// first request consumes the only token
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = fetcher.Fetch(ctx, server.URL)
	assert.Error(t, err)
}

func TestLoadCodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("GTP01099999\n\n  GTP01088888 \r\n\n"), 0o644))

	codes, err := LoadCodes(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"GTP01099999", "GTP01088888"}, codes)

	_, err = LoadCodes(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
