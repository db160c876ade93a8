package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/songbook-catalog/internal/api/rest"
	"github.com/palemoky/songbook-catalog/internal/config"
	"github.com/palemoky/songbook-catalog/internal/database"
	"github.com/palemoky/songbook-catalog/internal/loader"
	"github.com/palemoky/songbook-catalog/internal/notice"
	"github.com/palemoky/songbook-catalog/internal/processor"
	"github.com/palemoky/songbook-catalog/internal/seed"
	"github.com/palemoky/songbook-catalog/internal/testutil"
)

const (
	productCode = "GTP01"
	bookName    = "ピアノソロ名曲集"
)

// listingServer serves a twelve track product in two pages and counts requests
func listingServer(t *testing.T) (*httptest.Server, *int64) {
	t.Helper()

	rows := append([]testutil.ListingRow{{
		Title:     "猫",
		Performer: "DISH//",
		Notes:     []string{"ドラマ主題歌"},
		Lyricist:  "あいみょん",
		Composer:  "あいみょん",
		Arranger:  "田中",
		Grade:     "5級",
	}}, testutil.ListingRows(11, "曲", "Ado")...)

	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		if r.URL.Query().Get("code") != productCode {
			_, _ = w.Write([]byte(testutil.ListingPage("", 0, nil)))
			return
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("o"))
		end := min(offset+processor.DefaultPageSize, len(rows))
		var page []testutil.ListingRow
		if offset < len(rows) {
			page = rows[offset:end]
		}
		_, _ = w.Write([]byte(testutil.ListingPage(bookName, len(rows), page)))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func getJSON(t *testing.T, router *gin.Engine, target string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestIngestServeAndSeed(t *testing.T) {
	srv, hits := listingServer(t)
	db, repo := testutil.SetupTestDB(t)

	noticePath := filepath.Join(t.TempDir(), "notice.json")
	require.NoError(t, os.WriteFile(noticePath, []byte("[]"), 0o644))

	driver := processor.NewDriver(
		database.NewCachedRepository(repo),
		loader.NewHTTPFetcher(loader.FetcherOptions{UserAgent: "songbook-test", Timeout: 5 * time.Second}),
		notice.New(noticePath, 3, "追加されました"),
		processor.Options{
			BaseURL:          srv.URL + "/p/detail.php?code=",
			PaginationSuffix: "&dm=d&o=",
			Unsplittable:     []string{"DISH//"},
		},
	)

	// ingest
	result, err := driver.Run(context.Background(), productCode)
	require.NoError(t, err)
	assert.Equal(t, processor.OutcomeDone, result.Outcome)
	assert.Equal(t, bookName, result.BookName)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 12, result.Tracks)
	assert.Equal(t, 12, result.SongsCreated)
	assert.Equal(t, int64(2), atomic.LoadInt64(hits))

	entries, err := notice.New(noticePath, 3, "").Read()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, bookName, entries[0].Content)

	// a second run is skipped without fetching
	again, err := driver.Run(context.Background(), productCode)
	require.NoError(t, err)
	assert.Equal(t, processor.OutcomeSkipped, again.Outcome)
	assert.Equal(t, int64(2), atomic.LoadInt64(hits))

	// serve
	cfg := &config.Config{Server: config.ServerConfig{Mode: "test"}}
	router := rest.SetupRouter(cfg, db, repo)

	book := getJSON(t, router, "/api/v1/books/"+strconv.FormatInt(result.BookID, 10))["data"].(map[string]any)
	assert.Equal(t, productCode, book["product_code"])
	songs := book["songs"].([]any)
	require.Len(t, songs, 12)

	cat := songs[0].(map[string]any)
	assert.Equal(t, "猫", cat["song_name"])
	assert.Equal(t, "5", cat["grade"])
	assert.Equal(t, "ドラマ主題歌", cat["memo"])
	assert.Equal(t, []any{"DISH//"}, cat["artists"])
	assert.Equal(t, []any{"あいみょん"}, cat["lyricists"])
	assert.Equal(t, []any{"あいみょん"}, cat["song_writers"])
	assert.Equal(t, []any{"田中"}, cat["arrangers"])

	advanced := getJSON(t, router, "/api/v1/songs/advanced?artist=Ado&page_size=20")
	assert.EqualValues(t, 11, advanced["pagination"].(map[string]any)["total"])

	stats := getJSON(t, router, "/api/v1/stats")
	assert.EqualValues(t, 2, stats["total_artists"], "Ado is stored once")

	// seed
	snap, err := seed.Export(repo)
	require.NoError(t, err)
	sql, tableStats := seed.Compile(snap, seed.DefaultBatchSize)

	assert.True(t, strings.HasPrefix(sql, seed.Header))
	assert.Contains(t, sql, "(1, 'DISH//')")
	rowsByTable := map[string]int{}
	for _, s := range tableStats {
		rowsByTable[s.Table] = s.Rows
	}
	assert.Equal(t, 12, rowsByTable[database.SongsTable])
	assert.Equal(t, 12, rowsByTable[database.KindArtist.LinkTable()])
	assert.Equal(t, 1, rowsByTable[database.KindArranger.LinkTable()])
}
