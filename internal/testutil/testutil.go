// Package testutil provides shared utilities for testing.
package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/palemoky/songbook-catalog/internal/database"
)

// SetupTestDB creates an in-memory SQLite database with migrations applied.
// Returns the DB wrapper and Repository. Automatically cleans up on test completion.
func SetupTestDB(t *testing.T) (*database.DB, *database.Repository) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")

	// every pooled connection would get its own empty :memory: database
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewDBFromGorm(gormDB)
	require.NoError(t, db.Migrate(), "Failed to run migrations")

	repo := database.NewRepository(db)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, repo
}

// SeedBook inserts a book with songs and credits for read-side tests.
// Each song is credited to the given artist.
func SeedBook(t *testing.T, repo *database.Repository, code, name, artist string, songs ...string) *database.Book {
	t.Helper()

	book := &database.Book{Name: name, ProductCode: code}
	require.NoError(t, repo.CreateBook(book))

	artistID, err := repo.CreateEntity(database.KindArtist, artist)
	require.NoError(t, err)

	for _, title := range songs {
		song := &database.Song{BookID: book.ID, Name: title}
		require.NoError(t, repo.CreateSong(song))
		require.NoError(t, repo.LinkSong(database.KindArtist, song.ID, artistID))
	}

	return book
}

// SetupTestGin creates a test Gin engine with test mode enabled.
func SetupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
