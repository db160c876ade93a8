package database

import (
	"fmt"
	"testing"
)

func seedEntities(b *testing.B, repo *Repository, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("artist-%03d", i)
		if _, err := repo.CreateEntity(KindArtist, names[i]); err != nil {
			b.Fatal(err)
		}
	}
	return names
}

// BenchmarkFindEntityID compares store lookups with the cached repository
func BenchmarkFindEntityID(b *testing.B) {
	repo := NewRepository(setupTestDB(b))
	names := seedEntities(b, repo, 200)

	b.Run("store", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _, _ = repo.FindEntityID(KindArtist, names[i%len(names)])
		}
	})

	b.Run("cached", func(b *testing.B) {
		cached := NewCachedRepository(repo)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _, _ = cached.FindEntityID(KindArtist, names[i%len(names)])
		}
	})
}

// BenchmarkSongCredits benchmarks the credit lookup used by book pages
func BenchmarkSongCredits(b *testing.B) {
	repo := NewRepository(setupTestDB(b))
	book := &Book{Name: "ピアノソロ", ProductCode: "BENCH"}
	if err := repo.CreateBook(book); err != nil {
		b.Fatal(err)
	}
	artist, _ := repo.CreateEntity(KindArtist, "あいみょん")

	ids := make([]int64, 50)
	for i := range ids {
		song := &Song{BookID: book.ID, Name: fmt.Sprintf("song-%02d", i)}
		if err := repo.CreateSong(song); err != nil {
			b.Fatal(err)
		}
		_ = repo.LinkSong(KindArtist, song.ID, artist)
		ids[i] = song.ID
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = repo.SongCredits(ids)
	}
}
