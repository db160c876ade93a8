package handler

import "github.com/palemoky/songbook-catalog/internal/database"

// formatBook formats a book for API response.
func formatBook(b *database.Book) map[string]any {
	return map[string]any{
		"id":           b.ID,
		"book_name":    b.Name,
		"product_code": b.ProductCode,
		"created_at":   b.CreatedAt,
	}
}

// formatSong formats a song with its book name and, when known, its credits.
func formatSong(s *database.Song, credits *database.Credits) map[string]any {
	result := map[string]any{
		"id":        s.ID,
		"book_id":   s.BookID,
		"song_name": s.Name,
		"grade":     s.Grade,
		"memo":      s.Memo,
	}
	if s.Book != nil {
		result["book_name"] = s.Book.Name
	}
	if credits != nil {
		result["artists"] = credits.Artists
		result["lyricists"] = credits.Lyricists
		result["song_writers"] = credits.Songwriters
		result["arrangers"] = credits.Arrangers
	}
	return result
}

// formatSongs formats songs with credits looked up from the map.
func formatSongs(songs []database.Song, credits map[int64]*database.Credits) []map[string]any {
	data := make([]map[string]any, len(songs))
	for i := range songs {
		data[i] = formatSong(&songs[i], credits[songs[i].ID])
	}
	return data
}

func songIDs(songs []database.Song) []int64 {
	ids := make([]int64, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}
	return ids
}
