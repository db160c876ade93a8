package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"

	"github.com/palemoky/songbook-catalog/internal/database"
)

// Source is the read side of the store needed to build a snapshot
type Source interface {
	AllBooks() ([]database.Book, error)
	AllSongs() ([]database.Song, error)
	ListEntities(kind database.EntityKind) ([]database.NamedRecord, error)
	SongLinkIDs(kind database.EntityKind) (map[int64][]int64, error)
}

// Export builds a snapshot of the whole store, every table ordered by id
func Export(src Source) (*Snapshot, error) {
	books, err := src.AllBooks()
	if err != nil {
		return nil, fmt.Errorf("failed to export books: %w", err)
	}

	snap := &Snapshot{Books: make([]Row, 0, len(books))}
	for _, b := range books {
		snap.Books = append(snap.Books, Row{
			"id":           b.ID,
			"book_name":    b.Name,
			"product_code": b.ProductCode,
			"created_at":   formatTime(b.CreatedAt),
		})
	}

	for _, kind := range database.EntityKinds {
		records, err := src.ListEntities(kind)
		if err != nil {
			return nil, err
		}
		rows := make([]Row, 0, len(records))
		for _, r := range records {
			rows = append(rows, Row{"id": r.ID, kind.NameColumn(): r.Name})
		}
		switch kind {
		case database.KindArtist:
			snap.Artists = rows
		case database.KindLyricist:
			snap.Lyricists = rows
		case database.KindSongwriter:
			snap.SongWriters = rows
		case database.KindArranger:
			snap.Arrangers = rows
		}
	}

	songs, err := src.AllSongs()
	if err != nil {
		return nil, fmt.Errorf("failed to export songs: %w", err)
	}

	links := make(map[database.EntityKind]map[int64][]int64, len(database.EntityKinds))
	for _, kind := range database.EntityKinds {
		if links[kind], err = src.SongLinkIDs(kind); err != nil {
			return nil, err
		}
	}

	snap.Songs = make([]Row, 0, len(songs))
	for _, s := range songs {
		row := Row{
			"id":         s.ID,
			"book_id":    s.BookID,
			"song_name":  s.Name,
			"grade":      s.Grade,
			"memo":       s.Memo,
			"created_at": formatTime(s.CreatedAt),
		}
		for _, kind := range database.EntityKinds {
			ids := links[kind][s.ID]
			values := make([]any, len(ids))
			for i, id := range ids {
				values[i] = id
			}
			row[kind.IDsKey()] = values
		}
		snap.Songs = append(snap.Songs, row)
	}

	return snap, nil
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// WriteSnapshot writes the snapshot as indented JSON, atomically
func WriteSnapshot(path string, snap *Snapshot) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
