package database

import (
	"fmt"
	"strings"
)

// RepositoryInterface defines the store operations the ingestion driver needs
type RepositoryInterface interface {
	FindBookByCode(code string) (*Book, error)
	CreateBook(book *Book) error
	CreateSong(song *Song) error
	FindEntityID(kind EntityKind, name string) (int64, bool, error)
	CreateEntity(kind EntityKind, name string) (int64, error)
	LinkSong(kind EntityKind, songID, entityID int64) error
}

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying connection
func (r *Repository) DB() *DB {
	return r.db
}

// FindBookByCode returns the book with the given product code, or nil when none exists
func (r *Repository) FindBookByCode(code string) (*Book, error) {
	var books []Book
	err := r.db.Where("product_code = ?", code).Limit(1).Find(&books).Error
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, nil
	}
	return &books[0], nil
}

// GetBookByID retrieves a book by ID
func (r *Repository) GetBookByID(id int64) (*Book, error) {
	var book Book
	if err := r.db.First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// ListBooks returns a page of books, newest first, optionally filtered by name
func (r *Repository) ListBooks(query string, limit, offset int) ([]Book, int64, error) {
	q := r.db.Model(&Book{})
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where("book_name LIKE ?", "%"+query+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []Book
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&books).Error
	return books, total, err
}

// RandomBooks returns up to limit books in random order
func (r *Repository) RandomBooks(limit int) ([]Book, error) {
	var books []Book
	err := r.db.Order(r.randomFunc()).Limit(limit).Find(&books).Error
	return books, err
}

func (r *Repository) randomFunc() string {
	if r.db.Dialector.Name() == "mysql" {
		return "RAND()"
	}
	return "RANDOM()"
}

// ListBookSongs returns every song of a book in insertion order
func (r *Repository) ListBookSongs(bookID int64) ([]Song, error) {
	var songs []Song
	err := r.db.Where("book_id = ?", bookID).Order("id").Find(&songs).Error
	return songs, err
}

// GetSongByID retrieves a song by ID with its book preloaded
func (r *Repository) GetSongByID(id int64) (*Song, error) {
	var song Song
	if err := r.db.Preload("Book").First(&song, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &song, nil
}

// SongCredits returns the credited names of each song, keyed by song id
func (r *Repository) SongCredits(songIDs []int64) (map[int64]*Credits, error) {
	credits := make(map[int64]*Credits, len(songIDs))
	for _, id := range songIDs {
		credits[id] = &Credits{
			Artists:     []string{},
			Lyricists:   []string{},
			Songwriters: []string{},
			Arrangers:   []string{},
		}
	}
	if len(songIDs) == 0 {
		return credits, nil
	}

	for _, kind := range EntityKinds {
		var links []struct {
			SongID   int64
			EntityID int64
		}
		err := r.db.Table(kind.LinkTable()).
			Select("song_id, "+kind.LinkColumn()+" AS entity_id").
			Where("song_id IN ?", songIDs).
			Order("song_id").Order(kind.LinkColumn()).
			Scan(&links).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load %s links: %w", kind, err)
		}

		entityIDs := make([]int64, 0, len(links))
		for _, l := range links {
			entityIDs = append(entityIDs, l.EntityID)
		}
		names, err := r.EntityNames(kind, entityIDs)
		if err != nil {
			return nil, err
		}

		for _, l := range links {
			c := credits[l.SongID]
			name := names[l.EntityID]
			switch kind {
			case KindArtist:
				c.Artists = append(c.Artists, name)
			case KindLyricist:
				c.Lyricists = append(c.Lyricists, name)
			case KindSongwriter:
				c.Songwriters = append(c.Songwriters, name)
			case KindArranger:
				c.Arrangers = append(c.Arrangers, name)
			}
		}
	}

	return credits, nil
}

// EntityNames resolves entity ids of one kind to their names
func (r *Repository) EntityNames(kind EntityKind, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := kinds[kind].listRows(r.db.Where("id IN ?", ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s names: %w", kind, err)
	}
	for _, row := range rows {
		names[row.EntityID()] = row.EntityName()
	}
	return names, nil
}
