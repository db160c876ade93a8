package search

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/palemoky/songbook-catalog/internal/classifier"
	"github.com/palemoky/songbook-catalog/internal/database"
	"github.com/palemoky/songbook-catalog/internal/helpers"
)

// Engine handles all search operations
type Engine struct {
	db *database.DB
}

// NewEngine creates a new search engine
func NewEngine(db *database.DB) *Engine {
	return &Engine{db: db}
}

// SearchType defines the type of search
type SearchType string

const (
	SearchTypeAll  SearchType = "all"
	SearchTypeBook SearchType = "book"
	SearchTypeSong SearchType = "song"
)

// ParseSearchType maps user input to a search type, defaulting to all
func ParseSearchType(s string) SearchType {
	switch SearchType(s) {
	case SearchTypeBook, SearchTypeSong:
		return SearchType(s)
	default:
		return SearchTypeAll
	}
}

// SearchParams contains search parameters
type SearchParams struct {
	Query      string
	SearchType SearchType
	Page       int
	PageSize   int
}

// Hit is one search result: either a book or a song with its book
type Hit struct {
	Type SearchType
	Book *database.Book
	Song *database.Song
}

// SearchResult contains search results
type SearchResult struct {
	Hits       []Hit
	TotalCount int64
	HasMore    bool
}

// AdvancedParams filters songs field by field. Empty fields are ignored.
type AdvancedParams struct {
	Book       string
	Song       string
	Artist     string
	Lyricist   string
	SongWriter string
	Arranger   string
	Grade      string
	Memo       string
	Page       int
	PageSize   int
}

func like(query string) string {
	return "%" + query + "%"
}

// Search looks up books by name, songs by name, or both. Books come first
// in a combined search; each group is ordered newest first.
func (e *Engine) Search(params SearchParams) (*SearchResult, error) {
	page := helpers.NewPagination(params.Page, params.PageSize)
	limit, offset := page.PageSize, page.Offset()
	query := classifier.NormalizeText(params.Query)

	var (
		hits  []Hit
		total int64
		err   error
	)

	switch params.SearchType {
	case SearchTypeBook:
		hits, total, err = e.searchBooks(query, limit, offset)
	case SearchTypeSong:
		hits, total, err = e.searchSongs(query, limit, offset)
	default:
		hits, total, err = e.searchAll(query, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Hits:       hits,
		TotalCount: total,
		HasMore:    int64(offset+len(hits)) < total,
	}, nil
}

func (e *Engine) bookQuery(query string) *gorm.DB {
	q := e.db.Model(&database.Book{})
	if query != "" {
		q = q.Where("book_name LIKE ?", like(query))
	}
	return q
}

func (e *Engine) songQuery(query string) *gorm.DB {
	q := e.db.Model(&database.Song{})
	if query != "" {
		q = q.Where("song_name LIKE ?", like(query))
	}
	return q
}

func (e *Engine) fetchBooks(query string, limit, offset int) ([]Hit, error) {
	var books []database.Book
	err := e.bookQuery(query).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&books).Error
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, len(books))
	for i := range books {
		hits[i] = Hit{Type: SearchTypeBook, Book: &books[i]}
	}
	return hits, nil
}

func (e *Engine) fetchSongs(query string, limit, offset int) ([]Hit, error) {
	var songs []database.Song
	err := e.songQuery(query).
		Preload("Book").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&songs).Error
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, len(songs))
	for i := range songs {
		hits[i] = Hit{Type: SearchTypeSong, Song: &songs[i]}
	}
	return hits, nil
}

func (e *Engine) searchBooks(query string, limit, offset int) ([]Hit, int64, error) {
	var total int64
	if err := e.bookQuery(query).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	hits, err := e.fetchBooks(query, limit, offset)
	return hits, total, err
}

func (e *Engine) searchSongs(query string, limit, offset int) ([]Hit, int64, error) {
	var total int64
	if err := e.songQuery(query).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	hits, err := e.fetchSongs(query, limit, offset)
	return hits, total, err
}

// searchAll pages over books followed by songs
func (e *Engine) searchAll(query string, limit, offset int) ([]Hit, int64, error) {
	var bookCount, songCount int64
	if err := e.bookQuery(query).Count(&bookCount).Error; err != nil {
		return nil, 0, err
	}
	if err := e.songQuery(query).Count(&songCount).Error; err != nil {
		return nil, 0, err
	}

	var hits []Hit
	if int64(offset) < bookCount {
		books, err := e.fetchBooks(query, limit, offset)
		if err != nil {
			return nil, 0, err
		}
		hits = append(hits, books...)
	}

	if remaining := limit - len(hits); remaining > 0 {
		songOffset := max(int64(offset)-bookCount, 0)
		songs, err := e.fetchSongs(query, remaining, int(songOffset))
		if err != nil {
			return nil, 0, err
		}
		hits = append(hits, songs...)
	}

	return hits, bookCount + songCount, nil
}

// AdvancedSearch returns songs matching every non-empty filter
func (e *Engine) AdvancedSearch(params AdvancedParams) ([]database.Song, int64, error) {
	page := helpers.NewPagination(params.Page, params.PageSize)
	limit, offset := page.PageSize, page.Offset()

	filtered := func() *gorm.DB {
		q := e.db.Model(&database.Song{})
		if v := classifier.NormalizeText(params.Book); v != "" {
			books := e.db.Model(&database.Book{}).Select("id").Where("book_name LIKE ?", like(v))
			q = q.Where("book_id IN (?)", books)
		}
		if v := classifier.NormalizeText(params.Song); v != "" {
			q = q.Where("song_name LIKE ?", like(v))
		}
		if v := classifier.NormalizeText(params.Grade); v != "" {
			q = q.Where("grade = ?", v)
		}
		if v := classifier.NormalizeText(params.Memo); v != "" {
			q = q.Where("memo LIKE ?", like(v))
		}
		for kind, v := range map[database.EntityKind]string{
			database.KindArtist:     params.Artist,
			database.KindLyricist:   params.Lyricist,
			database.KindSongwriter: params.SongWriter,
			database.KindArranger:   params.Arranger,
		} {
			if v = classifier.NormalizeText(v); v != "" {
				q = q.Where("songs.id IN (?)", e.songsCreditedTo(kind, v))
			}
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var songs []database.Song
	err := filtered().
		Preload("Book").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&songs).Error
	return songs, total, err
}

// songsCreditedTo is a subquery of song ids linked to a matching entity name
func (e *Engine) songsCreditedTo(kind database.EntityKind, name string) *gorm.DB {
	link, entity := kind.LinkTable(), kind.Table()
	return e.db.Table(link).
		Select(link+".song_id").
		Joins("JOIN "+entity+" ON "+entity+".id = "+link+"."+kind.LinkColumn()).
		Where(clause.Like{
			Column: clause.Column{Table: entity, Name: kind.NameColumn()},
			Value:  like(name),
		})
}
