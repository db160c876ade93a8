package database

import "gorm.io/gorm"

// Table names shared by the store, the seed compiler and the read API
const (
	BooksTable = "books"
	SongsTable = "songs"
)

// EntityKind identifies one of the four credited-name tables
type EntityKind string

const (
	KindArtist     EntityKind = "artist"
	KindLyricist   EntityKind = "lyricist"
	KindSongwriter EntityKind = "songwriter"
	KindArranger   EntityKind = "arranger"
)

// EntityKinds lists every kind in persistence order
var EntityKinds = []EntityKind{KindArtist, KindLyricist, KindSongwriter, KindArranger}

type kindInfo struct {
	table       string
	nameColumn  string
	linkTable   string
	linkColumn  string
	idsKey      string
	newRow      func(name string) NamedEntity
	listRows    func(db *gorm.DB) ([]NamedEntity, error)
}

var kinds = map[EntityKind]kindInfo{
	KindArtist: {
		table:       "artists",
		nameColumn:  "Artist_name",
		linkTable:   "song_artist_association",
		linkColumn:  "artist_id",
		idsKey:      "artist_ids",
		newRow:      func(name string) NamedEntity { return &Artist{Name: name} },
		listRows:    listRows[Artist],
	},
	KindLyricist: {
		table:       "lyricists",
		nameColumn:  "lyricist_name",
		linkTable:   "song_lyricist_association",
		linkColumn:  "lyricist_id",
		idsKey:      "lyricist_ids",
		newRow:      func(name string) NamedEntity { return &Lyricist{Name: name} },
		listRows:    listRows[Lyricist],
	},
	KindSongwriter: {
		table:       "songwriters",
		nameColumn:  "song_writer_name",
		linkTable:   "song_writer_association",
		linkColumn:  "song_writer_id",
		idsKey:      "song_writer_ids",
		newRow:      func(name string) NamedEntity { return &Songwriter{Name: name} },
		listRows:    listRows[Songwriter],
	},
	KindArranger: {
		table:       "arrangers",
		nameColumn:  "arranger_name",
		linkTable:   "song_arranger_association",
		linkColumn:  "arranger_id",
		idsKey:      "arranger_ids",
		newRow:      func(name string) NamedEntity { return &Arranger{Name: name} },
		listRows:    listRows[Arranger],
	},
}

// listRows loads every row of one entity table ordered by id
func listRows[T NamedEntity](db *gorm.DB) ([]NamedEntity, error) {
	var rows []T
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]NamedEntity, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out, nil
}

// IsValid checks if the kind is one of the registered kinds
func (k EntityKind) IsValid() bool {
	_, ok := kinds[k]
	return ok
}

// Table returns the entity table name
func (k EntityKind) Table() string { return kinds[k].table }

// NameColumn returns the column holding the entity name
func (k EntityKind) NameColumn() string { return kinds[k].nameColumn }

// LinkTable returns the song association table for the kind
func (k EntityKind) LinkTable() string { return kinds[k].linkTable }

// LinkColumn returns the association column referencing the entity
func (k EntityKind) LinkColumn() string { return kinds[k].linkColumn }

// IDsKey returns the per-song id list key of the kind in a snapshot document
func (k EntityKind) IDsKey() string { return kinds[k].idsKey }
