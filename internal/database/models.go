package database

import (
	"time"
)

// Book represents one product page of the publisher catalogue
type Book struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"             json:"id"`
	Name        string    `gorm:"column:book_name;not null;index"      json:"book_name"`
	ProductCode string    `gorm:"column:product_code;not null;uniqueIndex" json:"product_code"`
	CreatedAt   time.Time `gorm:"autoCreateTime"                       json:"created_at"`
}

// TableName specifies the table name for Book
func (Book) TableName() string {
	return BooksTable
}

// Song represents one track row of a book
type Song struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"     json:"id"`
	BookID    int64     `gorm:"column:book_id;not null;index" json:"book_id"`
	Book      *Book     `gorm:"foreignKey:BookID"            json:"book,omitempty"`
	Name      string    `gorm:"column:song_name;not null;index" json:"song_name"`
	Grade     *string   `gorm:"column:grade"                 json:"grade"` // nil when the row showed no grade
	Memo      string    `gorm:"column:memo"                  json:"memo"`
	CreatedAt time.Time `gorm:"autoCreateTime"               json:"created_at"`
}

// TableName specifies the table name for Song
func (Song) TableName() string {
	return SongsTable
}

// NamedEntity is a credited person or group. Names are not unique.
type NamedEntity interface {
	EntityID() int64
	EntityName() string
}

// Artist represents a performer
type Artist struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name string `gorm:"column:Artist_name;not null;index" json:"Artist_name"`
}

func (Artist) TableName() string    { return "artists" }
func (a Artist) EntityID() int64    { return a.ID }
func (a Artist) EntityName() string { return a.Name }

// Lyricist represents a lyric writer
type Lyricist struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"            json:"id"`
	Name string `gorm:"column:lyricist_name;not null;index" json:"lyricist_name"`
}

func (Lyricist) TableName() string    { return "lyricists" }
func (l Lyricist) EntityID() int64    { return l.ID }
func (l Lyricist) EntityName() string { return l.Name }

// Songwriter represents a composer
type Songwriter struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"               json:"id"`
	Name string `gorm:"column:song_writer_name;not null;index" json:"song_writer_name"`
}

func (Songwriter) TableName() string    { return "songwriters" }
func (s Songwriter) EntityID() int64    { return s.ID }
func (s Songwriter) EntityName() string { return s.Name }

// Arranger represents an arranger
type Arranger struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"            json:"id"`
	Name string `gorm:"column:arranger_name;not null;index" json:"arranger_name"`
}

func (Arranger) TableName() string    { return "arrangers" }
func (a Arranger) EntityID() int64    { return a.ID }
func (a Arranger) EntityName() string { return a.Name }

// Association rows carry no primary key; repeated pairs are allowed.

type SongArtist struct {
	SongID   int64 `gorm:"column:song_id;not null;index"`
	ArtistID int64 `gorm:"column:artist_id;not null;index"`
}

func (SongArtist) TableName() string { return "song_artist_association" }

type SongLyricist struct {
	SongID     int64 `gorm:"column:song_id;not null;index"`
	LyricistID int64 `gorm:"column:lyricist_id;not null;index"`
}

func (SongLyricist) TableName() string { return "song_lyricist_association" }

type SongWriterLink struct {
	SongID       int64 `gorm:"column:song_id;not null;index"`
	SongWriterID int64 `gorm:"column:song_writer_id;not null;index"`
}

func (SongWriterLink) TableName() string { return "song_writer_association" }

type SongArranger struct {
	SongID     int64 `gorm:"column:song_id;not null;index"`
	ArrangerID int64 `gorm:"column:arranger_id;not null;index"`
}

func (SongArranger) TableName() string { return "song_arranger_association" }

// NamedRecord is an entity row flattened for listings and snapshots
type NamedRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Credits holds the credited names of one song, by role
type Credits struct {
	Artists     []string `json:"artists"`
	Lyricists   []string `json:"lyricists"`
	Songwriters []string `json:"song_writers"`
	Arrangers   []string `json:"arrangers"`
}

// TableCount is the row count of one table
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// Statistics holds overall catalogue statistics
type Statistics struct {
	TotalBooks       int64        `json:"total_books"`
	TotalSongs       int64        `json:"total_songs"`
	TotalArtists     int64        `json:"total_artists"`
	TotalLyricists   int64        `json:"total_lyricists"`
	TotalSongwriters int64        `json:"total_song_writers"`
	TotalArrangers   int64        `json:"total_arrangers"`
	Tables           []TableCount `json:"tables"`
}
