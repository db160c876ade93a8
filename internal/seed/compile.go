// Package seed turns a JSON snapshot of the catalogue into bulk-insert SQL
// for a PostgreSQL target, and exports such snapshots from the store.
package seed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/palemoky/songbook-catalog/internal/database"
)

const (
	// Header is the first line of every generated file
	Header = "-- Generated Seed Data"
	// ResetHeader introduces the sequence repair statements
	ResetHeader = "-- Reset sequences"
	// DefaultBatchSize is the maximum number of rows per INSERT statement
	DefaultBatchSize = 1000
)

// ErrInputNotFound is returned when the snapshot file does not exist
var ErrInputNotFound = errors.New("seed input not found")

// Row is one record of a snapshot table
type Row map[string]any

// Snapshot is the denormalized entity graph. Songs carry the four id arrays.
type Snapshot struct {
	Books       []Row `json:"books"`
	Artists     []Row `json:"artists"`
	Lyricists   []Row `json:"lyricists"`
	SongWriters []Row `json:"song_writers"`
	Arrangers   []Row `json:"arrangers"`
	Songs       []Row `json:"songs"`
}

// Entities returns the snapshot rows of one entity kind
func (s *Snapshot) Entities(kind database.EntityKind) []Row {
	switch kind {
	case database.KindArtist:
		return s.Artists
	case database.KindLyricist:
		return s.Lyricists
	case database.KindSongwriter:
		return s.SongWriters
	case database.KindArranger:
		return s.Arrangers
	default:
		return nil
	}
}

// TableStats reports what was emitted for one table
type TableStats struct {
	Table      string
	Rows       int
	Statements int
}

var (
	bookColumns = []string{"id", "book_name", "product_code", "created_at"}
	songColumns = []string{"id", "book_id", "song_name", "grade", "memo", "created_at"}
)

// SequenceTables are the tables whose id sequences are repaired after loading
var SequenceTables = []string{
	database.BooksTable,
	database.SongsTable,
	database.KindArtist.Table(),
	database.KindLyricist.Table(),
	database.KindSongwriter.Table(),
	database.KindArranger.Table(),
}

// ParseSnapshot decodes a snapshot, keeping numbers in their literal form
func ParseSnapshot(r io.Reader) (*Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// Compile renders the whole snapshot as SQL text
func Compile(snap *Snapshot, batchSize int) (string, []TableStats) {
	sections := []string{Header}
	var stats []TableStats

	emit := func(table string, columns []string, rows []Row) {
		statements := InsertStatements(table, columns, rows, batchSize)
		stats = append(stats, TableStats{Table: table, Rows: len(rows), Statements: len(statements)})
		if len(statements) > 0 {
			sections = append(sections, strings.Join(statements, "\n\n"))
		}
	}

	emit(database.BooksTable, bookColumns, snap.Books)
	for _, kind := range database.EntityKinds {
		emit(kind.Table(), []string{"id", kind.NameColumn()}, snap.Entities(kind))
	}
	emit(database.SongsTable, songColumns, snap.Songs)
	for _, kind := range database.EntityKinds {
		emit(kind.LinkTable(), []string{"song_id", kind.LinkColumn()}, AssociationRows(snap.Songs, kind))
	}

	sections = append(sections, "\n"+ResetHeader)
	for _, table := range SequenceTables {
		sections = append(sections, fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s));", table, table))
	}

	return strings.Join(sections, "\n\n"), stats
}

// AssociationRows derives link rows from the id arrays embedded in songs,
// in song order then array order.
func AssociationRows(songs []Row, kind database.EntityKind) []Row {
	var rows []Row
	for _, song := range songs {
		ids, _ := song[kind.IDsKey()].([]any)
		for _, id := range ids {
			rows = append(rows, Row{"song_id": song["id"], kind.LinkColumn(): id})
		}
	}
	return rows
}

// InsertStatements renders rows as multi-row INSERT statements of at most
// batchSize rows each. No rows yield no statements.
func InsertStatements(table string, columns []string, rows []Row, batchSize int) []string {
	if len(rows) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteColumn(c)
	}
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES\n", table, strings.Join(quoted, ", "))

	statements := make([]string, 0, (len(rows)+batchSize-1)/batchSize)
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))

		values := make([]string, 0, end-start)
		for _, row := range rows[start:end] {
			literals := make([]string, len(columns))
			for i, c := range columns {
				literals[i] = Literal(row[c])
			}
			values = append(values, "("+strings.Join(literals, ", ")+")")
		}
		statements = append(statements, prefix+strings.Join(values, ",\n")+";")
	}
	return statements
}

// QuoteColumn double-quotes identifiers that are not all lower case
func QuoteColumn(column string) string {
	if strings.ToLower(column) != column {
		return `"` + column + `"`
	}
	return column
}

// Literal renders one value: NULL, an unquoted number, or a single-quoted
// string with embedded single quotes doubled. Nothing else is escaped.
func Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case json.Number:
		return val.String()
	case int:
		return fmt.Sprint(val)
	case int32:
		return fmt.Sprint(val)
	case int64:
		return fmt.Sprint(val)
	case float64:
		return fmt.Sprint(val)
	case string:
		return quote(val)
	case *string:
		if val == nil {
			return "NULL"
		}
		return quote(*val)
	case []any, map[string]any:
		encoded, err := json.Marshal(val)
		if err != nil {
			return quote(fmt.Sprint(val))
		}
		return quote(string(encoded))
	default:
		return quote(fmt.Sprint(val))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// CompileFile reads a snapshot file and writes the SQL atomically. When the
// input is missing nothing is written and ErrInputNotFound is returned.
func CompileFile(input, output string, batchSize int) ([]TableStats, error) {
	f, err := os.Open(input)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, input)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open seed input: %w", err)
	}
	defer f.Close()

	snap, err := ParseSnapshot(f)
	if err != nil {
		return nil, err
	}

	sql, stats := Compile(snap, batchSize)
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := atomic.WriteFile(output, bytes.NewReader([]byte(sql))); err != nil {
		return nil, fmt.Errorf("failed to write seed output: %w", err)
	}
	return stats, nil
}
