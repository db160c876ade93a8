package seed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/songbook-catalog/internal/database"
)

func parse(t *testing.T, doc string) *Snapshot {
	t.Helper()
	snap, err := ParseSnapshot(strings.NewReader(doc))
	require.NoError(t, err)
	return snap
}

func TestLiteral(t *testing.T) {
	grade := "5"
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"json integer", json.Number("42"), "42"},
		{"json float", json.Number("1.50"), "1.50"},
		{"int64", int64(7), "7"},
		{"float", 2.5, "2.5"},
		{"string", "Ado", "'Ado'"},
		{"single quote doubled", "O'Brien", "'O''Brien'"},
		{"other characters untouched", `a\b"c;--`, `'a\b"c;--'`},
		{"string pointer", &grade, "'5'"},
		{"nil string pointer", (*string)(nil), "NULL"},
		{"bool is quoted", true, "'true'"},
		{"array is quoted json", []any{json.Number("1")}, "'[1]'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(tt.in))
		})
	}
}

func TestQuoteColumn(t *testing.T) {
	assert.Equal(t, `"Artist_name"`, QuoteColumn("Artist_name"))
	assert.Equal(t, "artist_id", QuoteColumn("artist_id"))
}

func TestInsertStatementsBatching(t *testing.T) {
	rows := make([]Row, 2001)
	for i := range rows {
		rows[i] = Row{"id": int64(i + 1), "arranger_name": "x"}
	}

	statements := InsertStatements("arrangers", []string{"id", "arranger_name"}, rows, DefaultBatchSize)
	require.Len(t, statements, 3)

	sizes := make([]int, len(statements))
	for i, s := range statements {
		sizes[i] = strings.Count(s, "\n(")
	}
	assert.Equal(t, []int{1000, 1000, 1}, sizes)
	assert.True(t, strings.HasSuffix(statements[2], "\n(2001, 'x');"))
}

func TestInsertStatementsEmpty(t *testing.T) {
	assert.Empty(t, InsertStatements("books", bookColumns, nil, DefaultBatchSize))
}

func TestInsertStatementsShape(t *testing.T) {
	snap := parse(t, `{"artists": [{"id": 1, "Artist_name": "O'Brien"}, {"id": 2, "Artist_name": "DISH//"}]}`)

	statements := InsertStatements("artists", []string{"id", "Artist_name"}, snap.Artists, DefaultBatchSize)
	require.Len(t, statements, 1)
	assert.Equal(t, "INSERT INTO artists (id, \"Artist_name\") VALUES\n(1, 'O''Brien'),\n(2, 'DISH//');", statements[0])
}

var tuplePattern = regexp.MustCompile(`\((\d+), (\d+)\)`)

func TestAssociationRoundTrip(t *testing.T) {
	snap := parse(t, `{"songs": [{"id": 9, "book_id": 1, "song_name": "猫", "artist_ids": [1, 2]}]}`)

	sql, _ := Compile(snap, DefaultBatchSize)

	var stmt string
	for _, block := range strings.Split(sql, "\n\n") {
		if strings.HasPrefix(block, "INSERT INTO song_artist_association") {
			stmt = block
		}
	}
	require.NotEmpty(t, stmt)
	assert.True(t, strings.HasPrefix(stmt, "INSERT INTO song_artist_association (song_id, artist_id) VALUES\n"))

	var tuples [][2]string
	for _, m := range tuplePattern.FindAllStringSubmatch(stmt, -1) {
		tuples = append(tuples, [2]string{m[1], m[2]})
	}
	assert.Equal(t, [][2]string{{"9", "1"}, {"9", "2"}}, tuples)
	assert.NotContains(t, sql, "song_lyricist_association", "empty association tables emit nothing")
}

func TestAssociationRowsOrder(t *testing.T) {
	snap := parse(t, `{"songs": [
		{"id": 2, "arranger_ids": [5, 3]},
		{"id": 1, "arranger_ids": [4]},
		{"id": 3}
	]}`)

	rows := AssociationRows(snap.Songs, database.KindArranger)
	require.Len(t, rows, 3)
	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = Literal(r["song_id"]) + ":" + Literal(r["arranger_id"])
	}
	assert.Equal(t, []string{"2:5", "2:3", "1:4"}, got)
}

const sampleSnapshot = `{
  "books": [{"id": 1, "book_name": "ピアノソロ", "product_code": "GTP01", "created_at": "2024-01-01T00:00:00Z"}],
  "artists": [{"id": 1, "Artist_name": "DISH//"}],
  "lyricists": [{"id": 1, "lyricist_name": "あいみょん"}],
  "song_writers": [{"id": 1, "song_writer_name": "あいみょん"}],
  "arrangers": [],
  "songs": [{
    "id": 1, "book_id": 1, "song_name": "猫", "grade": null, "memo": "ドラマ主題歌",
    "created_at": "2024-01-01T00:00:00Z",
    "artist_ids": [1], "lyricist_ids": [1], "song_writer_ids": [1], "arranger_ids": []
  }]
}`

func TestCompile(t *testing.T) {
	sql, stats := Compile(parse(t, sampleSnapshot), DefaultBatchSize)

	want := strings.Join([]string{
		"-- Generated Seed Data",
		"INSERT INTO books (id, book_name, product_code, created_at) VALUES\n(1, 'ピアノソロ', 'GTP01', '2024-01-01T00:00:00Z');",
		"INSERT INTO artists (id, \"Artist_name\") VALUES\n(1, 'DISH//');",
		"INSERT INTO lyricists (id, lyricist_name) VALUES\n(1, 'あいみょん');",
		"INSERT INTO songwriters (id, song_writer_name) VALUES\n(1, 'あいみょん');",
		"INSERT INTO songs (id, book_id, song_name, grade, memo, created_at) VALUES\n(1, 1, '猫', NULL, 'ドラマ主題歌', '2024-01-01T00:00:00Z');",
		"INSERT INTO song_artist_association (song_id, artist_id) VALUES\n(1, 1);",
		"INSERT INTO song_lyricist_association (song_id, lyricist_id) VALUES\n(1, 1);",
		"INSERT INTO song_writer_association (song_id, song_writer_id) VALUES\n(1, 1);",
		"\n-- Reset sequences",
		"SELECT setval(pg_get_serial_sequence('books', 'id'), (SELECT MAX(id) FROM books));",
		"SELECT setval(pg_get_serial_sequence('songs', 'id'), (SELECT MAX(id) FROM songs));",
		"SELECT setval(pg_get_serial_sequence('artists', 'id'), (SELECT MAX(id) FROM artists));",
		"SELECT setval(pg_get_serial_sequence('lyricists', 'id'), (SELECT MAX(id) FROM lyricists));",
		"SELECT setval(pg_get_serial_sequence('songwriters', 'id'), (SELECT MAX(id) FROM songwriters));",
		"SELECT setval(pg_get_serial_sequence('arrangers', 'id'), (SELECT MAX(id) FROM arrangers));",
	}, "\n\n")
	assert.Equal(t, want, sql)

	require.Len(t, stats, 10)
	assert.Equal(t, TableStats{Table: "books", Rows: 1, Statements: 1}, stats[0])
	assert.Equal(t, TableStats{Table: "arrangers", Rows: 0, Statements: 0}, stats[4])
	assert.Equal(t, TableStats{Table: "song_arranger_association", Rows: 0, Statements: 0}, stats[9])
}

func TestCompileIsDeterministic(t *testing.T) {
	first, _ := Compile(parse(t, sampleSnapshot), DefaultBatchSize)
	second, _ := Compile(parse(t, sampleSnapshot), DefaultBatchSize)
	assert.Equal(t, first, second)
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "output.json")
	output := filepath.Join(dir, "supabase", "seed.sql")
	require.NoError(t, os.WriteFile(input, []byte(sampleSnapshot), 0o644))

	stats, err := CompileFile(input, output, DefaultBatchSize)
	require.NoError(t, err)
	assert.Len(t, stats, 10)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), Header+"\n\n"))
}

func TestCompileFileMissingInput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "seed.sql")

	_, err := CompileFile(filepath.Join(dir, "missing.json"), output, DefaultBatchSize)
	assert.ErrorIs(t, err, ErrInputNotFound)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no partial output file")
}

func TestCompileFileInvalidInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "output.json")
	output := filepath.Join(dir, "seed.sql")
	require.NoError(t, os.WriteFile(input, []byte(`{"books": [`), 0o644))

	_, err := CompileFile(input, output, DefaultBatchSize)
	assert.Error(t, err)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}
