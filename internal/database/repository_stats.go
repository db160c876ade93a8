package database

// Statistics and counting methods

// CountTable returns the number of rows in a table
func (r *Repository) CountTable(table string) (int64, error) {
	var count int64
	err := r.db.Table(table).Count(&count).Error
	return count, err
}

// CountedTables lists every catalogue table in reporting order
func CountedTables() []string {
	tables := []string{BooksTable, SongsTable}
	for _, kind := range EntityKinds {
		tables = append(tables, kind.Table())
	}
	for _, kind := range EntityKinds {
		tables = append(tables, kind.LinkTable())
	}
	return tables
}

// Counts returns the row count of every catalogue table
func (r *Repository) Counts() ([]TableCount, error) {
	tables := CountedTables()
	counts := make([]TableCount, 0, len(tables))
	for _, table := range tables {
		n, err := r.CountTable(table)
		if err != nil {
			return nil, err
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}

// GetStatistics returns overall statistics
func (r *Repository) GetStatistics() (*Statistics, error) {
	counts, err := r.Counts()
	if err != nil {
		return nil, err
	}

	stats := &Statistics{Tables: counts}
	for _, c := range counts {
		switch c.Table {
		case BooksTable:
			stats.TotalBooks = c.Rows
		case SongsTable:
			stats.TotalSongs = c.Rows
		case KindArtist.Table():
			stats.TotalArtists = c.Rows
		case KindLyricist.Table():
			stats.TotalLyricists = c.Rows
		case KindSongwriter.Table():
			stats.TotalSongwriters = c.Rows
		case KindArranger.Table():
			stats.TotalArrangers = c.Rows
		}
	}
	return stats, nil
}
