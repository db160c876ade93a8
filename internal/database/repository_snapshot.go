package database

import "fmt"

// Full-table reads used by the snapshot export

// AllBooks returns every book ordered by id
func (r *Repository) AllBooks() ([]Book, error) {
	var books []Book
	err := r.db.Order("id").Find(&books).Error
	return books, err
}

// AllSongs returns every song ordered by id
func (r *Repository) AllSongs() ([]Song, error) {
	var songs []Song
	err := r.db.Order("id").Find(&songs).Error
	return songs, err
}

// ListEntities returns every entity of a kind ordered by id
func (r *Repository) ListEntities(kind EntityKind) ([]NamedRecord, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	rows, err := kinds[kind].listRows(r.db.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind.Table(), err)
	}
	records := make([]NamedRecord, len(rows))
	for i, row := range rows {
		records[i] = NamedRecord{ID: row.EntityID(), Name: row.EntityName()}
	}
	return records, nil
}

// SongLinkIDs returns the linked entity ids of every song for one kind
func (r *Repository) SongLinkIDs(kind EntityKind) (map[int64][]int64, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	var links []struct {
		SongID   int64
		EntityID int64
	}
	err := r.db.Table(kind.LinkTable()).
		Select("song_id, " + kind.LinkColumn() + " AS entity_id").
		Order("song_id").Order(kind.LinkColumn()).
		Scan(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind.LinkTable(), err)
	}

	out := make(map[int64][]int64)
	for _, l := range links {
		out[l.SongID] = append(out[l.SongID], l.EntityID)
	}
	return out, nil
}
