package database

import (
	"fmt"

	"gorm.io/gorm/clause"
)

// CreateBook inserts a book and fills in its generated ID
func (r *Repository) CreateBook(book *Book) error {
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to insert book %s: %w", book.ProductCode, err)
	}
	return nil
}

// CreateSong inserts a song and fills in its generated ID
func (r *Repository) CreateSong(song *Song) error {
	if err := r.db.Omit("Book").Create(song).Error; err != nil {
		return fmt.Errorf("failed to insert song %q: %w", song.Name, err)
	}
	return nil
}

// FindEntityID returns the smallest id of an entity with exactly this name
func (r *Repository) FindEntityID(kind EntityKind, name string) (int64, bool, error) {
	if !kind.IsValid() {
		return 0, false, fmt.Errorf("unknown entity kind %q", kind)
	}

	var ids []int64
	err := r.db.Table(kind.Table()).
		Where(clause.Eq{Column: clause.Column{Name: kind.NameColumn()}, Value: name}).
		Order("id").Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up %s %q: %w", kind, name, err)
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// CreateEntity inserts a new entity row and returns its id
func (r *Repository) CreateEntity(kind EntityKind, name string) (int64, error) {
	if !kind.IsValid() {
		return 0, fmt.Errorf("unknown entity kind %q", kind)
	}

	row := kinds[kind].newRow(name)
	if err := r.db.Create(row).Error; err != nil {
		return 0, fmt.Errorf("failed to insert %s %q: %w", kind, name, err)
	}
	return row.EntityID(), nil
}

// LinkSong records that an entity is credited on a song. Repeated pairs are kept.
func (r *Repository) LinkSong(kind EntityKind, songID, entityID int64) error {
	if !kind.IsValid() {
		return fmt.Errorf("unknown entity kind %q", kind)
	}

	err := r.db.Table(kind.LinkTable()).Create(map[string]any{
		"song_id":         songID,
		kind.LinkColumn(): entityID,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to link song %d to %s %d: %w", songID, kind, entityID, err)
	}
	return nil
}
