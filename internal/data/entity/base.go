package entity

import (
	"time"

	"github.com/google/uuid"
)

// Row is the surrogate key and insert time of directory-style tables.
type Row struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

// NewRow assigns a fresh ID stamped at now.
func NewRow(now time.Time) Row {
	return Row{ID: uuid.New(), CreatedAt: now}
}

// EditableRow is a Row that also tracks its last modification.
type EditableRow struct {
	Row
	UpdatedAt time.Time `db:"updated_at"`
}

func NewEditableRow(now time.Time) EditableRow {
	return EditableRow{Row: NewRow(now), UpdatedAt: now}
}

func (r *EditableRow) Touch(now time.Time) {
	r.UpdatedAt = now
}
