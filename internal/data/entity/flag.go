package entity

import (
	"time"

	"github.com/google/uuid"
)

// Flag is one reporter's report against one review. Never updated.
type Flag struct {
	ReporterID uuid.UUID `db:"reporter_id"`
	ReviewID   ReviewID
	Reason     string    `db:"reason"`
	CreatedAt  time.Time `db:"created_at"`
}

func (f *Flag) Key() FlagKey {
	return FlagKey{ReporterID: f.ReporterID, ReviewID: f.ReviewID}
}
