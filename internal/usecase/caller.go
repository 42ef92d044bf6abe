package usecase

import (
	"film-catalog/internal/data/entity"

	"github.com/google/uuid"
)

// Caller is the already-authenticated identity a request acts as.
type Caller struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func (c Caller) IsAdmin() bool {
	return c.Role == entity.RoleAdmin
}

// CanModify reports whether the caller owns the resource or is an admin.
func (c Caller) CanModify(ownerID uuid.UUID) bool {
	return c.UserID == ownerID || c.IsAdmin()
}
