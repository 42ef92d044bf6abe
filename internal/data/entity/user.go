package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is owned by the user directory; this service only reads it.
type User struct {
	Row
	Username string   `db:"username"`
	Email    string   `db:"email"`
	Role     UserRole `db:"role"`
}
