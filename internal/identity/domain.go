package identity

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Role decides which dashboard a user gets.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an account of the dashboard. Passwords are kept in plaintext.
type User struct {
	ID        string    `json:"id" validate:"required"`
	Username  string    `json:"username" validate:"required"`
	Password  string    `json:"password" validate:"required"`
	Role      Role      `json:"role" validate:"required,oneof=admin user"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the persisted record of who is logged in.
type Session struct {
	User            User `json:"user"`
	IsAuthenticated bool `json:"isAuthenticated"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())
