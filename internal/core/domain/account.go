package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the permission class carried by an account and copied into every
// token issued for it.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// ParseRole normalises s and returns the matching role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Account is a login-capable principal. PasswordHash never leaves the server.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AccountPatch lists the account fields an administrator may change.
type AccountPatch struct {
	Email    *string `json:"email"    bson:"email,omitempty"    validate:"omitempty,email"`
	Username *string `json:"username" bson:"username,omitempty" validate:"omitempty,min=1"`
	Role     *Role   `json:"role"     bson:"role,omitempty"     validate:"omitempty,oneof=admin teacher student"`
}

// Normalise trims and lowercases the email and trims the username so that
// edited accounts stay reachable by the exact-match lookups used at login.
func (p *AccountPatch) Normalise() error {
	if p.Email != nil {
		email := NormaliseEmail(*p.Email)
		if email == "" {
			return fmt.Errorf("%w: email must not be blank", ErrValidation)
		}
		p.Email = &email
	}
	if p.Username != nil {
		username := strings.TrimSpace(*p.Username)
		if username == "" {
			return fmt.Errorf("%w: username must not be blank", ErrValidation)
		}
		p.Username = &username
	}
	return nil
}

// NormaliseEmail is the canonical form under which account emails are stored
// and looked up.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Principal is the verified identity forwarded to handlers by the gate.
type Principal struct {
	AccountID int64
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}
