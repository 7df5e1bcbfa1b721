package user

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

var ErrNotFound = errors.New("user not found")

// NormalizeEmail is the canonical form stored and looked up everywhere.
// Every write and lookup path must pass addresses through it, otherwise
// a mixed-case address becomes unreachable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User is an account on the platform. Role is fixed at registration and
// never changes afterwards.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	Company      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Sanitize strips the credential digest before the user leaves the core.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	return u
}
