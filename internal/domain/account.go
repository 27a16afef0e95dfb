package domain

import (
	"fmt"
	"time"
)

// Role enumerates the mutually exclusive account roles.
type Role string

const (
	RoleStaff     Role = "staff"
	RoleSupporter Role = "supporter"
	RoleAdmin     Role = "admin"
)

// ParseRole validates a wire value.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleStaff, RoleSupporter, RoleAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Account is a helpdesk login. Role never changes after creation.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Suspended    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the account may act.
func (a *Account) Active() bool {
	return a != nil && !a.Suspended
}
