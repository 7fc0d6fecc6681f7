// Package domain defines the user model the authorization engine consumes.
// User lifecycle and session management belong to external collaborators;
// this core only needs identity and role membership.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated caller with their resolved role names.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Roles     []string
	CreatedAt time.Time
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role == name {
			return true
		}
	}
	return false
}
