package domain

import (
	"time"

	"github.com/google/uuid"
)

// Permission is one grantable capability, identified by its unique key.
// Created at module registration time and immutable thereafter.
type Permission struct {
	ID          uuid.UUID
	Key         string
	Description string
	Group       string
	CreatedAt   time.Time
}

// Role is a named set of permissions users can hold.
type Role struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// RolePermissionGrant relates one role to one permission. At most one grant
// exists per (role, permission) pair; absence means "not granted".
type RolePermissionGrant struct {
	ID           uuid.UUID
	RoleID       uuid.UUID
	PermissionID uuid.UUID
	Granted      bool
	CreatedAt    time.Time
}

// PermissionDefinition declares a non-derived permission in a module config,
// e.g. GenerateOwnApiToken.
type PermissionDefinition struct {
	Key         string
	Description string
}

// ContentTypeCapability associates a content type name with the actions it
// supports. It drives which permission keys can legally be constructed for
// that type.
type ContentTypeCapability struct {
	Name    string
	Actions []Action
}

// DefaultGrant seeds a grant for a content-derived permission at registration.
type DefaultGrant struct {
	ContentType string
	Action      Action
	Roles       []string
}

// KeyGrant seeds a grant for an explicitly declared permission key.
type KeyGrant struct {
	Key   string
	Roles []string
}

// ModuleConfig is the startup-time declaration bundle contributed by one
// functional area. It is consumed exactly once by the permission registry
// before the server accepts requests and never mutated afterward.
type ModuleConfig struct {
	Name          string
	Group         string
	Permissions   []PermissionDefinition
	Roles         []string
	ContentTypes  []ContentTypeCapability
	DefaultGrants []DefaultGrant
	KeyGrants     []KeyGrant
}
