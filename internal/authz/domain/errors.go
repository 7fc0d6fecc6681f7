package domain

import (
	"github.com/orderloop/orderloop/internal/errors"
)

// Authorization domain errors.
var (
	// ErrPermissionNotFound indicates no permission exists for the given key.
	ErrPermissionNotFound = errors.Wrap(errors.ErrNotFound, "permission not found")

	// ErrRoleNotFound indicates no role exists with the given name.
	ErrRoleNotFound = errors.Wrap(errors.ErrNotFound, "role not found")

	// ErrGrantNotFound indicates no grant record exists for a (role, permission) pair.
	ErrGrantNotFound = errors.Wrap(errors.ErrNotFound, "grant not found")

	// ErrDuplicateDefinition indicates two module configs declared the same
	// permission key with different descriptions. Fatal at startup.
	ErrDuplicateDefinition = errors.Wrap(errors.ErrConflict, "duplicate permission definition")

	// ErrInvalidPermissionAction indicates an unrecognized action/scope
	// combination. Programmer error: permission keys are a closed enumeration.
	ErrInvalidPermissionAction = errors.Wrap(errors.ErrInvalidInput, "invalid permission action")

	// ErrUnknownContentType indicates a content type no module config registered.
	ErrUnknownContentType = errors.Wrap(errors.ErrInvalidInput, "unknown content type")
)
