// Package domain defines the content-scoped authorization model: permissions,
// roles, grants, and the closed action enumeration permission keys derive from.
package domain

// Action is one grantable operation on a content type, including its
// ownership scope. The set is closed: permission keys may only be built
// from these values, never from ad hoc strings.
type Action string

const (
	ActionAdd           Action = "Add"
	ActionViewOwn       Action = "ViewOwn"
	ActionViewAll       Action = "ViewAll"
	ActionViewPublished Action = "ViewPublished"
	ActionEditOwn       Action = "EditOwn"
	ActionEdit          Action = "Edit"
	ActionRemoveOwn     Action = "RemoveOwn"
	ActionRemove        Action = "Remove"
)

// Kind is the base operation before ownership scoping is applied.
type Kind string

const (
	KindAdd    Kind = "add"
	KindView   Kind = "view"
	KindEdit   Kind = "edit"
	KindRemove Kind = "remove"
)

// actions is the closed enumeration used for validity checks.
var actions = map[Action]struct{}{
	ActionAdd:           {},
	ActionViewOwn:       {},
	ActionViewAll:       {},
	ActionViewPublished: {},
	ActionEditOwn:       {},
	ActionEdit:          {},
	ActionRemoveOwn:     {},
	ActionRemove:        {},
}

// Valid reports whether the action belongs to the closed enumeration.
func (a Action) Valid() bool {
	_, ok := actions[a]
	return ok
}

// ActionFor maps a base operation and the caller's ownership of the target
// to a concrete action. Owners are checked against the *Own scope; everyone
// else needs the unscoped (all) variant. Unrecognized kinds fail with
// ErrInvalidPermissionAction rather than silently constructing a bogus key.
func ActionFor(kind Kind, owned bool) (Action, error) {
	switch kind {
	case KindAdd:
		return ActionAdd, nil
	case KindView:
		if owned {
			return ActionViewOwn, nil
		}
		return ActionViewAll, nil
	case KindEdit:
		if owned {
			return ActionEditOwn, nil
		}
		return ActionEdit, nil
	case KindRemove:
		if owned {
			return ActionRemoveOwn, nil
		}
		return ActionRemove, nil
	default:
		return "", ErrInvalidPermissionAction
	}
}

// PermissionKey deterministically builds the permission key for an action on
// a content type, e.g. ("Order", ActionEditOwn) -> "OrderEditOwn". The key
// format is the wire contract between module configuration and the
// authorization service. Injective over (content type, action) because the
// action suffixes are a fixed set and content type names are unique.
func PermissionKey(contentType string, action Action) (string, error) {
	if contentType == "" || !action.Valid() {
		return "", ErrInvalidPermissionAction
	}
	return contentType + string(action), nil
}
