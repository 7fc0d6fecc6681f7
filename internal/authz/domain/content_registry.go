package domain

// ContentTypeRegistry records which actions each registered content type
// supports. Populated from module configs during the registration phase;
// read-only afterward, so lookups need no locking.
type ContentTypeRegistry struct {
	capabilities map[string]map[Action]struct{}
}

// NewContentTypeRegistry creates an empty content type registry.
func NewContentTypeRegistry() *ContentTypeRegistry {
	return &ContentTypeRegistry{
		capabilities: make(map[string]map[Action]struct{}),
	}
}

// Register records a content type and its supported actions. Registering the
// same content type twice merges the action sets, so two modules can extend
// one type. Invalid actions fail with ErrInvalidPermissionAction.
func (r *ContentTypeRegistry) Register(capability ContentTypeCapability) error {
	if capability.Name == "" {
		return ErrUnknownContentType
	}

	set, ok := r.capabilities[capability.Name]
	if !ok {
		set = make(map[Action]struct{})
		r.capabilities[capability.Name] = set
	}

	for _, action := range capability.Actions {
		if !action.Valid() {
			return ErrInvalidPermissionAction
		}
		set[action] = struct{}{}
	}

	return nil
}

// Supports reports whether the content type is registered and supports the action.
func (r *ContentTypeRegistry) Supports(contentType string, action Action) bool {
	set, ok := r.capabilities[contentType]
	if !ok {
		return false
	}
	_, ok = set[action]
	return ok
}

// KeyFor builds the permission key for an action on a registered content
// type. Unregistered content types fail with ErrUnknownContentType and
// unsupported actions with ErrInvalidPermissionAction.
func (r *ContentTypeRegistry) KeyFor(contentType string, action Action) (string, error) {
	set, ok := r.capabilities[contentType]
	if !ok {
		return "", ErrUnknownContentType
	}
	if _, ok := set[action]; !ok {
		return "", ErrInvalidPermissionAction
	}
	return PermissionKey(contentType, action)
}

// ContentTypes returns the names of all registered content types.
func (r *ContentTypeRegistry) ContentTypes() []string {
	names := make([]string, 0, len(r.capabilities))
	for name := range r.capabilities {
		names = append(names, name)
	}
	return names
}

// ActionsFor returns the supported actions for a content type.
func (r *ContentTypeRegistry) ActionsFor(contentType string) []Action {
	set, ok := r.capabilities[contentType]
	if !ok {
		return nil
	}
	result := make([]Action, 0, len(set))
	for action := range set {
		result = append(result, action)
	}
	return result
}
