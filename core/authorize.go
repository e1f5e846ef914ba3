package core

// Authorize checks an authenticated identity against the set of roles
// acceptable for a resource. It is a pure function of the identity's role:
// no storage, no side effects.
//
// An empty required set means any authenticated identity is acceptable.
// Identities carrying a role outside the closed set are rejected with
// ErrUnknownRole rather than silently treated as RoleUser.
//
// Authentication always precedes authorization: callers must short-circuit
// with an authentication failure before invoking Authorize, so "no identity"
// and "wrong role" are never conflated.
func Authorize(id Identity, required ...Role) error {
	if !id.Role.Valid() {
		return ErrUnknownRole
	}
	if len(required) == 0 {
		return nil
	}
	for _, r := range required {
		if id.Role == r {
			return nil
		}
	}
	return ErrForbidden
}
