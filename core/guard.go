package core

// Authorization guard: pure predicates over (actor, resource owner).
// Callers decide the HTTP-level mapping of the returned sentinels.

// IsAdmin reports whether the actor is an authenticated administrator.
func IsAdmin(actor *Actor) bool {
	return actor != nil && actor.Member != nil && actor.Member.IsAdmin
}

// IsSelfOrAdmin reports whether the actor owns the resource or is an
// administrator.
func IsSelfOrAdmin(actor *Actor, ownerID string) bool {
	if actor == nil || actor.Member == nil {
		return false
	}
	return actor.Member.ID == ownerID || actor.Member.IsAdmin
}

// RequireAdmin fails with ErrUnauthenticated when there is no actor and
// ErrForbidden when the actor is not an administrator.
func RequireAdmin(actor *Actor) error {
	if actor == nil || actor.Member == nil {
		return ErrUnauthenticated
	}
	if !actor.Member.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// RequireSelfOrAdmin fails unless the actor owns the resource or is an
// administrator.
func RequireSelfOrAdmin(actor *Actor, ownerID string) error {
	if actor == nil || actor.Member == nil {
		return ErrUnauthenticated
	}
	if !IsSelfOrAdmin(actor, ownerID) {
		return ErrForbidden
	}
	return nil
}

// RequireSelf fails unless the actor owns the resource. Administrators are
// deliberately not granted a bypass here; order address changes are
// owner-only.
func RequireSelf(actor *Actor, ownerID string) error {
	if actor == nil || actor.Member == nil {
		return ErrUnauthenticated
	}
	if actor.Member.ID != ownerID {
		return ErrForbidden
	}
	return nil
}
