package auth

import "clinicbook/internal/errors"

// Policy is a predicate over a verified principal. Policies never see
// unverified requests: absence of a credential fails before any policy runs.
type Policy func(p Principal) bool

// LoggedIn admits any verified principal.
func LoggedIn() Policy {
	return func(Principal) bool { return true }
}

// AdminOnly admits principals with the admin role.
func AdminOnly() Policy {
	return func(p Principal) bool { return p.Role == RoleAdmin }
}

// SelfOrAdmin admits the named subject or any admin.
func SelfOrAdmin(target string) Policy {
	return func(p Principal) bool {
		return p.Role == RoleAdmin || p.Subject == target
	}
}

// Authorize evaluates a policy against an optional principal. A missing
// principal is always Unauthorized, never treated as anonymous-allowed; a
// verified principal failing the policy is Forbidden, a distinct error.
func Authorize(p *Principal, policy Policy) (*Principal, error) {
	if p == nil {
		return nil, errors.Unauthorized("authentication required")
	}
	if !policy(*p) {
		return nil, errors.Forbidden("insufficient privileges")
	}
	return p, nil
}
