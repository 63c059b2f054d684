package sessionguard

import "fmt"

// Role is the closed set of actor roles issued by the backend.
//
//	Docs: docs/access.md
type Role uint8

const (
	// RoleNone is an exported constant or variable used by the session authority.
	RoleNone Role = iota
	// RoleStudent is an exported constant or variable used by the session authority.
	RoleStudent
	// RoleInstructor is an exported constant or variable used by the session authority.
	RoleInstructor
	// RoleAdmin is an exported constant or variable used by the session authority.
	RoleAdmin
)

// String returns the wire name of the role, or "" for RoleNone.
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleInstructor:
		return "instructor"
	case RoleAdmin:
		return "admin"
	default:
		return ""
	}
}

// Valid reports whether r is a member of the closed role set. RoleNone is
// not valid: an absent role never satisfies a role requirement.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleInstructor || r == RoleAdmin
}

// ParseRole maps a wire role name onto the closed [Role] set. Anything that
// does not parse is rejected; there is no silent default role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "student":
		return RoleStudent, nil
	case "instructor":
		return RoleInstructor, nil
	case "admin":
		return RoleAdmin, nil
	case "":
		return RoleNone, nil
	default:
		return RoleNone, fmt.Errorf("%w: %q", ErrRoleInvalid, s)
	}
}

// Identity is the backend-issued record of who is acting. It is immutable
// for the lifetime of a session: replaced wholesale on re-login, never
// field-patched except through [Store.RefreshRole].
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// Session is the canonical record of the current authenticated actor.
//
// Invariants enforced by [Store] on every mutation:
//
//	I1: Role equals Identity.Role whenever both are present.
//	I2: Authenticated equals (Identity != nil && Token != "").
//	I3: Token, when present, is structurally well-formed (token.ValidFormat).
//
// Generation increments on every login and logout; in-flight responses
// carrying an older generation are stale and must be ignored.
type Session struct {
	Identity      *Identity
	Token         string
	Role          Role
	Authenticated bool
	Generation    uint64
}

// Empty reports whether the session carries no actor at all.
func (s Session) Empty() bool {
	return s.Identity == nil && s.Token == "" && s.Role == RoleNone && !s.Authenticated
}

func (s Session) clone() Session {
	out := s
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	return out
}

// AccessRequest names the roles a capability requires. An empty RequiredRoles
// means "authenticated only, any role". Multiple required roles are OR'd.
type AccessRequest struct {
	RequiredRoles []Role

	// UnauthorizedPath overrides the configured redirect target for this
	// request only. Empty means use [RedirectConfig.UnauthorizedPath].
	UnauthorizedPath string
}

// DecisionKind defines a public type used by the session authority.
//
// DecisionKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DecisionKind uint8

const (
	// DecisionAllow is an exported constant or variable used by the session authority.
	DecisionAllow DecisionKind = iota
	// DecisionLogin is an exported constant or variable used by the session authority.
	DecisionLogin
	// DecisionUnauthorized is an exported constant or variable used by the session authority.
	DecisionUnauthorized
)

// Decision is the tagged result of an access evaluation: allow the request,
// challenge for login, or redirect to the unauthorized page.
type Decision struct {
	Kind DecisionKind

	// ReturnPath is set for DecisionLogin: the path the actor was trying to
	// reach, preserved so a successful login can resume it.
	ReturnPath string

	// Path is set for DecisionUnauthorized: the page to redirect to.
	Path string
}

// Allowed reports whether the decision permits the request.
func (d Decision) Allowed() bool {
	return d.Kind == DecisionAllow
}

// RedirectIntent is the remembered destination a login challenge is about to
// discard. Nonce makes each capture distinct; an intent is consumed at most
// once.
type RedirectIntent struct {
	Path  string
	Nonce string
}
