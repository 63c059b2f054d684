package sessionguard

import "errors"

var (
	// ErrMalformedToken is an exported constant or variable used by the session authority.
	ErrMalformedToken = errors.New("malformed bearer token")
	// ErrTamperDetected is an exported constant or variable used by the session authority.
	ErrTamperDetected = errors.New("cross-store role disagreement")
	// ErrAuthRequired is an exported constant or variable used by the session authority.
	ErrAuthRequired = errors.New("authentication required")
	// ErrInsufficientRole is an exported constant or variable used by the session authority.
	ErrInsufficientRole = errors.New("insufficient role")
	// ErrRoleInvalid is an exported constant or variable used by the session authority.
	ErrRoleInvalid = errors.New("invalid role")
	// ErrIdentityRequired is an exported constant or variable used by the session authority.
	ErrIdentityRequired = errors.New("identity required")
	// ErrSnapshotCorrupt is an exported constant or variable used by the session authority.
	ErrSnapshotCorrupt = errors.New("durable snapshot corrupt")
	// ErrSnapshotUnavailable is an exported constant or variable used by the session authority.
	ErrSnapshotUnavailable = errors.New("durable snapshot backend unavailable")
	// ErrNotReady is an exported constant or variable used by the session authority.
	ErrNotReady = errors.New("authority not initialized")
)
