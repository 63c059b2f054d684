package sessionguard

import (
	"errors"
	"strings"
)

// Config defines a public type used by the session authority.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Snapshot SnapshotConfig
	Redirect RedirectConfig
	Gate     GateConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
SNAPSHOT CONFIG
====================================
*/

// SnapshotConfig defines a public type used by the session authority.
//
// SnapshotConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SnapshotConfig struct {
	// Key is the single durable key the session mirror lives under.
	Key string
}

/*
====================================
REDIRECT CONFIG
====================================
*/

// RedirectConfig defines a public type used by the session authority.
//
// RedirectConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedirectConfig struct {
	LoginPath        string
	UnauthorizedPath string

	// Role default destinations after a login with no captured intent.
	// The table must stay total over the closed role set.
	StudentHome    string
	InstructorHome string
	AdminHome      string
}

/*
====================================
GATE CONFIG
====================================
*/

// GateConfig defines a public type used by the session authority.
//
// GateConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GateConfig struct {
	// AllowedEndpoints are API paths reachable without a session
	// (login, register, OAuth exchange).
	AllowedEndpoints []string

	// AuthEntryPaths are navigation paths where a backend 401 must not
	// collapse the session again (the user is already at the login flow).
	AuthEntryPaths []string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by the session authority.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by the session authority.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the storefront defaults: dashboard paths per role,
// the standard auth endpoints on the gate allow-list, and metrics enabled.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Snapshot: SnapshotConfig{
			Key: "sessionguard:session",
		},
		Redirect: RedirectConfig{
			LoginPath:        "/login",
			UnauthorizedPath: "/unauthorized",
			StudentHome:      "/student/dashboard",
			InstructorHome:   "/instructor/dashboard",
			AdminHome:        "/admin/dashboard",
		},
		Gate: GateConfig{
			AllowedEndpoints: []string{
				"/api/auth/login",
				"/api/auth/register",
				"/api/auth/oauth/callback",
			},
			AuthEntryPaths: []string{
				"/login",
				"/register",
			},
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Gate.AllowedEndpoints = append([]string(nil), cfg.Gate.AllowedEndpoints...)
	out.Gate.AuthEntryPaths = append([]string(nil), cfg.Gate.AuthEntryPaths...)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Snapshot.Key) == "" {
		return errors.New("snapshot key must not be empty")
	}

	paths := map[string]string{
		"LoginPath":        c.Redirect.LoginPath,
		"UnauthorizedPath": c.Redirect.UnauthorizedPath,
		"StudentHome":      c.Redirect.StudentHome,
		"InstructorHome":   c.Redirect.InstructorHome,
		"AdminHome":        c.Redirect.AdminHome,
	}
	for name, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return errors.New("redirect " + name + " must be an absolute path")
		}
	}

	for _, p := range c.Gate.AllowedEndpoints {
		if !strings.HasPrefix(p, "/") {
			return errors.New("gate allowed endpoints must be absolute paths")
		}
	}
	for _, p := range c.Gate.AuthEntryPaths {
		if !strings.HasPrefix(p, "/") {
			return errors.New("gate auth entry paths must be absolute paths")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive when audit is enabled")
	}

	return nil
}

// homeForRole resolves the role default destination table. The switch is
// exhaustive over the closed role set; RoleNone falls back to the login path
// rather than any privileged destination.
func (c RedirectConfig) homeForRole(r Role) string {
	switch r {
	case RoleStudent:
		return c.StudentHome
	case RoleInstructor:
		return c.InstructorHome
	case RoleAdmin:
		return c.AdminHome
	default:
		return c.LoginPath
	}
}
