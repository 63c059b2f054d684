package sessionguard

import (
	"strings"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejectsEmptySnapshotKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.Snapshot.Key = "   "

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected blank snapshot key rejected")
	}
}

func TestValidateRejectsRelativeRedirectPaths(t *testing.T) {
	cfg := defaultConfig()
	cfg.Redirect.LoginPath = "login"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "absolute") {
		t.Fatalf("expected relative path rejected, got %v", err)
	}
}

func TestValidateRejectsRelativeGatePaths(t *testing.T) {
	cfg := defaultConfig()
	cfg.Gate.AllowedEndpoints = append(cfg.Gate.AllowedEndpoints, "api/auth/login")

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected relative allow-list entry rejected")
	}
}

func TestValidateRejectsNonPositiveAuditBuffer(t *testing.T) {
	cfg := defaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected zero audit buffer rejected when audit enabled")
	}
}

func TestCloneConfigDetachesSlices(t *testing.T) {
	cfg := defaultConfig()
	clone := cloneConfig(cfg)

	clone.Gate.AllowedEndpoints[0] = "/changed"
	if cfg.Gate.AllowedEndpoints[0] == "/changed" {
		t.Fatal("expected cloned slices detached from the original")
	}
}

func TestHomeForRoleIsTotal(t *testing.T) {
	cfg := defaultConfig().Redirect

	cases := map[Role]string{
		RoleStudent:    cfg.StudentHome,
		RoleInstructor: cfg.InstructorHome,
		RoleAdmin:      cfg.AdminHome,
		RoleNone:       cfg.LoginPath,
		Role(200):      cfg.LoginPath,
	}
	for role, want := range cases {
		if got := cfg.homeForRole(role); got != want {
			t.Fatalf("role %v: expected %q, got %q", role, want, got)
		}
	}
}
