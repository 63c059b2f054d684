package sessionguard

import (
	"context"
	"errors"
	"testing"
)

func TestParseRoleClosedSet(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		err  bool
	}{
		{"student", RoleStudent, false},
		{"instructor", RoleInstructor, false},
		{"admin", RoleAdmin, false},
		{"", RoleNone, false},
		{"Student", RoleNone, true},
		{"superuser", RoleNone, true},
		{"ADMIN", RoleNone, true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.err {
			if !errors.Is(err, ErrRoleInvalid) {
				t.Fatalf("%q: expected ErrRoleInvalid, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: expected %v, got %v (%v)", tc.in, tc.want, got, err)
		}
	}
}

func TestRoleStringRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleStudent, RoleInstructor, RoleAdmin} {
		parsed, err := ParseRole(r.String())
		if err != nil || parsed != r {
			t.Fatalf("%v: round trip failed, got %v (%v)", r, parsed, err)
		}
	}
	if RoleNone.String() != "" {
		t.Fatalf("expected empty wire name for RoleNone, got %q", RoleNone.String())
	}
}

func TestRoleValidExcludesRoleNone(t *testing.T) {
	if RoleNone.Valid() {
		t.Fatal("RoleNone must not be valid")
	}
	if Role(42).Valid() {
		t.Fatal("out-of-set role must not be valid")
	}
	if !RoleAdmin.Valid() {
		t.Fatal("RoleAdmin must be valid")
	}
}

func TestSessionEmpty(t *testing.T) {
	if !(Session{}).Empty() {
		t.Fatal("zero session must be empty")
	}
	if (Session{Token: "a.b.c"}).Empty() {
		t.Fatal("session with token is not empty")
	}
	if (Session{Generation: 7}).Empty() == false {
		t.Fatal("generation alone does not make a session non-empty")
	}
}

func TestSessionCloneDetachesIdentity(t *testing.T) {
	id := studentIdentity()
	sess := Session{Identity: &id, Token: testToken, Role: RoleStudent, Authenticated: true}

	clone := sess.clone()
	clone.Identity.Role = RoleAdmin

	if sess.Identity.Role != RoleStudent {
		t.Fatal("expected clone to detach the identity pointer")
	}
}

func TestCurrentPathContext(t *testing.T) {
	ctx := WithCurrentPath(context.Background(), "/courses/42")
	if got := CurrentPathFromContext(ctx); got != "/courses/42" {
		t.Fatalf("expected stored path, got %q", got)
	}
	if got := CurrentPathFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty path from bare context, got %q", got)
	}
}
