package sessionguard

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/PLP-MERN-Stack-Development/mern-final-project-graceakhati-dev-sub001/snapshot"
)

// Structurally valid bearer tokens for tests. No signature verification
// happens client-side, so the segments only need to be non-empty.
const (
	testToken        = "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1c2VyLTEifQ.c2ln"
	testTokenUpdated = "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1c2VyLTEifQ.bmV3"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newTestAuthority(t *testing.T) (*Authority, *miniredis.Miniredis) {
	t.Helper()

	mr, rdb := newTestRedis(t)

	authority, err := New().
		WithRedis(rdb).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(authority.Close)

	return authority, mr
}

func studentIdentity() Identity {
	return Identity{
		ID:    "user-1",
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  RoleStudent,
	}
}

func mustLogin(t *testing.T, a *Authority, identity Identity, bearer string) {
	t.Helper()
	if err := a.Login(context.Background(), identity, bearer); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
}

func testRecord(id, role, tok string, authed bool) snapshot.Record {
	r := role
	tk := tok
	return snapshot.Record{
		User: &snapshot.User{
			ID:    id,
			Name:  "Alice",
			Email: "alice@example.com",
			Role:  role,
		},
		Token:           &tk,
		IsAuthenticated: authed,
		Role:            &r,
	}
}
