package sessionguard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/PLP-MERN-Stack-Development/mern-final-project-graceakhati-dev-sub001/snapshot"
)

func TestLoginPopulatesSessionAtomically(t *testing.T) {
	authority, _ := newTestAuthority(t)

	mustLogin(t, authority, studentIdentity(), testToken)

	sess := authority.Current(context.Background())
	if !sess.Authenticated {
		t.Fatal("expected authenticated session")
	}
	if sess.Identity == nil || sess.Identity.ID != "user-1" {
		t.Fatalf("expected identity user-1, got %+v", sess.Identity)
	}
	if sess.Role != RoleStudent || sess.Identity.Role != RoleStudent {
		t.Fatalf("expected role and identity role to agree on student, got %v / %v", sess.Role, sess.Identity.Role)
	}
	if sess.Token != testToken {
		t.Fatalf("expected stored token, got %q", sess.Token)
	}
}

func TestLoginWritesDurableSnapshotBeforeCommit(t *testing.T) {
	authority, mr := newTestAuthority(t)

	mustLogin(t, authority, studentIdentity(), testToken)

	raw, err := mr.Get("sessionguard:session")
	if err != nil {
		t.Fatalf("expected persisted snapshot: %v", err)
	}

	var rec snapshot.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("persisted snapshot does not decode: %v", err)
	}
	if rec.User == nil || rec.User.ID != "user-1" || rec.User.Role != "student" {
		t.Fatalf("unexpected persisted user: %+v", rec.User)
	}
	if rec.TokenValue() != testToken || !rec.IsAuthenticated || rec.RoleValue() != "student" {
		t.Fatalf("unexpected persisted record: %+v", rec)
	}
}

func TestLoginRejectsMalformedToken(t *testing.T) {
	authority, _ := newTestAuthority(t)

	for _, bearer := range []string{"", "abc", "a.b", "a..c", "a.b.c.d"} {
		err := authority.Login(context.Background(), studentIdentity(), bearer)
		if !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("token %q: expected ErrMalformedToken, got %v", bearer, err)
		}
	}

	if sess := authority.Current(context.Background()); !sess.Empty() {
		t.Fatalf("expected no state change after rejected login, got %+v", sess)
	}
	if got := authority.MetricsSnapshot().Counters[MetricLoginRejected]; got != 5 {
		t.Fatalf("expected 5 rejected logins counted, got %d", got)
	}
}

func TestLoginRequiresIdentityID(t *testing.T) {
	authority, _ := newTestAuthority(t)

	id := studentIdentity()
	id.ID = ""
	err := authority.Login(context.Background(), id, testToken)
	if !errors.Is(err, ErrIdentityRequired) {
		t.Fatalf("expected ErrIdentityRequired, got %v", err)
	}
}

func TestLoginWithoutRoleStaysRoleNone(t *testing.T) {
	authority, _ := newTestAuthority(t)

	id := studentIdentity()
	id.Role = RoleNone
	mustLogin(t, authority, id, testToken)

	sess := authority.Current(context.Background())
	if !sess.Authenticated {
		t.Fatal("expected authenticated session")
	}
	if sess.Role != RoleNone {
		t.Fatalf("expected absent role to stay RoleNone, got %v", sess.Role)
	}
}

func TestLogoutClearsSessionAndSnapshot(t *testing.T) {
	authority, mr := newTestAuthority(t)

	mustLogin(t, authority, studentIdentity(), testToken)
	if err := authority.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if sess := authority.Current(context.Background()); !sess.Empty() {
		t.Fatalf("expected empty session after logout, got %+v", sess)
	}
	if mr.Exists("sessionguard:session") {
		t.Fatal("expected durable snapshot deleted on logout")
	}
}

func TestLogoutIdempotentStillAdvancesGeneration(t *testing.T) {
	authority, _ := newTestAuthority(t)
	store := authority.Store()

	before := store.Generation()
	if err := authority.Logout(context.Background()); err != nil {
		t.Fatalf("logout of empty session failed: %v", err)
	}
	if got := store.Generation(); got != before+1 {
		t.Fatalf("expected generation %d, got %d", before+1, got)
	}
}

func TestGenerationAdvancesAcrossLoginLogout(t *testing.T) {
	authority, _ := newTestAuthority(t)
	store := authority.Store()

	mustLogin(t, authority, studentIdentity(), testToken)
	gen1 := store.Generation()

	if err := authority.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	gen2 := store.Generation()

	mustLogin(t, authority, studentIdentity(), testTokenUpdated)
	gen3 := store.Generation()

	if gen2 <= gen1 || gen3 <= gen2 {
		t.Fatalf("expected strictly increasing generations, got %d %d %d", gen1, gen2, gen3)
	}
}

func TestRefreshRoleUpdatesRoleAndIdentity(t *testing.T) {
	authority, _ := newTestAuthority(t)

	mustLogin(t, authority, studentIdentity(), testToken)
	if err := authority.RefreshRole(context.Background(), RoleInstructor); err != nil {
		t.Fatalf("RefreshRole failed: %v", err)
	}

	sess := authority.Current(context.Background())
	if sess.Role != RoleInstructor {
		t.Fatalf("expected instructor, got %v", sess.Role)
	}
	if sess.Identity == nil || sess.Identity.Role != RoleInstructor {
		t.Fatal("expected identity role to move with the session role")
	}
}

func TestRefreshRoleNoopWithoutIdentity(t *testing.T) {
	authority, _ := newTestAuthority(t)

	if err := authority.RefreshRole(context.Background(), RoleAdmin); err != nil {
		t.Fatalf("RefreshRole on empty session failed: %v", err)
	}
	if sess := authority.Current(context.Background()); !sess.Empty() {
		t.Fatalf("expected session to stay empty, got %+v", sess)
	}
}

func TestRefreshRoleRejectsInvalidRole(t *testing.T) {
	authority, _ := newTestAuthority(t)

	mustLogin(t, authority, studentIdentity(), testToken)
	if err := authority.RefreshRole(context.Background(), RoleNone); !errors.Is(err, ErrRoleInvalid) {
		t.Fatalf("expected ErrRoleInvalid, got %v", err)
	}
}

func TestSubscriberNotifiedExactlyOncePerMutation(t *testing.T) {
	authority, _ := newTestAuthority(t)

	var calls int
	var last Session
	unsubscribe := authority.Subscribe(func(sess Session) {
		calls++
		last = sess
	})
	defer unsubscribe()

	mustLogin(t, authority, studentIdentity(), testToken)

	if calls != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", calls)
	}
	if !last.Authenticated || last.Role != RoleStudent {
		t.Fatalf("unexpected notified session: %+v", last)
	}

	if err := authority.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 notifications after logout, got %d", calls)
	}
	if !last.Empty() {
		t.Fatalf("expected empty session notified on logout, got %+v", last)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	authority, _ := newTestAuthority(t)

	var calls int
	unsubscribe := authority.Subscribe(func(Session) { calls++ })
	unsubscribe()

	mustLogin(t, authority, studentIdentity(), testToken)
	if calls != 0 {
		t.Fatalf("expected no notifications after unsubscribe, got %d", calls)
	}
}

// A subscriber reacting to a login by logging out must not deadlock or nest:
// the triggered mutation is queued behind the current one and both changes
// are observed in order.
func TestSubscriberTriggeredMutationIsQueuedNotNested(t *testing.T) {
	authority, _ := newTestAuthority(t)

	var seen []bool
	unsubscribe := authority.Subscribe(func(sess Session) {
		seen = append(seen, sess.Authenticated)
		if sess.Authenticated {
			if err := authority.Logout(context.Background()); err != nil {
				t.Errorf("queued logout failed: %v", err)
			}
		}
	})
	defer unsubscribe()

	mustLogin(t, authority, studentIdentity(), testToken)

	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Fatalf("expected [authenticated, empty] notifications, got %v", seen)
	}
	if sess := authority.Current(context.Background()); !sess.Empty() {
		t.Fatalf("expected empty session after re-entrant logout, got %+v", sess)
	}
}

func TestPersistFailureLeavesMemoryUntouched(t *testing.T) {
	authority, mr := newTestAuthority(t)
	store := authority.Store()

	before := store.Generation()
	mr.Close()

	err := authority.Login(context.Background(), studentIdentity(), testToken)
	if !errors.Is(err, snapshot.ErrUnavailable) {
		t.Fatalf("expected snapshot.ErrUnavailable, got %v", err)
	}

	if got := store.Generation(); got != before {
		t.Fatalf("expected generation unchanged on failed persist, got %d want %d", got, before)
	}
	if sess := store.snapshotState(); !sess.Empty() {
		t.Fatalf("expected in-memory record untouched, got %+v", sess)
	}
}
