package sessionguard

import (
	"context"
	"log"
	"sync"

	"github.com/PLP-MERN-Stack-Development/mern-final-project-graceakhati-dev-sub001/snapshot"
	"github.com/PLP-MERN-Stack-Development/mern-final-project-graceakhati-dev-sub001/token"
)

// Subscriber is invoked after every committed session mutation with a copy
// of the new record. Subscribers may trigger further mutations synchronously;
// those are queued behind the current one, never nested.
type Subscriber func(Session)

// Store owns the only mutable session record in the process. Every mutation
// is atomic across the four session fields, persists the durable snapshot
// before committing, and notifies subscribers exactly once. All other
// components hold read-only views refreshed through [Store.Current].
//
//	Docs: docs/session.md
type Store struct {
	obs        *observer
	snapshots  *snapshot.Store
	reconciler *Reconciler

	mu          sync.Mutex
	current     Session
	generation  uint64
	dispatching bool
	queue       []mutation
	subscribers map[int]Subscriber
	nextSubID   int
}

type mutation struct {
	name    string
	apply   func(cur Session) (Session, bool)
	bump    bool
	persist bool
}

func newStore(snapshots *snapshot.Store, obs *observer) *Store {
	return &Store{
		obs:         obs,
		snapshots:   snapshots,
		subscribers: make(map[int]Subscriber),
	}
}

// Login populates the session from a successful login, signup, or OAuth
// exchange. The four fields are set atomically, the durable snapshot is
// written before the in-memory commit, and subscribers are notified once.
//
// Login rejects structurally invalid tokens ([ErrMalformedToken]) and
// identities without an ID ([ErrIdentityRequired]) before any state changes.
// A login response that omits a role stays RoleNone; it is never defaulted.
func (s *Store) Login(ctx context.Context, identity Identity, bearer string) error {
	if s == nil || s.snapshots == nil {
		return ErrNotReady
	}
	if identity.ID == "" {
		s.obs.inc(MetricLoginRejected)
		s.obs.emit(ctx, auditEventLoginRejected, false, Session{}, "", ErrIdentityRequired, nil)
		return ErrIdentityRequired
	}
	if identity.Role != RoleNone && !identity.Role.Valid() {
		s.obs.inc(MetricLoginRejected)
		s.obs.emit(ctx, auditEventLoginRejected, false, Session{}, "", ErrRoleInvalid, nil)
		return ErrRoleInvalid
	}
	if !token.ValidFormat(bearer) {
		s.obs.inc(MetricLoginRejected)
		s.obs.emit(ctx, auditEventLoginRejected, false, Session{}, "", ErrMalformedToken, func() map[string]string {
			return map[string]string{
				"user_id": identity.ID,
				"reason":  "token_format",
			}
		})
		return ErrMalformedToken
	}

	id := identity
	next := Session{
		Identity:      &id,
		Token:         bearer,
		Role:          id.Role,
		Authenticated: true,
	}

	err := s.mutate(ctx, mutation{
		name: "login",
		apply: func(Session) (Session, bool) {
			return next.clone(), true
		},
		bump:    true,
		persist: true,
	})
	if err != nil {
		s.obs.inc(MetricLoginRejected)
		return err
	}

	s.obs.inc(MetricLoginSuccess)
	s.obs.emit(ctx, auditEventLoginSuccess, true, next, "", nil, nil)
	return nil
}

// Logout clears the session and deletes the durable snapshot. Idempotent:
// logging out an empty session succeeds, still advancing the generation so
// any in-flight responses are marked stale.
func (s *Store) Logout(ctx context.Context) error {
	if s == nil || s.snapshots == nil {
		return ErrNotReady
	}

	err := s.mutate(ctx, mutation{
		name: "logout",
		apply: func(Session) (Session, bool) {
			return Session{}, true
		},
		bump:    true,
		persist: true,
	})
	if err != nil {
		return err
	}

	s.obs.inc(MetricLogout)
	s.obs.emit(ctx, auditEventLogout, true, s.snapshotState(), "", nil, nil)
	return nil
}

// RefreshRole updates the session role after a profile refresh returned a
// role differing from the cached one. No-op when no identity is present.
// The identity's role moves with it so the role/identity agreement invariant
// holds through the change.
func (s *Store) RefreshRole(ctx context.Context, role Role) error {
	if s == nil || s.snapshots == nil {
		return ErrNotReady
	}
	if !role.Valid() {
		return ErrRoleInvalid
	}

	err := s.mutate(ctx, mutation{
		name: "refresh_role",
		apply: func(cur Session) (Session, bool) {
			if cur.Identity == nil {
				return cur, false
			}
			next := cur.clone()
			next.Role = role
			next.Identity.Role = role
			return next, true
		},
		persist: true,
	})
	if err != nil {
		return err
	}

	s.obs.inc(MetricRoleUpdated)
	s.obs.emit(ctx, auditEventRoleUpdated, true, s.snapshotState(), "", nil, nil)
	return nil
}

// Current returns the session record after reconciling it against the
// durable snapshot. This is the only sanctioned read path: callers never see
// a record the reconciler has not confirmed.
func (s *Store) Current(ctx context.Context) Session {
	if s == nil {
		return Session{}
	}

	s.mu.Lock()
	inMem := s.current.clone()
	inMem.Generation = s.generation
	s.mu.Unlock()

	if s.reconciler == nil {
		return inMem
	}

	resolved := s.reconciler.Reconcile(ctx, inMem)
	if sameSessionState(resolved, inMem) {
		return inMem
	}

	// The reconciler already settled the durable side; only the in-memory
	// record moves here. Rehydration and forced invalidation both count as
	// login/logout-grade transitions for the generation counter.
	_ = s.mutate(ctx, mutation{
		name: "reconcile_commit",
		apply: func(Session) (Session, bool) {
			return resolved.clone(), true
		},
		bump: true,
	})

	return s.snapshotState()
}

// Generation returns the current session generation. Responses issued under
// an older generation are stale and must not collapse the session.
func (s *Store) Generation() uint64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Subscribe registers a listener invoked after every committed mutation.
// The returned function removes the listener.
func (s *Store) Subscribe(fn Subscriber) func() {
	if s == nil || fn == nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// snapshotState reads the committed record without reconciling. Internal
// callers only; external reads go through Current.
func (s *Store) snapshotState() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.current.clone()
	out.Generation = s.generation
	return out
}

// mutate serializes all mutations through a single dispatch loop. A mutation
// arriving while another is dispatching (a subscriber callback logging out,
// a reconcile commit during notification) is queued and applied afterwards,
// never nested. Queued mutations report failures to the log; their
// validation already ran in the public method.
func (s *Store) mutate(ctx context.Context, m mutation) error {
	s.mu.Lock()
	if s.dispatching {
		s.queue = append(s.queue, m)
		s.mu.Unlock()
		return nil
	}
	s.dispatching = true
	s.mu.Unlock()

	err := s.runMutation(ctx, m)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.dispatching = false
			s.mu.Unlock()
			return err
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		if qErr := s.runMutation(ctx, next); qErr != nil {
			log.Print("sessionguard: queued " + next.name + " failed")
		}
	}
}

func (s *Store) runMutation(ctx context.Context, m mutation) error {
	s.mu.Lock()
	next, changed := m.apply(s.current)
	if !changed {
		s.mu.Unlock()
		return nil
	}
	gen := s.generation
	if m.bump {
		gen++
	}
	next.Generation = gen
	s.mu.Unlock()

	if m.persist {
		// Durable first: on failure the in-memory record stays untouched so
		// the two stores cannot diverge through this path.
		var perr error
		if next.Empty() {
			perr = s.snapshots.Delete(ctx)
		} else {
			perr = s.snapshots.Save(ctx, recordFromSession(next))
		}
		if perr != nil {
			s.obs.emit(ctx, auditEventPersistFailed, false, next, "", ErrSnapshotUnavailable, func() map[string]string {
				return map[string]string{
					"mutation": m.name,
				}
			})
			return perr
		}
	}

	s.mu.Lock()
	s.generation = gen
	s.current = next
	subs := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next.clone())
	}

	return nil
}

// sameSessionState compares everything but the generation counter.
func sameSessionState(a, b Session) bool {
	if a.Token != b.Token || a.Role != b.Role || a.Authenticated != b.Authenticated {
		return false
	}
	if (a.Identity == nil) != (b.Identity == nil) {
		return false
	}
	if a.Identity != nil && *a.Identity != *b.Identity {
		return false
	}
	return true
}

func recordFromSession(sess Session) snapshot.Record {
	rec := snapshot.Record{
		IsAuthenticated: sess.Authenticated,
	}
	if sess.Identity != nil {
		rec.User = &snapshot.User{
			ID:    sess.Identity.ID,
			Name:  sess.Identity.Name,
			Email: sess.Identity.Email,
			Role:  sess.Identity.Role.String(),
		}
	}
	if sess.Token != "" {
		t := sess.Token
		rec.Token = &t
	}
	if sess.Role != RoleNone {
		r := sess.Role.String()
		rec.Role = &r
	}
	return rec
}
