package sessionguard

import (
	"context"
	"errors"
	"log"

	"github.com/PLP-MERN-Stack-Development/mern-final-project-graceakhati-dev-sub001/snapshot"
	"github.com/PLP-MERN-Stack-Development/mern-final-project-graceakhati-dev-sub001/token"
)

// Reconciler compares the durable snapshot against the in-memory record on
// every read and resolves divergence by invalidating the session. It is the
// only component allowed to declare a session invalid due to cross-store
// disagreement, and it never merges conflicting state: ambiguity always
// resolves to an empty session and a forced re-login.
//
//	Docs: docs/reconcile.md
type Reconciler struct {
	obs       *observer
	snapshots *snapshot.Store
}

// NewReconciler creates a [Reconciler] over the given snapshot store.
func NewReconciler(snapshots *snapshot.Store) *Reconciler {
	return &Reconciler{snapshots: snapshots}
}

// Reconcile returns the session both stores can agree on.
//
// Resolution order:
//
//  1. Snapshot absent or unparsable: treat as empty, clearing any stale
//     in-memory state. Corrupted values are discarded wholesale, never
//     repaired in place.
//  2. Snapshot token fails structural validation: discard the snapshot,
//     return empty.
//  3. Snapshot role and in-memory role both present but different: tamper.
//     Both stores are cleared; neither role survives.
//  4. Otherwise the snapshot is authoritative for rehydration (in-memory
//     empty) and the in-memory record is authoritative in steady state.
//
// An unreachable snapshot backend also fails closed to an empty session,
// but nothing is deleted: the durable record may still be intact.
func (r *Reconciler) Reconcile(ctx context.Context, inMem Session) Session {
	if r == nil || r.snapshots == nil {
		return Session{}
	}

	rec, err := r.snapshots.Load(ctx)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		if !inMem.Empty() {
			r.obs.inc(MetricSnapshotMissing)
			r.obs.emit(ctx, auditEventSnapshotMissing, false, inMem, "", nil, nil)
		}
		return Session{}
	case errors.Is(err, snapshot.ErrCorrupt):
		r.discardSnapshot(ctx)
		r.obs.inc(MetricSnapshotCorrupt)
		r.obs.emit(ctx, auditEventSnapshotCorrupt, false, inMem, "", ErrSnapshotCorrupt, nil)
		return Session{}
	case err != nil:
		r.obs.inc(MetricSnapshotUnavailable)
		r.obs.emit(ctx, auditEventSnapshotUnavailable, false, inMem, "", ErrSnapshotUnavailable, nil)
		return Session{}
	}

	// An all-null record is the same as no record.
	if rec.Empty() {
		return Session{}
	}

	snapSess, ok := sessionFromRecord(rec)
	if !ok {
		r.discardSnapshot(ctx)
		r.obs.inc(MetricSnapshotCorrupt)
		r.obs.emit(ctx, auditEventSnapshotCorrupt, false, inMem, "", ErrSnapshotCorrupt, nil)
		return Session{}
	}

	if inMem.Role != RoleNone && snapSess.Role != RoleNone && inMem.Role != snapSess.Role {
		r.discardSnapshot(ctx)
		r.obs.inc(MetricTamperDetected)
		r.obs.emit(ctx, auditEventTamperDetected, false, inMem, "", ErrTamperDetected, func() map[string]string {
			return map[string]string{
				"memory_role":   inMem.Role.String(),
				"snapshot_role": snapSess.Role.String(),
			}
		})
		return Session{}
	}

	if inMem.Empty() {
		r.obs.inc(MetricRehydrated)
		r.obs.emit(ctx, auditEventRehydrated, true, snapSess, "", nil, nil)
		return snapSess
	}

	return inMem
}

func (r *Reconciler) discardSnapshot(ctx context.Context) {
	if err := r.snapshots.Delete(ctx); err != nil {
		log.Print("sessionguard: discarding invalid snapshot failed")
	}
}

// sessionFromRecord rebuilds a session from a persisted record, rejecting
// anything the store could not have written: a non-empty record must carry
// identity and token together, the token must be structurally valid, roles
// must parse into the closed set, and the top-level role must agree with
// the identity's role. A record with a role but no token can never satisfy
// the authenticated invariant and is rejected rather than granted.
func sessionFromRecord(rec snapshot.Record) (Session, bool) {
	tok := rec.TokenValue()

	if rec.User == nil || tok == "" {
		return Session{}, false
	}
	if !rec.IsAuthenticated {
		return Session{}, false
	}
	if !token.ValidFormat(tok) {
		return Session{}, false
	}

	userRole, err := ParseRole(rec.User.Role)
	if err != nil {
		return Session{}, false
	}
	topRole, err := ParseRole(rec.RoleValue())
	if err != nil {
		return Session{}, false
	}
	if topRole != RoleNone && userRole != RoleNone && topRole != userRole {
		return Session{}, false
	}

	role := topRole
	if role == RoleNone {
		role = userRole
	}

	return Session{
		Identity: &Identity{
			ID:    rec.User.ID,
			Name:  rec.User.Name,
			Email: rec.User.Email,
			Role:  role,
		},
		Token:         tok,
		Role:          role,
		Authenticated: true,
	}, true
}
