package sessionguard

import (
	"context"
	"net/http"
)

// Authority defines a public type used by the session authority.
//
// Authority instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Authority struct {
	config    Config
	store     *Store
	evaluator *Evaluator
	planner   *Planner
	audit     *auditDispatcher
	metrics   *Metrics
	obs       *observer
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Authority) Close() {
	if a == nil {
		return
	}
	if a.audit != nil {
		a.audit.Close()
	}
}

// Store returns the session store.
func (a *Authority) Store() *Store {
	if a == nil {
		return nil
	}
	return a.store
}

// Evaluator returns the access evaluator.
func (a *Authority) Evaluator() *Evaluator {
	if a == nil {
		return nil
	}
	return a.evaluator
}

// Planner returns the redirect intent planner.
func (a *Authority) Planner() *Planner {
	if a == nil {
		return nil
	}
	return a.planner
}

// Login populates the session from a backend-issued identity and token.
func (a *Authority) Login(ctx context.Context, identity Identity, bearer string) error {
	if a == nil || a.store == nil {
		return ErrNotReady
	}
	return a.store.Login(ctx, identity, bearer)
}

// Logout clears the session and its durable snapshot.
func (a *Authority) Logout(ctx context.Context) error {
	if a == nil || a.store == nil {
		return ErrNotReady
	}
	return a.store.Logout(ctx)
}

// RefreshRole applies a role returned by a profile refresh.
func (a *Authority) RefreshRole(ctx context.Context, role Role) error {
	if a == nil || a.store == nil {
		return ErrNotReady
	}
	return a.store.RefreshRole(ctx, role)
}

// Current returns the reconciled session record.
func (a *Authority) Current(ctx context.Context) Session {
	if a == nil || a.store == nil {
		return Session{}
	}
	return a.store.Current(ctx)
}

// Evaluate decides whether the current actor may proceed to currentPath.
func (a *Authority) Evaluate(ctx context.Context, currentPath string, req AccessRequest) Decision {
	if a == nil || a.evaluator == nil {
		return Decision{Kind: DecisionLogin, ReturnPath: currentPath}
	}
	return a.evaluator.Evaluate(ctx, currentPath, req)
}

// Subscribe registers a session change listener. The returned function
// removes it.
func (a *Authority) Subscribe(fn Subscriber) func() {
	if a == nil || a.store == nil {
		return func() {}
	}
	return a.store.Subscribe(fn)
}

// ResumePath returns the destination to navigate to after a login success:
// the captured redirect intent if one is pending, otherwise the role's
// default dashboard. Callers must re-evaluate access for the returned path;
// consuming an intent is not an access grant.
func (a *Authority) ResumePath(role Role) string {
	if a == nil || a.planner == nil {
		return ""
	}
	return a.planner.Consume(role)
}

// LoginPath returns the configured login page.
func (a *Authority) LoginPath() string {
	if a == nil {
		return "/login"
	}
	return a.config.Redirect.LoginPath
}

// Transport wraps base with the interceptor gate. A nil base uses
// [net/http.DefaultTransport].
func (a *Authority) Transport(base http.RoundTripper) *Gate {
	if a == nil {
		return nil
	}
	return &Gate{
		obs:       a.obs,
		base:      base,
		store:     a.store,
		evaluator: a.evaluator,
		planner:   a.planner,
		cfg:       a.config.Gate,
	}
}

// Client returns an HTTP client whose transport is gated by this authority.
func (a *Authority) Client() *http.Client {
	return &http.Client{Transport: a.Transport(nil)}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Authority) AuditDropped() uint64 {
	if a == nil || a.audit == nil {
		return 0
	}
	return a.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Authority) MetricsSnapshot() MetricsSnapshot {
	if a == nil || a.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return a.metrics.Snapshot()
}
