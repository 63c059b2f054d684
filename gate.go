package sessionguard

import (
	"context"
	"fmt"
	"net/http"
)

// Gate wraps outbound API calls. It blocks calls to protected endpoints
// without a valid session, attaches the bearer token, and collapses the
// session when the backend answers 401 — unless the response belongs to a
// superseded session generation, in which case it is ignored.
//
// Gate implements [net/http.RoundTripper]; install it as (or around) a
// client transport.
//
//	Docs: docs/gate.md
type Gate struct {
	obs       *observer
	base      http.RoundTripper
	store     *Store
	evaluator *Evaluator
	planner   *Planner
	cfg       GateConfig
}

// RoundTrip gates a single outbound request.
//
// Endpoints on the unauthenticated allow-list (login, register, OAuth
// exchange) pass through untouched. Every other endpoint requires an
// authenticated session: the evaluator runs first (reconciliation included),
// and a denial aborts the call with [ErrAuthRequired] before any bytes go
// out, triggering the same redirect bookkeeping as a route guard.
func (g *Gate) RoundTrip(req *http.Request) (*http.Response, error) {
	if g == nil || g.store == nil {
		return nil, ErrNotReady
	}

	ctx := req.Context()
	endpoint := req.URL.Path
	currentPath := CurrentPathFromContext(ctx)
	if currentPath == "" {
		currentPath = endpoint
	}

	if g.allowed(endpoint) {
		return g.transport().RoundTrip(req)
	}

	decision := g.evaluator.Evaluate(ctx, currentPath, AccessRequest{})
	if !decision.Allowed() {
		g.obs.inc(MetricGateBlocked)
		g.obs.emit(ctx, auditEventGateBlocked, false, Session{}, endpoint, ErrAuthRequired, nil)
		return nil, fmt.Errorf("%w: %s", ErrAuthRequired, endpoint)
	}

	sess := g.store.snapshotState()
	generation := sess.Generation

	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(ctx)
	out.Header.Set("Authorization", "Bearer "+sess.Token)

	resp, err := g.transport().RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		g.handleUnauthorized(ctx, currentPath, generation)
	}

	return resp, nil
}

// handleUnauthorized collapses the session after a backend 401. Responses
// from a superseded generation are ignored: the session that issued the call
// is already gone, and a stale 401 must not tear down its successor.
func (g *Gate) handleUnauthorized(ctx context.Context, currentPath string, generation uint64) {
	if g.store.Generation() != generation {
		g.obs.inc(MetricStaleResponseIgnored)
		g.obs.emit(ctx, auditEventStaleResponse, true, Session{Generation: generation}, currentPath, nil, nil)
		return
	}

	if g.authEntry(currentPath) {
		return
	}

	if g.planner != nil {
		g.planner.Capture(currentPath)
	}
	if err := g.store.Logout(ctx); err != nil {
		g.obs.emit(ctx, auditEventGateCollapse, false, Session{}, currentPath, err, nil)
		return
	}

	g.obs.inc(MetricGateCollapse)
	g.obs.emit(ctx, auditEventGateCollapse, true, Session{}, currentPath, nil, nil)
}

func (g *Gate) transport() http.RoundTripper {
	if g.base != nil {
		return g.base
	}
	return http.DefaultTransport
}

func (g *Gate) allowed(endpoint string) bool {
	for _, p := range g.cfg.AllowedEndpoints {
		if endpoint == p {
			return true
		}
	}
	return false
}

func (g *Gate) authEntry(path string) bool {
	for _, p := range g.cfg.AuthEntryPaths {
		if path == p {
			return true
		}
	}
	return false
}
