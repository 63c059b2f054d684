package sessionguard

import (
	"context"
	"time"
)

// Evaluator turns a required-role set and the current session into an access
// decision. Defaults are fail-closed: no session redirects to login, an
// absent role never satisfies a non-empty requirement, and multiple required
// roles are OR'd, never AND'd.
//
//	Docs: docs/access.md
type Evaluator struct {
	obs     *observer
	store   *Store
	planner *Planner
	cfg     RedirectConfig
}

// Evaluate decides whether the current actor may proceed to currentPath with
// the given requirement. The session read runs reconciliation first, so a
// decision is never made against unverified state. A login redirect captures
// currentPath as the redirect intent to resume after authentication.
func (e *Evaluator) Evaluate(ctx context.Context, currentPath string, req AccessRequest) Decision {
	if e == nil || e.store == nil {
		return Decision{Kind: DecisionLogin, ReturnPath: currentPath}
	}

	if e.obs != nil && e.obs.metrics.LatencyEnabled() {
		start := time.Now()
		defer e.obs.metrics.Observe(MetricEvaluateLatency, time.Since(start))
	}

	sess := e.store.Current(ctx)

	if !sess.Authenticated {
		if e.planner != nil {
			e.planner.Capture(currentPath)
		}
		e.obs.inc(MetricAccessLoginRedirect)
		e.obs.emit(ctx, auditEventAccessDenied, false, sess, currentPath, ErrAuthRequired, nil)
		return Decision{Kind: DecisionLogin, ReturnPath: currentPath}
	}

	if len(req.RequiredRoles) > 0 && !roleSatisfies(sess.Role, req.RequiredRoles) {
		target := req.UnauthorizedPath
		if target == "" {
			target = e.cfg.UnauthorizedPath
		}
		e.obs.inc(MetricAccessUnauthorized)
		e.obs.emit(ctx, auditEventAccessDenied, false, sess, currentPath, ErrInsufficientRole, func() map[string]string {
			return map[string]string{
				"required": rolesString(req.RequiredRoles),
			}
		})
		return Decision{Kind: DecisionUnauthorized, Path: target}
	}

	e.obs.inc(MetricAccessAllowed)
	return Decision{Kind: DecisionAllow}
}

// roleSatisfies is a membership test over the OR'd requirement set. RoleNone
// never satisfies anything; it is not a wildcard.
func roleSatisfies(have Role, required []Role) bool {
	if !have.Valid() {
		return false
	}
	for _, r := range required {
		if have == r {
			return true
		}
	}
	return false
}

func rolesString(roles []Role) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += ","
		}
		out += r.String()
	}
	return out
}
