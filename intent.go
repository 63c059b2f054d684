package sessionguard

import (
	"sync"

	"github.com/google/uuid"
)

// Planner remembers the navigation target a login challenge is about to
// discard and hands it back exactly once after authentication. With no
// captured intent, login success falls back to the role's default dashboard;
// the fallback table is total over the closed role set.
//
//	Docs: docs/access.md
type Planner struct {
	cfg RedirectConfig

	mu     sync.Mutex
	intent *RedirectIntent
}

// NewPlanner creates a [Planner] with the given redirect destinations.
func NewPlanner(cfg RedirectConfig) *Planner {
	return &Planner{cfg: cfg}
}

// Capture stores path as the pending redirect intent, superseding any
// earlier capture. Empty paths are ignored.
func (p *Planner) Capture(path string) {
	if p == nil || path == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.intent = &RedirectIntent{
		Path:  path,
		Nonce: uuid.NewString(),
	}
}

// Consume returns the destination to resume after a successful login: the
// captured intent if one is pending, otherwise the role's default dashboard.
// The intent is cleared on first consumption; a second call falls back to
// the role default.
//
// Consuming an intent does not bypass access evaluation — the resumed
// navigation must be re-evaluated against the authenticated role.
func (p *Planner) Consume(role Role) string {
	if p == nil {
		return ""
	}

	p.mu.Lock()
	pending := p.intent
	p.intent = nil
	p.mu.Unlock()

	if pending != nil {
		return pending.Path
	}
	return p.cfg.homeForRole(role)
}

// Pending reports whether an intent is currently captured, without
// consuming it.
func (p *Planner) Pending() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intent != nil
}
