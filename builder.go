package sessionguard

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/PLP-MERN-Stack-Development/mern-final-project-graceakhati-dev-sub001/snapshot"
)

// Builder defines a public type used by the session authority.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build wires the authority: snapshot store, session store, reconciler,
// evaluator, and planner, then runs one reconcile pass so a restarted
// process rehydrates its session from the durable snapshot before the first
// access decision.
func (b *Builder) Build() (*Authority, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	obs := &observer{
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
		instance: uuid.NewString(),
	}

	snapshots := snapshot.NewStore(b.redis, cfg.Snapshot.Key)

	store := newStore(snapshots, obs)
	store.reconciler = &Reconciler{
		obs:       obs,
		snapshots: snapshots,
	}

	planner := NewPlanner(cfg.Redirect)
	evaluator := &Evaluator{
		obs:     obs,
		store:   store,
		planner: planner,
		cfg:     cfg.Redirect,
	}

	authority := &Authority{
		config:    cfg,
		store:     store,
		evaluator: evaluator,
		planner:   planner,
		audit:     obs.audit,
		metrics:   obs.metrics,
		obs:       obs,
	}

	// Rehydration pass: an existing snapshot becomes the live session now
	// rather than on the first guarded navigation.
	_ = store.Current(context.Background())

	b.built = true

	return authority, nil
}
