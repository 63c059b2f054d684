package sessionguard

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess        = "login_success"
	auditEventLoginRejected       = "login_rejected"
	auditEventLogout              = "logout"
	auditEventRoleUpdated         = "role_updated"
	auditEventRehydrated          = "session_rehydrated"
	auditEventTamperDetected      = "tamper_detected"
	auditEventSnapshotCorrupt     = "snapshot_corrupt"
	auditEventSnapshotMissing     = "snapshot_missing"
	auditEventSnapshotUnavailable = "snapshot_unavailable"
	auditEventAccessDenied        = "access_denied"
	auditEventGateBlocked         = "gate_blocked"
	auditEventGateCollapse        = "gate_session_collapsed"
	auditEventStaleResponse       = "stale_response_ignored"
	auditEventPersistFailed       = "persist_failed"
)

// AuditErrorCode defines a public type used by the session authority.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrMalformedToken      AuditErrorCode = "malformed_token"
	auditErrTamperDetected      AuditErrorCode = "tamper_detected"
	auditErrAuthRequired        AuditErrorCode = "auth_required"
	auditErrInsufficientRole    AuditErrorCode = "insufficient_role"
	auditErrRoleInvalid         AuditErrorCode = "role_invalid"
	auditErrIdentityRequired    AuditErrorCode = "identity_required"
	auditErrSnapshotCorrupt     AuditErrorCode = "snapshot_corrupt"
	auditErrSnapshotUnavailable AuditErrorCode = "snapshot_unavailable"
	auditErrInternal            AuditErrorCode = "internal_error"
)

// observer carries the shared audit and metrics plumbing every component
// emits through. One observer is built per Authority and handed to the
// store, reconciler, evaluator, and gates.
type observer struct {
	audit    *auditDispatcher
	metrics  *Metrics
	instance string
}

func (o *observer) inc(id MetricID) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.Inc(id)
}

func (o *observer) emit(
	ctx context.Context,
	eventType string,
	success bool,
	sess Session,
	path string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if o == nil || o.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		Instance:   o.instance,
		Role:       sess.Role.String(),
		Path:       path,
		Generation: sess.Generation,
		Success:    success,
		Metadata:   metadata,
	}
	if sess.Identity != nil {
		event.UserID = sess.Identity.ID
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	o.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrMalformedToken):
		return auditErrMalformedToken
	case errors.Is(err, ErrTamperDetected):
		return auditErrTamperDetected
	case errors.Is(err, ErrAuthRequired):
		return auditErrAuthRequired
	case errors.Is(err, ErrInsufficientRole):
		return auditErrInsufficientRole
	case errors.Is(err, ErrRoleInvalid):
		return auditErrRoleInvalid
	case errors.Is(err, ErrIdentityRequired):
		return auditErrIdentityRequired
	case errors.Is(err, ErrSnapshotCorrupt):
		return auditErrSnapshotCorrupt
	case errors.Is(err, ErrSnapshotUnavailable):
		return auditErrSnapshotUnavailable
	default:
		return auditErrInternal
	}
}
