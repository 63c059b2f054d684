package sessionguard

// SecurityReport is a read-only snapshot of the authority's posture,
// returned by [Authority.SecurityReport].
type SecurityReport struct {
	AuditEnabled     bool
	MetricsEnabled   bool
	SnapshotKey      string
	LoginPath        string
	UnauthorizedPath string
	AllowedEndpoints int
	AuthEntryPaths   int
}

// SecurityReport describes the securityreport operation and its observable behavior.
//
// SecurityReport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Authority) SecurityReport() SecurityReport {
	if a == nil {
		return SecurityReport{}
	}

	return SecurityReport{
		AuditEnabled:     a.audit != nil,
		MetricsEnabled:   a.metrics.Enabled(),
		SnapshotKey:      a.config.Snapshot.Key,
		LoginPath:        a.config.Redirect.LoginPath,
		UnauthorizedPath: a.config.Redirect.UnauthorizedPath,
		AllowedEndpoints: len(a.config.Gate.AllowedEndpoints),
		AuthEntryPaths:   len(a.config.Gate.AuthEntryPaths),
	}
}
