package policy

import (
	"fmt"
	"time"
)

// General structs shared by the classifier and its callers.

// VersionRecord describes a single deployed App Engine version as reported
// by the management CLI. It is the immutable input unit of classification.
type VersionRecord struct {
	// ID is the version identifier, unique within a (project, service) pair.
	ID string

	// Project and Service scope the version. Records outside the policy
	// scope are ignored by the classifier.
	Project string
	Service string

	// TrafficSplit is the fraction of live traffic routed to this version.
	// Anything above zero means the version is actively serving and must
	// never be deleted.
	TrafficSplit float64

	// DiskUsageBytes is reported for auditing only; it plays no part in
	// the retention decision.
	DiskUsageBytes int64

	// LastDeployedTime is when this version was deployed.
	LastDeployedTime time.Time
}

// RetentionPolicy defines which deployed versions survive a purge run.
// Two independent rules protect versions:
//
//   - KeepDailyAmount trailing calendar days (day 0 = today) each retain at
//     most one version: the most recently deployed one of that day.
//   - KeepMinimum of the most recently deployed remaining versions are
//     retained regardless of date.
//
// A zero value disables the corresponding rule.
type RetentionPolicy struct {
	Project         string
	Service         string
	KeepMinimum     int
	KeepDailyAmount int
}

// Normalize validates the policy configuration and sets sane defaults.
// The service defaults to "default" (the App Engine default service).
func (p *RetentionPolicy) Normalize() error {
	if p.Project == "" {
		return fmt.Errorf("retention policy requires a project")
	}
	if p.Service == "" {
		p.Service = "default"
	}
	if p.KeepMinimum < 0 {
		return fmt.Errorf("keep-minimum must be >= 0, got %d", p.KeepMinimum)
	}
	if p.KeepDailyAmount < 0 {
		return fmt.Errorf("keep-daily-amount must be >= 0, got %d", p.KeepDailyAmount)
	}
	return nil
}

// Classification is the result of a classifier run: two disjoint id sets
// covering exactly the in-scope, zero-traffic records.
type Classification struct {
	Kept                  []string
	CandidatesForDeletion []string
}
