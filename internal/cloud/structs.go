package cloud

import (
	"context"
	"time"

	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/policy"
)

// VersionAdmin is the capability the purge workflow needs from the hosting
// platform. It decouples the retention logic from the specific management
// mechanism (gcloud subprocess in production, an in-memory fake in tests).
type VersionAdmin interface {
	// ListVersions returns every deployed version of the given service.
	ListVersions(ctx context.Context, project string, service string) ([]policy.VersionRecord, error)

	// DeleteVersions permanently removes the given versions. The call is
	// all-or-nothing from the caller's perspective: a non-nil error means
	// the batch must be treated as not deleted.
	DeleteVersions(ctx context.Context, project string, service string, versionIDs []string) error
}

// CommandConfig defines the parameters for invoking the external management
// command. There is deliberately no retry knob: a failed call is terminal
// for the run and the operator re-invokes if desired.
type CommandConfig struct {
	// Binary is the management command to invoke.
	Binary string

	// ListTimeout bounds a single version-list invocation.
	ListTimeout time.Duration

	// DeleteTimeout bounds a single batch-delete invocation. Deletion is
	// slow on the platform side, so this is considerably more generous
	// than ListTimeout.
	DeleteTimeout time.Duration
}

// DefaultCommandConfig returns the production defaults for the gcloud CLI.
func DefaultCommandConfig() CommandConfig {
	return CommandConfig{
		Binary:        "gcloud",
		ListTimeout:   20 * time.Second,
		DeleteTimeout: 60 * time.Second,
	}
}
