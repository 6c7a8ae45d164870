package workflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/cloud"
	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/notifications"
	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/policy"
	"github.com/google/uuid"
)

// Config carries the options of a purge run. Construct it with
// DefaultPurgeConfig and override fields explicitly; zero values for the
// retention knobs are meaningful (they disable the corresponding rule), so
// no implicit re-defaulting happens after construction.
type Config struct {
	// Project is the App Engine project to operate on. Required.
	Project string

	// Service scopes the run to one service within the project.
	Service string

	// KeepMinimum is the count of most recently deployed versions that are
	// always retained, independent of date.
	KeepMinimum int

	// KeepDailyAmount is the number of trailing calendar days that each
	// retain their most recently deployed version.
	KeepDailyAmount int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogSink receives the human-readable progress log. Nil means
	// standard output.
	LogSink io.Writer

	// Webhook, when configured with a URL, receives an alert for runs that
	// fail fatally.
	Webhook notifications.Webhook
}

// DefaultPurgeConfig returns the purge configuration for a project with the
// standard retention posture: the "default" service, the 20 most recent
// deployments, and one survivor per day for the trailing week.
func DefaultPurgeConfig(project string) Config {
	return Config{
		Project:         project,
		Service:         "default",
		KeepMinimum:     20,
		KeepDailyAmount: 7,
		LogLevel:        "info",
	}
}

// RunProjectVersionPurgeWorkflow executes the retention enforcement process
// for one (project, service) pair.
//
// Responsibilities:
//  1. Discovery: fetches the full deployed-version list through the
//     injected admin capability.
//  2. Classification: partitions the versions into keep/delete sets under
//     the configured retention policy, evaluated at 'now'.
//  3. Cleanup: deletes the candidates in small sequential batches.
//
// The returned count is the number of versions successfully deleted. A run
// with deletion candidates but zero deletions is an error; a run where a
// later batch failed after earlier ones succeeded is not.
//
// Parameters:
//   - now: the reference time for the day buckets (usually time.Now(), but
//     injected for deterministic testing).
func RunProjectVersionPurgeWorkflow(admin cloud.VersionAdmin, config Config, now time.Time) (int, error) {
	// 1. Setup Logger & Run Identity
	logger := SetupLogger(config.LogLevel, config.LogSink).With(
		"workflow", "purge",
		"project", config.Project,
		"service", config.Service)
	runID := fmt.Sprintf("req-%s", uuid.New().String())
	logger = logger.With("versionsentry_id", runID)

	logger.Info("Initializing version lifecycle workflow - purge", "validation_time", now)

	retention := policy.RetentionPolicy{
		Project:         config.Project,
		Service:         config.Service,
		KeepMinimum:     config.KeepMinimum,
		KeepDailyAmount: config.KeepDailyAmount,
	}
	if err := retention.Normalize(); err != nil {
		logger.Error("Invalid retention policy", "error", err)
		return 0, err
	}

	// Per-call timeouts live inside the admin adapter; the workflow itself
	// has no deadline of its own.
	ctx := context.Background()

	// 2. List Deployed Versions
	records, err := admin.ListVersions(ctx, retention.Project, retention.Service)
	if err != nil {
		logger.Error("Failed to fetch deployed versions", "error", err)
		notifyFailure(config, runID, 0, 0, fmt.Sprintf("version listing failed: %v", err), logger)
		return 0, fmt.Errorf("version listing failed: %w", err)
	}
	logger.Info("Found deployed versions", "count", len(records))

	// 3. Classify
	result := policy.Classify(now, records, retention)
	logAuditTrail(logger, records, result)

	if len(result.CandidatesForDeletion) == 0 {
		logger.Info("No versions eligible for deletion")
		return 0, nil
	}

	// 4. Delete Candidates in Batches
	deleteBatch := func(ctx context.Context, batch []string) error {
		return admin.DeleteVersions(ctx, retention.Project, retention.Service, batch)
	}

	deleted, err := DeleteBatched(ctx, result.CandidatesForDeletion, DefaultDeleteBatchSize, deleteBatch, logger)
	if err != nil {
		logger.Error("Version id validation failed, nothing deleted", "error", err)
		notifyFailure(config, runID, len(result.CandidatesForDeletion), 0, err.Error(), logger)
		return 0, err
	}

	if deleted == 0 {
		err := fmt.Errorf("had %d deletion candidates but deleted none", len(result.CandidatesForDeletion))
		logger.Error("Purge made no progress", "error", err)
		notifyFailure(config, runID, len(result.CandidatesForDeletion), 0, err.Error(), logger)
		return 0, err
	}

	logger.Info("Purge workflow completed",
		"deleted", deleted,
		"candidates", len(result.CandidatesForDeletion))
	return deleted, nil
}

// logAuditTrail records the full classification outcome before any deletion
// is attempted, so a failure mid-run still shows what the run intended.
func logAuditTrail(logger *slog.Logger, records []policy.VersionRecord, result policy.Classification) {
	byID := make(map[string]policy.VersionRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	for _, id := range result.Kept {
		record := byID[id]
		logger.Info("Keeping version",
			"version", id,
			"deployed_at", record.LastDeployedTime,
			"disk_usage_bytes", record.DiskUsageBytes)
	}
	for _, id := range result.CandidatesForDeletion {
		record := byID[id]
		logger.Info("Version selected for deletion",
			"version", id,
			"deployed_at", record.LastDeployedTime,
			"disk_usage_bytes", record.DiskUsageBytes)
	}
}

// notifyFailure fires the configured webhook for a fatal run. Notification
// problems are logged and swallowed; they never mask the run's own error.
func notifyFailure(config Config, runID string, candidates int, deleted int, message string, logger *slog.Logger) {
	if config.Webhook.URL == "" {
		return
	}

	failure := notifications.PurgeFailure{
		Service:    "versionsentry",
		Project:    config.Project,
		AppService: config.Service,
		RunID:      runID,
		Candidates: candidates,
		Deleted:    deleted,
		Message:    message,
	}

	if err := config.Webhook.Notify(failure); err != nil {
		logger.Warn("Failed to deliver failure notification", "error", err)
	}
}
