package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultDeleteBatchSize caps how many versions are handed to a single
// delete invocation. Each call is slow and rate-sensitive on the platform
// side, so batches stay small and strictly sequential.
const DefaultDeleteBatchSize = 4

// DeleteFunc performs one batch deletion against the external system.
type DeleteFunc func(ctx context.Context, versionIDs []string) error

// ValidateVersionIDs checks every id for flag-safety before any of them is
// handed to the external command. A single bad id rejects the whole list:
// an id starting with '-' would be parsed as a flag by the CLI, and a
// backslash risks argument escaping issues on the way through the shell
// boundary. Empty ids are rejected outright.
func ValidateVersionIDs(versionIDs []string) error {
	for _, id := range versionIDs {
		switch {
		case id == "":
			return fmt.Errorf("refusing to delete: empty version id")
		case strings.HasPrefix(id, "-"):
			return fmt.Errorf("refusing to delete version id '%s': leading dash would be parsed as a flag", id)
		case strings.Contains(id, `\`):
			return fmt.Errorf("refusing to delete version id '%s': contains a backslash", id)
		}
	}
	return nil
}

// DeleteBatched removes the given versions in consecutive batches of at
// most batchSize, invoking deleteFn once per batch.
//
// Behavior:
//   - Validation happens up front over the full list; a validation error
//     means zero delete calls were made.
//   - Batches run strictly in order, one completing before the next starts.
//   - A failed batch is terminal: remaining batches are left untouched and
//     the count accumulated so far is returned without an error. Partial
//     progress is success; the caller decides what zero progress means.
//   - Each batch is announced on the logger before its call, so a failure
//     mid-run still leaves an audit trail of intent.
func DeleteBatched(ctx context.Context, versionIDs []string, batchSize int, deleteFn DeleteFunc, logger *slog.Logger) (int, error) {
	if err := ValidateVersionIDs(versionIDs); err != nil {
		return 0, err
	}

	deleted := 0
	for start := 0; start < len(versionIDs); start += batchSize {
		end := min(start+batchSize, len(versionIDs))
		batch := versionIDs[start:end]

		logger.Info("Deleting version batch",
			"versions", strings.Join(batch, ", "),
			"batch_size", len(batch),
			"deleted_so_far", deleted)

		if err := deleteFn(ctx, batch); err != nil {
			logger.Error("Version batch deletion failed, stopping run",
				"error", err,
				"versions", strings.Join(batch, ", "),
				"deleted_so_far", deleted)
			return deleted, nil
		}

		deleted += len(batch)
	}

	return deleted, nil
}
