package gcloud

import (
	"context"
	"fmt"

	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/policy"
)

// ListVersions fetches every deployed version of the given service.
//
// Behavior:
//   - Runs `gcloud app versions list` with JSON output and parses the
//     result into typed records.
//   - Any failure (non-zero exit, timeout, malformed payload) is fatal for
//     the caller: there is no safe retention decision without a complete
//     version list.
func (c *Client) ListVersions(ctx context.Context, project string, service string) ([]policy.VersionRecord, error) {
	args := []string{
		"app", "versions", "list",
		"--project", project,
		"--service", service,
		"--format", "json",
	}

	payload, err := c.runCommand(ctx, c.Config.ListTimeout, "ListVersions", args...)
	if err != nil {
		return nil, err
	}

	records, err := policy.ParseVersionRecords(payload)
	if err != nil {
		return nil, fmt.Errorf("ListVersions returned a malformed payload: %w", err)
	}

	return records, nil
}

// DeleteVersions permanently removes the given versions in one CLI call.
//
// Behavior:
//   - Runs `gcloud app versions delete` with --quiet to suppress the
//     interactive confirmation prompt.
//   - The version ids are passed as positional arguments; callers are
//     expected to have validated them as flag-safe beforehand.
//   - A non-zero exit means none of the batch can be assumed deleted.
func (c *Client) DeleteVersions(ctx context.Context, project string, service string, versionIDs []string) error {
	args := []string{"app", "versions", "delete"}
	args = append(args, versionIDs...)
	args = append(args,
		"--project", project,
		"--service", service,
		"--quiet",
	)

	_, err := c.runCommand(ctx, c.Config.DeleteTimeout, "DeleteVersions", args...)
	return err
}
