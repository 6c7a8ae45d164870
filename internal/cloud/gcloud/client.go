package gcloud

import (
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/cloud"
)

// Client manages App Engine versions by shelling out to the gcloud CLI.
// It never talks to the Google Cloud API directly; authentication, project
// access and output formatting are all the CLI's problem.
type Client struct {
	// Config defines the binary to invoke and the per-call timeouts.
	Config cloud.CommandConfig

	// Resolved absolute path of the binary, populated by NewClient.
	binaryPath string
}

// GetCloudProviderName returns the identifier for this provider.
func (c *Client) GetCloudProviderName() string {
	return "gcloud"
}

// NewClient prepares the client for use. It resolves the configured binary
// on PATH so that a missing CLI surfaces immediately rather than on the
// first list call.
func (c *Client) NewClient() error {
	if c.Config.Binary == "" {
		c.Config = cloud.DefaultCommandConfig()
	}

	slog.Debug("Resolving management CLI", "binary", c.Config.Binary)

	path, err := exec.LookPath(c.Config.Binary)
	if err != nil {
		return fmt.Errorf("management CLI '%s' not found on PATH: %w", c.Config.Binary, err)
	}
	c.binaryPath = path

	return nil
}
