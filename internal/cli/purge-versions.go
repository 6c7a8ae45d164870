package cli

import (
	"fmt"
	"time"

	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/cloud/gcloud"
	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/notifications"
	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/workflow"
	"github.com/spf13/cobra"
)

var purgeVersionsCommand = &cobra.Command{
	Use:     "purge-versions PROJECT",
	GroupID: "versionsentry",
	Short:   "Execute the version purge workflow",
	Long: `Lists all deployed versions of the project's default service, classifies them
against the standard retention policy (the 20 most recent deployments plus the most
recent deployment of each of the trailing 7 days), and permanently deletes the rest.
Prints the number of deleted versions on success.

Callers that need a non-default service or retention policy use the workflow
package directly; this command deliberately exposes no overrides.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(headerStyle.Render("VersionSentry - Purge Workflow"))

		client := &gcloud.Client{}
		if err := client.NewClient(); err != nil {
			return err
		}

		config := workflow.DefaultPurgeConfig(args[0])
		config.LogLevel = logLevel
		config.Webhook = notifications.Webhook{
			URL:      webhookURL,
			Username: webhookUsername,
			Password: webhookPassword,
		}

		deleted, err := workflow.RunProjectVersionPurgeWorkflow(client, config, time.Now().UTC())
		if err != nil {
			return err
		}

		fmt.Println(deleted)
		return nil
	},
}

func init() {
	rootCommand.AddCommand(purgeVersionsCommand)
}
