package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	logLevel        string
	webhookURL      string
	webhookUsername string
	webhookPassword string
)

var rootCommand = &cobra.Command{
	Use:     "versionsentry-go",
	Aliases: []string{"versionsentry"},
	Short:   "VersionSentry: App Engine Version Lifecycle Manager",
	Long: `VersionSentry keeps the number of deployed App Engine versions bounded.
It classifies the versions of a service against a retention policy (a floor of
most-recent deployments plus one survivor per trailing day) and deletes the
rest through the gcloud CLI. Versions that are serving traffic are never touched.

Author: Aravindh Murugesan`,
}

func Execute() error {
	return rootCommand.Execute()
}

func init() {
	rootCommand.AddGroup(&cobra.Group{ID: "versionsentry", Title: "Versionsentry"})

	// Global Peristent Flags with env vars support
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCommand.PersistentFlags().StringVar(&webhookURL, "webhook-url", "", "Webhook URL for alerting")
	rootCommand.PersistentFlags().StringVar(&webhookUsername, "webhook-username", "", "Webhook username for alerting")
	rootCommand.PersistentFlags().StringVar(&webhookPassword, "webhook-password", "", "Webhook password for alerting")
	// Bind to env vars
	_ = viper.BindPFlag("log-level", rootCommand.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("webhook-url", rootCommand.PersistentFlags().Lookup("webhook-url"))

	viper.SetEnvPrefix("VERSIONSENTRY")
	viper.AutomaticEnv()

}
