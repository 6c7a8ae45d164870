package cli

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/cloud/gcloud"
	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/notifications"
	"github.com/aravindh-murugesan/appengine-versionsentry-go/internal/workflow"
	"github.com/go-co-op/gocron-ui/server"
	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
)

var (
	daemonProject string
	purgeSchedule string
	bindAddress   string
)

var daemonCommand = &cobra.Command{
	Use:     "daemon",
	Short:   "Run VersionSentry in daemon mode",
	GroupID: "versionsentry",
	Long:    `Starts VersionSentry as a background service that periodically purges excess deployed versions of the configured project on a cron schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		banner := fmt.Sprintf("VersionSentry - Daemon Mode \n\nVersion: %s\nBuild Date: %s", VersionsentryVersion, VersionsentryDate)
		fmt.Println(headerStyle.Render(banner))

		dlog := workflow.SetupLogger(logLevel, os.Stdout).With("component", "daemon", "project", daemonProject)

		client := &gcloud.Client{}
		if err := client.NewClient(); err != nil {
			return err
		}

		s, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		s.Start()
		dlog.Info("Scheduler started")

		// Declared first so the task closure can read back its own next run.
		var purgeJob gocron.Job

		purgeJob, purgeJobError := s.NewJob(
			gocron.CronJob(
				purgeSchedule,
				false,
			),
			gocron.NewTask(func() {
				config := workflow.DefaultPurgeConfig(daemonProject)
				config.LogLevel = logLevel
				config.Webhook = notifications.Webhook{
					URL:      webhookURL,
					Username: webhookUsername,
					Password: webhookPassword,
				}

				deleted, err := workflow.RunProjectVersionPurgeWorkflow(client, config, time.Now().UTC())
				if err != nil {
					dlog.Error("Purge Workflow failed", "error", err)
				}

				if purgeJob != nil {
					if nextRun, err := purgeJob.NextRun(); err == nil {
						dlog.Info("Purge Workflow completed",
							"deleted", deleted,
							"next_run", nextRun.Format(time.RFC3339),
							"job_id", purgeJob.ID())
					}
				}
			}),
			gocron.WithName("Version Purge Workflow"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if purgeJobError != nil {
			return purgeJobError
		}

		if nextRunPurge, err := purgeJob.NextRun(); err == nil {
			dlog.Info("Job Scheduled",
				"job_name", purgeJob.Name(),
				"job_id", purgeJob.ID(),
				"schedule", purgeSchedule,
				"next_run", nextRunPurge.Format(time.RFC3339))
		}

		srv := server.NewServer(s, 8080, server.WithTitle("VersionSentry Go - Dashboard"))
		dlog.Info("VersionSentry Scheduler UI started", "address", bindAddress)
		if err := http.ListenAndServe(bindAddress, srv.Router); err != nil {
			dlog.Error("Failed to start UI server", "error", err)
			return s.Shutdown()
		}

		// Block Main Thread until Signal
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		dlog.Warn("Shutting down scheduler due to system signal...")
		return s.Shutdown()
	},
}

func init() {
	rootCommand.AddCommand(daemonCommand)
	daemonCommand.Flags().StringVar(&daemonProject, "project", "", "App Engine project to purge (required)")
	daemonCommand.Flags().StringVar(&purgeSchedule, "purge-schedule", "0 */6 * * *", "Cron schedule for the version purge")
	daemonCommand.Flags().StringVar(&bindAddress, "bind-address", "0.0.0.0:8080", "Address to bind the UI server")
	_ = daemonCommand.MarkFlagRequired("project")
}
