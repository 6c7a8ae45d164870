package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	VersionsentryVersion, VersionsentryCommit, VersionsentryDate string
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Display version, commit hash, build date, and other build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("VersionSentry version: %s\n", VersionsentryVersion)
		fmt.Printf("Commit: %s\n", VersionsentryCommit)
		fmt.Printf("Built: %s\n", VersionsentryDate)
	},
}

func init() {
	rootCommand.AddCommand(versionCommand)
}
