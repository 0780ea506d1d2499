package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vela/internal/version"
)

var versionFull bool

func init() {
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include commit and build date")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the analyzer version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "vela %s\n", version.Version)
		if versionFull {
			commit := version.GitCommit
			if commit == "" {
				commit = "unknown"
			}
			date := version.BuildDate
			if date == "" {
				date = "unknown"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\nbuilt:  %s\n", commit, date)
		}
		return nil
	},
}
