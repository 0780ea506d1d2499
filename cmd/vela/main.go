package main

import (
	"os"

	"github.com/spf13/cobra"

	"vela/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "vela",
	Short: "Vela semantic analyzer",
	Long:  "Vela checks effect declarations and result flow over compiled program payloads",
}

func main() {
	rootCmd.Version = version.Plain()
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
