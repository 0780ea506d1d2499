package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"vela/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List every rule with its default severity",
	RunE: func(cmd *cobra.Command, args []string) error {
		codes := rules.Registered()
		sort.Slice(codes, func(i, j int) bool { return codes[i].String() < codes[j].String() })
		for _, code := range codes {
			sev, _ := rules.DefaultSeverity(code)
			fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", code.String(), sev)
		}
		return nil
	},
}
