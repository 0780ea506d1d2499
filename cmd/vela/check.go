package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vela/internal/driver"
)

var (
	checkConfig  string
	checkFormat  string
	checkJobs    int
	checkMaxDiag int
	checkNoCache bool
	checkTimings bool
	checkColor   string
)

var errChecksFailed = errors.New("checks failed")

func init() {
	checkCmd.Flags().StringVarP(&checkConfig, "config", "c", "", "path to vela.toml")
	checkCmd.Flags().StringVar(&checkFormat, "format", "", "output format (text|json|sarif), overrides the config")
	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0, "parallel analysis workers (0 = number of CPUs)")
	checkCmd.Flags().IntVar(&checkMaxDiag, "max-diagnostics", 0, "cap on collected findings (0 = default)")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "disable the on-disk analysis cache")
	checkCmd.Flags().BoolVar(&checkTimings, "timings", false, "print phase durations")
	checkCmd.Flags().StringVar(&checkColor, "color", "auto", "colorize output (auto|on|off)")
}

var checkCmd = &cobra.Command{
	Use:   "check <program.vlp>",
	Short: "Analyze a compiled program payload",
	Long: `Check runs effect and result-flow analysis over a program payload
produced by the frontend and prints the findings. The exit code is 1
when any error-severity finding remains after configuration is applied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useColor := false
		switch checkColor {
		case "on":
			useColor = true
		case "off":
		case "auto":
			useColor = !color.NoColor
		default:
			return fmt.Errorf("unknown --color value %q (want auto, on or off)", checkColor)
		}

		outcome, err := driver.Check(cmd.Context(), args[0], driver.CheckOptions{
			ConfigPath:     checkConfig,
			Format:         checkFormat,
			Jobs:           checkJobs,
			MaxDiagnostics: checkMaxDiag,
			NoCache:        checkNoCache,
			Color:          useColor,
			Timings:        checkTimings,
			Out:            cmd.OutOrStdout(),
			Log:            cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		if outcome.Suppressed > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d findings below the severity threshold\n", outcome.Suppressed)
		}
		if outcome.Failed {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return errChecksFailed
		}
		return nil
	},
}
