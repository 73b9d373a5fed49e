// Command trainctl is the thin external CLI over the analytics engine
// (spec §6): import, calculate, analyze, export, display, config,
// multisport, and plan subcommands. The core logic lives in internal/*;
// this package only parses flags, wires dependencies, and formats output.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trainrs/endurance-analytics/internal/telemetry"
)

var (
	cfgFile   string
	verbosity int
)

// usageError marks a flag/argument mistake, mapped to exit code 2
// (spec §6: "Exit codes: 0 success, 1 runtime error, 2 usage error").
type usageError struct{ err error }

func (u *usageError) Error() string { return u.err.Error() }
func (u *usageError) Unwrap() error { return u.err }

func newUsageError(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "trainctl:", err)
		var ue *usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "trainctl",
		Short:         "Endurance training analytics: ingest, compute, and export workout metrics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			telemetry.Init(telemetry.Options{
				Level:  telemetry.VerbosityToLevel(verbosity),
				Pretty: isTerminal(os.Stderr),
			})
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.trainrs/config.toml)")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging verbosity (repeatable)")
	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))

	cmd.AddCommand(
		newImportCmd(),
		newCalculateCmd(),
		newAnalyzeCmd(),
		newExportCmd(),
		newDisplayCmd(),
		newConfigCmd(),
		newMultisportCmd(),
		newPlanCmd(),
	)
	return cmd
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
