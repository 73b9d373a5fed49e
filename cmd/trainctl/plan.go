package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// plan is named in the CLI surface but no generation, monitoring, or
// adjustment algorithm is specified anywhere in the component design this
// builds on, so its subcommands report that clearly instead of guessing at
// one. See the design ledger for the rationale.
func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Training plan generation (not yet implemented)",
	}
	cmd.AddCommand(
		newPlanStubCmd("generate", "building a structured plan from an athlete's history and a target event"),
		newPlanStubCmd("monitor", "comparing planned vs actual load against a generated plan"),
		newPlanStubCmd("adjust", "re-balancing a generated plan after a missed or added session"),
	)
	return cmd
}

func newPlanStubCmd(use, purpose string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Not implemented: %s", purpose),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("plan %s: no planning algorithm is implemented; use analyze/export for the underlying metrics", use)
		},
	}
}
