package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trainrs/endurance-analytics/internal/sport"
)

func newMultisportCmd() *cobra.Command {
	var athleteID string

	cmd := &cobra.Command{
		Use:   "multisport",
		Short: "Cross-sport load, time distribution, and brick session reporting",
	}
	cmd.PersistentFlags().StringVar(&athleteID, "athlete", "", "athlete ID (defaults to default_athlete_id)")

	cmd.AddCommand(
		newMultisportLoadCmd(&athleteID),
		newMultisportDistributionCmd(&athleteID),
		newMultisportTriathlonCmd(&athleteID),
	)
	return cmd
}

func newMultisportLoadCmd(athleteID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Print combined daily TSS across all sports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMultisportLoad(*athleteID)
		},
	}
}

func runMultisportLoad(athleteFlag string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.db.Close()

	id, err := resolveAthleteID(a.cfg, athleteFlag)
	if err != nil {
		return err
	}

	workouts, err := a.db.ListWorkouts(id, 0)
	if err != nil {
		return fmt.Errorf("listing workouts for %s: %w", id, err)
	}

	breakdowns := sport.DailyBreakdowns(workouts)
	if len(breakdowns) == 0 {
		fmt.Println("no workouts found")
		return nil
	}
	for _, b := range breakdowns {
		fmt.Printf("%s  total=%s\n", b.Date.Format("2006-01-02"), b.TotalTSS.StringFixed(1))
		for sp, tss := range b.BySport {
			fmt.Printf("  %-16s tss=%-8s time=%ds\n", sp, tss.StringFixed(1), b.TimeBySport[sp])
		}
	}
	fmt.Printf("\ncombined TSS: %s\n", sport.CombinedTSS(workouts).StringFixed(1))
	return nil
}

func newMultisportDistributionCmd(athleteID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "distribution",
		Short: "Print the percentage of training time spent in each sport",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMultisportDistribution(*athleteID)
		},
	}
}

func runMultisportDistribution(athleteFlag string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.db.Close()

	id, err := resolveAthleteID(a.cfg, athleteFlag)
	if err != nil {
		return err
	}

	workouts, err := a.db.ListWorkouts(id, 0)
	if err != nil {
		return fmt.Errorf("listing workouts for %s: %w", id, err)
	}

	dist := sport.SportTimeDistribution(workouts)
	if len(dist) == 0 {
		fmt.Println("no workouts found")
		return nil
	}
	for sp, pct := range dist {
		fmt.Printf("%-16s %s%%\n", sp, pct.StringFixed(1))
	}
	return nil
}

func newMultisportTriathlonCmd(athleteID *string) *cobra.Command {
	var windowMinutes int

	cmd := &cobra.Command{
		Use:   "triathlon",
		Short: "Group adjacent workouts into brick sessions and flag multisport bricks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMultisportTriathlon(*athleteID, windowMinutes)
		},
	}
	cmd.Flags().IntVar(&windowMinutes, "window", int(sport.DefaultBrickWindow.Minutes()), "max gap in minutes between workouts to count as one brick")
	return cmd
}

func runMultisportTriathlon(athleteFlag string, windowMinutes int) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.db.Close()

	id, err := resolveAthleteID(a.cfg, athleteFlag)
	if err != nil {
		return err
	}

	workouts, err := a.db.ListWorkouts(id, 0)
	if err != nil {
		return fmt.Errorf("listing workouts for %s: %w", id, err)
	}

	window := time.Duration(windowMinutes) * time.Minute
	groups := sport.GroupBricks(workouts, window)
	bricks := 0
	for _, g := range groups {
		if !g.IsBrick() {
			continue
		}
		bricks++
		fmt.Printf("brick  %s -> %s (%d legs):\n", g.StartsAt.Format("2006-01-02 15:04"), g.EndsAt.Format("15:04"), len(g.Workouts))
		for _, w := range g.Workouts {
			fmt.Printf("  %-16s %s\n", w.Sport, w.ID)
		}
	}
	fmt.Printf("\n%d brick session(s) found across %d session group(s)\n", bricks, len(groups))
	return nil
}
