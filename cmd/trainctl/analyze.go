package main

import (
	"fmt"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/trainrs/endurance-analytics/internal/batch"
	"github.com/trainrs/endurance-analytics/internal/config"
	"github.com/trainrs/endurance-analytics/internal/metrics"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		periodDays int
		predict    bool
		athleteID  string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute PMC (CTL/ATL/TSB) over a trailing period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(periodDays, predict, athleteID)
		},
	}
	cmd.Flags().IntVar(&periodDays, "period", 90, "trailing window in days")
	cmd.Flags().BoolVar(&predict, "predict", false, "render a CTL sparkline")
	cmd.Flags().StringVar(&athleteID, "athlete", "", "athlete ID (defaults to default_athlete_id)")
	return cmd
}

func runAnalyze(periodDays int, predict bool, athleteFlag string) error {
	if periodDays <= 0 {
		return newUsageError("analyze: --period must be positive, got %d", periodDays)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.db.Close()

	id, err := resolveAthleteID(a.cfg, athleteFlag)
	if err != nil {
		return err
	}

	to := time.Now()
	from := to.AddDate(0, 0, -periodDays)

	runner := &batch.PMCRunner{Source: a.db}
	result := runner.Run([]batch.PMCRequest{{
		AthleteID: id,
		From:      from,
		To:        to,
		Config:    pmcConfigFrom(a.cfg.PMC),
	}})[0]
	if result.Err != nil {
		return fmt.Errorf("computing PMC: %w", result.Err)
	}

	if len(result.Series) == 0 {
		fmt.Println("no training data in the requested period")
		return nil
	}

	latest := result.Series[len(result.Series)-1]
	fmt.Printf("period:  %s to %s (%d days)\n", from.Format("2006-01-02"), to.Format("2006-01-02"), periodDays)
	fmt.Printf("CTL:     %s\n", latest.CTL.StringFixed(1))
	fmt.Printf("ATL:     %s\n", latest.ATL.StringFixed(1))
	fmt.Printf("TSB:     %s (%s)\n", latest.TSB.StringFixed(1), metrics.InterpretTSB(latest.TSB))
	if latest.ATLSpike {
		fmt.Println("warning: ATL spike detected")
	}

	if predict {
		ctl := make([]float64, len(result.Series))
		for i, m := range result.Series {
			ctl[i], _ = m.CTL.Float64()
		}
		graph := asciigraph.Plot(ctl,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Precision(1),
			asciigraph.Caption("CTL trend"),
		)
		fmt.Println()
		fmt.Println(graph)
	}

	return nil
}

func pmcConfigFrom(cfg config.PMCConfig) metrics.PmcConfig {
	return metrics.PmcConfig{
		CTLTimeConstant:   cfg.CTLTimeConstant,
		ATLTimeConstant:   cfg.ATLTimeConstant,
		MinDataDays:       cfg.MinDataDays,
		ATLSpikeThreshold: decimal.NewFromFloat(cfg.ATLSpikeThreshold),
		RampRateDays:      cfg.RampRateDays,
	}
}
