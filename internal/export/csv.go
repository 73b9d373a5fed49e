package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// WorkoutSummaryHeader is the bit-stable column order for the workout
// summary CSV export (spec §6).
var WorkoutSummaryHeader = []string{
	"Date", "Sport", "Duration_Hours", "Workout_Type", "Data_Source", "TSS",
	"Avg_HR", "Max_HR", "Avg_Power", "Normalized_Power", "Avg_Pace",
	"Intensity_Factor", "Distance_KM", "Elevation_Gain_M", "Avg_Cadence",
	"Calories", "Notes", "Athlete_ID", "Source",
}

// WriteWorkoutSummaryCSV renders workouts to w in WorkoutSummaryHeader order,
// one row per workout.
func WriteWorkoutSummaryCSV(w io.Writer, workouts []domain.Workout) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(WorkoutSummaryHeader); err != nil {
		return err
	}
	for _, wk := range workouts {
		if err := writer.Write(workoutSummaryRow(wk)); err != nil {
			return err
		}
	}
	return writer.Error()
}

func workoutSummaryRow(w domain.Workout) []string {
	s := w.Summary
	return []string{
		w.Date.Format("2006-01-02"),
		w.Sport.String(),
		formatFloat(float64(w.DurationSec) / 3600.0),
		w.Type.String(),
		w.DataSource.String(),
		decStr(s.TSS),
		intStr(s.AvgHR),
		intStr(s.MaxHR),
		intStr(s.AvgPowerW),
		decStr(s.NormalizedPowerW),
		decStr(s.AvgPace),
		decStr(s.IntensityFactor),
		decStrScaled(s.TotalDistanceM, 0.001), // meters -> km
		decStr(s.ElevationGainM),
		decStr(s.AvgCadence),
		intStr(s.Calories),
		strPtr(w.Notes),
		w.AthleteID,
		strPtr(w.Source),
	}
}

// PMCHeader is the bit-stable column order for the PMC series CSV export.
var PMCHeader = []string{"Date", "CTL", "ATL", "TSB", "Daily_TSS", "CTL_Ramp_Rate", "ATL_Spike"}

// WritePMCCSV renders a PMC series to w in PMCHeader order.
func WritePMCCSV(w io.Writer, series []domain.PmcMetrics) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(PMCHeader); err != nil {
		return err
	}
	for _, m := range series {
		spike := "0"
		if m.ATLSpike {
			spike = "1"
		}
		row := []string{
			m.Date.Format("2006-01-02"),
			m.CTL.String(),
			m.ATL.String(),
			m.TSB.String(),
			m.DailyTSS.String(),
			decStr(m.CTLRampRate),
			spike,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}

var tpSportMap = map[domain.Sport]string{
	domain.SportRunning:       "Run",
	domain.SportCycling:       "Bike",
	domain.SportSwimming:      "Swim",
	domain.SportTriathlon:     "Brick",
	domain.SportRowing:        "Row",
	domain.SportCrossTraining: "Other",
}

// TrainingPeaksHeader is the bit-stable column order for the TrainingPeaks
// interoperability CSV export.
var TrainingPeaksHeader = []string{"Date", "Time", "Duration", "Distance", "TSS", "IF", "NP", "Work", "Title", "Sport"}

// WriteTrainingPeaksCSV renders workouts to w in TrainingPeaksHeader order,
// remapping sport names and duration/date formats to TrainingPeaks'
// conventions.
func WriteTrainingPeaksCSV(w io.Writer, workouts []domain.Workout) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(TrainingPeaksHeader); err != nil {
		return err
	}
	for _, wk := range workouts {
		row := []string{
			wk.Date.Format("01/02/2006"),
			wk.Date.Format("15:04:05"),
			formatHMS(wk.DurationSec),
			decStrScaled(wk.Summary.TotalDistanceM, 0.001),
			decStr(wk.Summary.TSS),
			decStr(wk.Summary.IntensityFactor),
			decStr(wk.Summary.NormalizedPowerW),
			workTPWork(wk),
			workoutTitle(wk),
			tpSportMap[wk.Sport],
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}

// workTPWork computes "work" (kilojoules) as avg power × duration when power
// data is available; TrainingPeaks' CSV import treats an empty field as
// unknown, so absence is preferred over a fabricated zero.
func workTPWork(w domain.Workout) string {
	if w.Summary.AvgPowerW == nil {
		return ""
	}
	kj := float64(*w.Summary.AvgPowerW) * float64(w.DurationSec) / 1000.0
	return formatFloat(kj)
}

func workoutTitle(w domain.Workout) string {
	if w.Notes != nil && *w.Notes != "" {
		return *w.Notes
	}
	return w.Sport.String() + " " + w.Type.String()
}

func formatHMS(totalSec int) string {
	h := totalSec / 3600
	m := (totalSec % 3600) / 60
	s := totalSec % 60
	return padInt(h) + ":" + padInt(m) + ":" + padInt(s)
}

func padInt(v int) string {
	s := strconv.Itoa(v)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func decStr(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func decStrScaled(d *decimal.Decimal, factor float64) string {
	if d == nil {
		return ""
	}
	scaled := d.Mul(decimal.NewFromFloat(factor))
	return scaled.StringFixed(3)
}

func intStr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func strPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
