package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

// MLFeatureHeader is the bit-stable column order for ML feature-row CSV
// export (spec §4.8/§6). HR-zone percentages are flattened to five fixed
// columns (Z1..Z5); a row whose workout carries no HR series leaves them
// blank rather than zero, so "no data" stays distinguishable from "no time
// in zone".
var MLFeatureHeader = []string{
	"Workout_ID", "Athlete_ID", "Date", "Year", "Month", "Day_Of_Week",
	"Day_Of_Year", "ISO_Week", "Sport", "Workout_Type",
	"TSS", "Duration_Hours", "Distance_KM", "Intensity_Factor", "Normalized_Power",
	"HR_Zone1_Pct", "HR_Zone2_Pct", "HR_Zone3_Pct", "HR_Zone4_Pct", "HR_Zone5_Pct",
	"Training_Effect_Aerobic", "Training_Effect_Anaerobic", "Avg_Pace",
	"TSS_7d", "TSS_28d", "Duration_7d", "Duration_28d", "Distance_7d", "Distance_28d",
	"Cumulative_TSS", "Cumulative_Duration", "Cumulative_Distance", "Split",
}

// WriteMLFeaturesCSV renders feature rows in MLFeatureHeader order.
func WriteMLFeaturesCSV(w io.Writer, rows []FeatureRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(MLFeatureHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(featureRow(r)); err != nil {
			return err
		}
	}
	return writer.Error()
}

func featureRow(r FeatureRow) []string {
	return []string{
		r.WorkoutID,
		r.AthleteID,
		r.Date.Format("2006-01-02"),
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Month),
		strconv.Itoa(r.DayOfWeek),
		strconv.Itoa(r.DayOfYear),
		strconv.Itoa(r.ISOWeek),
		r.Sport,
		r.WorkoutType,
		r.TSS.String(),
		r.DurationHours.String(),
		r.DistanceKM.String(),
		r.IntensityFactor.String(),
		r.NormalizedPower.String(),
		zonePctStr(r.HRZonePct, 1),
		zonePctStr(r.HRZonePct, 2),
		zonePctStr(r.HRZonePct, 3),
		zonePctStr(r.HRZonePct, 4),
		zonePctStr(r.HRZonePct, 5),
		formatFloat(r.TrainingEffectAerobic),
		formatFloat(r.TrainingEffectAnaerobic),
		r.AvgPace.String(),
		r.TSS7d.String(),
		r.TSS28d.String(),
		r.Duration7d.String(),
		r.Duration28d.String(),
		r.Distance7d.String(),
		r.Distance28d.String(),
		r.CumulativeTSS.String(),
		r.CumulativeDuration.String(),
		r.CumulativeDistance.String(),
		r.Split,
	}
}

func zonePctStr(pct map[int]float64, zone int) string {
	if pct == nil {
		return ""
	}
	v, ok := pct[zone]
	if !ok {
		return ""
	}
	return formatFloat(v)
}
