package export

import (
	"io"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// featureParquetRow is the columnar shape of a FeatureRow for ML export,
// following the teacher pack's flat-row/tagged-struct convention for
// parquet.Writer (lucasjlepore-fit-analyzer/pipeline/parquet_native.go).
type featureParquetRow struct {
	WorkoutID   string  `parquet:"name=workout_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	AthleteID   string  `parquet:"name=athlete_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DateISO     string  `parquet:"name=date_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Year        int32   `parquet:"name=year, type=INT32"`
	Month       int32   `parquet:"name=month, type=INT32"`
	DayOfWeek   int32   `parquet:"name=day_of_week, type=INT32"`
	DayOfYear   int32   `parquet:"name=day_of_year, type=INT32"`
	ISOWeek     int32   `parquet:"name=iso_week, type=INT32"`
	Sport       string  `parquet:"name=sport, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	WorkoutType string  `parquet:"name=workout_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`

	TSS             float64 `parquet:"name=tss, type=DOUBLE"`
	DurationHours   float64 `parquet:"name=duration_hours, type=DOUBLE"`
	DistanceKM      float64 `parquet:"name=distance_km, type=DOUBLE"`
	IntensityFactor float64 `parquet:"name=intensity_factor, type=DOUBLE"`
	NormalizedPower float64 `parquet:"name=normalized_power, type=DOUBLE"`

	HRZone1Pct float64 `parquet:"name=hr_zone1_pct, type=DOUBLE"`
	HRZone2Pct float64 `parquet:"name=hr_zone2_pct, type=DOUBLE"`
	HRZone3Pct float64 `parquet:"name=hr_zone3_pct, type=DOUBLE"`
	HRZone4Pct float64 `parquet:"name=hr_zone4_pct, type=DOUBLE"`
	HRZone5Pct float64 `parquet:"name=hr_zone5_pct, type=DOUBLE"`

	TrainingEffectAerobic   float64 `parquet:"name=training_effect_aerobic, type=DOUBLE"`
	TrainingEffectAnaerobic float64 `parquet:"name=training_effect_anaerobic, type=DOUBLE"`
	AvgPace                 float64 `parquet:"name=avg_pace, type=DOUBLE"`

	TSS7d       float64 `parquet:"name=tss_7d, type=DOUBLE"`
	TSS28d      float64 `parquet:"name=tss_28d, type=DOUBLE"`
	Duration7d  float64 `parquet:"name=duration_7d, type=DOUBLE"`
	Duration28d float64 `parquet:"name=duration_28d, type=DOUBLE"`
	Distance7d  float64 `parquet:"name=distance_7d, type=DOUBLE"`
	Distance28d float64 `parquet:"name=distance_28d, type=DOUBLE"`

	CumulativeTSS      float64 `parquet:"name=cumulative_tss, type=DOUBLE"`
	CumulativeDuration float64 `parquet:"name=cumulative_duration, type=DOUBLE"`
	CumulativeDistance float64 `parquet:"name=cumulative_distance, type=DOUBLE"`

	Split string `parquet:"name=split, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

// WriteMLFeaturesParquet renders feature rows as SNAPPY-compressed Parquet
// and copies the resulting file bytes to w. Parquet's footer is written on
// close, so the file is built in an in-memory buffer first rather than
// streamed directly (mirrors the teacher pack's
// marshalCanonicalParquet/parquet-go-source-buffer pattern). np is the
// writer parallelism passed to parquet-go's writer.NewParquetWriter.
func WriteMLFeaturesParquet(w io.Writer, rows []FeatureRow, np int64) error {
	if np <= 0 {
		np = 4
	}
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(featureParquetRow), np)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range rows {
		row := toParquetRow(r)
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return err
	}
	_, err = w.Write(fw.Bytes())
	return err
}

func toParquetRow(r FeatureRow) featureParquetRow {
	tss, _ := r.TSS.Float64()
	durationHours, _ := r.DurationHours.Float64()
	distanceKM, _ := r.DistanceKM.Float64()
	ifValue, _ := r.IntensityFactor.Float64()
	np, _ := r.NormalizedPower.Float64()
	avgPace, _ := r.AvgPace.Float64()
	tss7, _ := r.TSS7d.Float64()
	tss28, _ := r.TSS28d.Float64()
	dur7, _ := r.Duration7d.Float64()
	dur28, _ := r.Duration28d.Float64()
	dist7, _ := r.Distance7d.Float64()
	dist28, _ := r.Distance28d.Float64()
	cumTSS, _ := r.CumulativeTSS.Float64()
	cumDur, _ := r.CumulativeDuration.Float64()
	cumDist, _ := r.CumulativeDistance.Float64()

	return featureParquetRow{
		WorkoutID:               r.WorkoutID,
		AthleteID:               r.AthleteID,
		DateISO:                 r.Date.Format("2006-01-02"),
		Year:                    int32(r.Year),
		Month:                   int32(r.Month),
		DayOfWeek:               int32(r.DayOfWeek),
		DayOfYear:               int32(r.DayOfYear),
		ISOWeek:                 int32(r.ISOWeek),
		Sport:                   r.Sport,
		WorkoutType:             r.WorkoutType,
		TSS:                     tss,
		DurationHours:           durationHours,
		DistanceKM:              distanceKM,
		IntensityFactor:         ifValue,
		NormalizedPower:         np,
		HRZone1Pct:              zonePctFloat(r.HRZonePct, 1),
		HRZone2Pct:              zonePctFloat(r.HRZonePct, 2),
		HRZone3Pct:              zonePctFloat(r.HRZonePct, 3),
		HRZone4Pct:              zonePctFloat(r.HRZonePct, 4),
		HRZone5Pct:              zonePctFloat(r.HRZonePct, 5),
		TrainingEffectAerobic:   r.TrainingEffectAerobic,
		TrainingEffectAnaerobic: r.TrainingEffectAnaerobic,
		AvgPace:                 avgPace,
		TSS7d:                   tss7,
		TSS28d:                  tss28,
		Duration7d:              dur7,
		Duration28d:             dur28,
		Distance7d:              dist7,
		Distance28d:             dist28,
		CumulativeTSS:           cumTSS,
		CumulativeDuration:      cumDur,
		CumulativeDistance:      cumDist,
		Split:                   r.Split,
	}
}

func zonePctFloat(pct map[int]float64, zone int) float64 {
	if pct == nil {
		return 0
	}
	return pct[zone]
}
