package export

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/trainrs/endurance-analytics/internal/domain"
	"github.com/trainrs/endurance-analytics/internal/metrics"
)

// maxPWXSamples bounds the emitted <sample> count; a longer series is
// strided down so the last original sample is always kept (spec §6).
const maxPWXSamples = 10000

// pwx mirrors the PeaksWare PWX 1.0 schema's workout element tree, following
// the teacher pack's encoding/xml struct-tag convention for wire formats
// (github.com/Matbe34/aimharder-sync's TCX generator).
type pwx struct {
	XMLName xml.Name  `xml:"pwx"`
	Version string    `xml:"version,attr"`
	XMLNS   string     `xml:"xmlns,attr"`
	Workout pwxWorkout `xml:"workout"`
}

type pwxWorkout struct {
	Athlete      string         `xml:"athlete"`
	Title        string         `xml:"title,omitempty"`
	SportType    string         `xml:"sportType"`
	Time         string         `xml:"time"`
	Duration     float64        `xml:"duration"`
	DurationType string         `xml:"durationType,omitempty"`
	Device       string         `xml:"device,omitempty"`
	DataSource   string         `xml:"dataSource"`
	Summary      pwxSummary     `xml:"summary_data"`
	Samples      []pwxSample    `xml:"sample"`
	PowerCurve   *pwxPowerCurve `xml:"metrics>powerCurve,omitempty"`
	Notes        string         `xml:"notes,omitempty"`
}

type pwxSummary struct {
	DurationSec     float64  `xml:"duration"`
	DistanceM       *float64 `xml:"distance,omitempty"`
	TSS             *float64 `xml:"tss,omitempty"`
	IF              *float64 `xml:"intensityFactor,omitempty"`
	NormalizedPower *float64 `xml:"normalizedPower,omitempty"`
	AvgHR           *int     `xml:"avgHeartRate,omitempty"`
	AvgPower        *int     `xml:"avgPower,omitempty"`
}

type pwxSample struct {
	TimeOffset float64  `xml:"timeoffset"`
	HeartRate  *int     `xml:"hr,omitempty"`
	Power      *int     `xml:"pwr,omitempty"`
	Cadence    *int     `xml:"cad,omitempty"`
	Speed      *float64 `xml:"spd,omitempty"`
	Distance   *float64 `xml:"dist,omitempty"`
	Elevation  *float64 `xml:"alt,omitempty"`
}

type pwxPowerCurve struct {
	Points []pwxPowerCurvePoint `xml:"point"`
}

type pwxPowerCurvePoint struct {
	DurationSec int     `xml:"duration"`
	Watts       float64 `xml:"watts"`
}

var pwxSportMap = map[domain.Sport]string{
	domain.SportRunning:       "Run",
	domain.SportCycling:       "Bike",
	domain.SportSwimming:      "Swim",
	domain.SportTriathlon:     "Brick",
	domain.SportRowing:        "Row",
	domain.SportCrossTraining: "Other",
}

// WritePWX renders a single workout as a PWX 1.0 XML document, including a
// sampled power curve when the series carries power data.
func WritePWX(w io.Writer, athleteName string, workout domain.Workout) error {
	doc := pwx{
		Version: "1.0",
		XMLNS:   "http://www.peaksware.com/PWX/1/0",
		Workout: pwxWorkout{
			Athlete:      athleteName,
			Title:        workoutTitle(workout),
			SportType:    pwxSportMap[workout.Sport],
			Time:         workout.Date.Format(time.RFC3339),
			Duration:     float64(workout.DurationSec),
			DurationType: "Moving",
			DataSource:   workout.DataSource.String(),
			Summary:      buildPWXSummary(workout),
			Samples:      downsampleForPWX(workout.Series),
		},
	}
	if notes := workout.Notes; notes != nil {
		doc.Workout.Notes = *notes
	}
	if curve := buildPowerCurve(workout.Series); curve != nil {
		doc.Workout.PowerCurve = curve
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}

func buildPWXSummary(w domain.Workout) pwxSummary {
	s := w.Summary
	summary := pwxSummary{
		DurationSec: float64(w.DurationSec),
		AvgHR:       s.AvgHR,
		AvgPower:    s.AvgPowerW,
	}
	if s.TotalDistanceM != nil {
		f, _ := s.TotalDistanceM.Float64()
		summary.DistanceM = &f
	}
	if s.TSS != nil {
		f, _ := s.TSS.Float64()
		summary.TSS = &f
	}
	if s.IntensityFactor != nil {
		f, _ := s.IntensityFactor.Float64()
		summary.IF = &f
	}
	if s.NormalizedPowerW != nil {
		f, _ := s.NormalizedPowerW.Float64()
		summary.NormalizedPower = &f
	}
	return summary
}

// downsampleForPWX strides the series so the sample count never exceeds
// maxPWXSamples, always keeping the final sample.
func downsampleForPWX(points []domain.DataPoint) []pwxSample {
	if len(points) == 0 {
		return nil
	}
	stride := 1
	if len(points) > maxPWXSamples {
		stride = (len(points) + maxPWXSamples - 1) / maxPWXSamples
	}

	samples := make([]pwxSample, 0, maxPWXSamples)
	for i := 0; i < len(points); i += stride {
		samples = append(samples, toPWXSample(points[i]))
	}
	last := len(points) - 1
	if (last)%stride != 0 {
		if len(samples) == maxPWXSamples {
			samples[len(samples)-1] = toPWXSample(points[last])
		} else {
			samples = append(samples, toPWXSample(points[last]))
		}
	}
	return samples
}

func toPWXSample(p domain.DataPoint) pwxSample {
	s := pwxSample{TimeOffset: float64(p.TimestampSeconds), HeartRate: p.HeartRate, Power: p.PowerW, Cadence: p.Cadence}
	if p.SpeedMPS != nil {
		f, _ := p.SpeedMPS.Float64()
		s.Speed = &f
	}
	if p.DistanceM != nil {
		f, _ := p.DistanceM.Float64()
		s.Distance = &f
	}
	if p.ElevationM != nil {
		f, _ := p.ElevationM.Float64()
		s.Elevation = &f
	}
	return s
}

func buildPowerCurve(points []domain.DataPoint) *pwxPowerCurve {
	hasPower := false
	for _, p := range points {
		if p.PowerW != nil {
			hasPower = true
			break
		}
	}
	if !hasPower {
		return nil
	}

	curve := metrics.ComputePowerCurve(points)
	if len(curve) == 0 {
		return nil
	}
	out := &pwxPowerCurve{Points: make([]pwxPowerCurvePoint, len(curve))}
	for i, pt := range curve {
		watts, _ := pt.WattsMean.Float64()
		out.Points[i] = pwxPowerCurvePoint{DurationSec: pt.DurationSec, Watts: watts}
	}
	return out
}

