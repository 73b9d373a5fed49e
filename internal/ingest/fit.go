// Package ingest decodes FIT/TCX/GPX workout files into domain.Workout
// values, applies device quirk corrections, fingerprints files for the
// parse cache, and dispatches parallel batch imports.
package ingest

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tormoder/fit"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// DeviceIdentity is the (manufacturer, product, firmware) tuple read from
// a FIT file's header, used to look up applicable device quirks.
type DeviceIdentity struct {
	ManufacturerID uint16
	ProductID      uint16
	Firmware       *uint16
}

// DecodeFITHeader reads just enough of r to extract device identity
// without decoding the full activity, grounded on
// fit.DecodeHeaderAndFileID's (manufacturer, product) projection.
func DecodeFITHeader(r io.Reader) (DeviceIdentity, error) {
	_, id, err := fit.DecodeHeaderAndFileID(r)
	if err != nil {
		return DeviceIdentity{}, fmt.Errorf("ingest: reading FIT header: %w", err)
	}
	return DeviceIdentity{
		ManufacturerID: uint16(id.Manufacturer),
		ProductID:      uint16(id.GetProduct()),
	}, nil
}

// DecodeFITActivity parses a full FIT file into a domain.Workout. athleteID
// and id are supplied by the caller (the file itself carries no athlete
// identity). Device quirks should be applied to the returned workout's
// series by the caller before persisting.
func DecodeFITActivity(r io.Reader, athleteID, workoutID string) (*domain.Workout, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: decoding FIT file: %w", err)
	}

	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("ingest: file is not an activity FIT: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return nil, fmt.Errorf("ingest: activity file has no session message")
	}

	session := activity.Sessions[0]
	points := buildSeries(activity.Records)

	startTime := validTime(session.StartTime)
	if startTime.IsZero() && len(points) > 0 {
		startTime = time.Unix(int64(points[0].TimestampSeconds), 0).UTC()
	}

	durationSec := int(math.Round(session.GetTotalTimerTimeScaled()))
	if durationSec <= 0 && len(points) > 1 {
		durationSec = points[len(points)-1].TimestampSeconds - points[0].TimestampSeconds
	}

	sport := mapFITSport(fmt.Sprint(session.Sport))

	w, err := domain.NewWorkout(workoutID, athleteID, startTime, sport, durationSec,
		domain.WorkoutTypeEndurance, inferDataSource(points), points)
	if err != nil {
		return nil, fmt.Errorf("ingest: constructing workout from FIT file: %w", err)
	}
	return w, nil
}

func mapFITSport(sport string) domain.Sport {
	switch sport {
	case "Running":
		return domain.SportRunning
	case "Cycling":
		return domain.SportCycling
	case "Swimming":
		return domain.SportSwimming
	case "Rowing":
		return domain.SportRowing
	case "Multisport", "Triathlon":
		return domain.SportTriathlon
	default:
		return domain.SportCrossTraining
	}
}

func inferDataSource(points []domain.DataPoint) domain.DataSource {
	var hasPower, hasPace, hasHR bool
	for _, p := range points {
		if p.PowerW != nil {
			hasPower = true
		}
		if p.SpeedMPS != nil {
			hasPace = true
		}
		if p.HeartRate != nil {
			hasHR = true
		}
	}
	switch {
	case hasPower:
		return domain.DataSourcePower
	case hasPace:
		return domain.DataSourcePace
	case hasHR:
		return domain.DataSourceHeartRate
	default:
		return domain.DataSourceRPE
	}
}

// buildSeries sorts FIT record messages by timestamp and extracts the
// fields the domain model tracks, following the defensive
// sentinel-vs-absent pattern from the teacher pack (math.MaxUint16 /
// math.MaxUint8 mean "field not present" in the FIT protocol).
func buildSeries(records []*fit.RecordMsg) []domain.DataPoint {
	if len(records) == 0 {
		return nil
	}

	type row struct {
		ts  time.Time
		rec *fit.RecordMsg
	}
	rows := make([]row, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		rows = append(rows, row{ts: r.Timestamp, rec: r})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ts.Before(rows[j].ts) })

	if len(rows) == 0 {
		return nil
	}
	epoch := rows[0].ts

	points := make([]domain.DataPoint, 0, len(rows))
	for _, row := range rows {
		ts := int(row.ts.Sub(epoch).Seconds())
		p := domain.DataPoint{TimestampSeconds: ts}

		rec := row.rec
		if rec.HeartRate != math.MaxUint8 {
			hr := int(rec.HeartRate)
			p.HeartRate = &hr
		}
		if rec.Power != math.MaxUint16 {
			pw := int(rec.Power)
			p.PowerW = &pw
		}
		if cad := rec.GetCadence256Scaled(); isFinite(cad) && cad > 0 {
			c := int(math.Round(cad))
			p.Cadence = &c
		} else if rec.Cadence != math.MaxUint8 {
			c := int(rec.Cadence)
			p.Cadence = &c
		}
		if speed := enhancedOrPlainSpeed(rec); speed != nil {
			p.SpeedMPS = speed
		}
		if dist := rec.GetDistanceScaled(); isFinite(dist) && dist >= 0 {
			d := decimal.NewFromFloat(dist)
			p.DistanceM = &d
		}
		if alt := rec.GetAltitudeScaled(); isFinite(alt) {
			a := decimal.NewFromFloat(alt)
			p.ElevationM = &a
		}

		points = append(points, p)
	}
	return points
}

func enhancedOrPlainSpeed(rec *fit.RecordMsg) *decimal.Decimal {
	if speed := rec.GetEnhancedSpeedScaled(); isFinite(speed) && speed >= 0 {
		d := decimal.NewFromFloat(speed)
		return &d
	}
	if speed := rec.GetSpeedScaled(); isFinite(speed) && speed >= 0 {
		d := decimal.NewFromFloat(speed)
		return &d
	}
	return nil
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func validTime(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}
