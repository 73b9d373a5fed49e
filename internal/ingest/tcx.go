package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// tcxDatabase mirrors the Garmin Training Center Database v2 schema
// (TrainingCenterDatabasev2.xsd), reading only the elements a workout
// summary and time-series need.
type tcxDatabase struct {
	XMLName    xml.Name       `xml:"TrainingCenterDatabase"`
	Activities tcxActivities  `xml:"Activities"`
}

type tcxActivities struct {
	Activity []tcxActivity `xml:"Activity"`
}

type tcxActivity struct {
	Sport string `xml:"Sport,attr"`
	ID    string `xml:"Id"`
	Lap   []tcxLap `xml:"Lap"`
}

type tcxLap struct {
	StartTime string    `xml:"StartTime,attr"`
	Track     *tcxTrack `xml:"Track"`
}

type tcxTrack struct {
	Trackpoint []tcxTrackpoint `xml:"Trackpoint"`
}

type tcxTrackpoint struct {
	Time             string         `xml:"Time"`
	DistanceMeters   *float64       `xml:"DistanceMeters"`
	HeartRateBpm     *tcxHeartRate  `xml:"HeartRateBpm"`
	Cadence          *int           `xml:"Cadence"`
	AltitudeMeters   *float64       `xml:"AltitudeMeters"`
	Extensions       *tcxExtensions `xml:"Extensions"`
}

type tcxHeartRate struct {
	Value int `xml:"Value"`
}

type tcxExtensions struct {
	TPX tcxTPX `xml:"TPX"`
}

type tcxTPX struct {
	Speed *float64 `xml:"Speed"`
	Watts *int     `xml:"Watts"`
}

// DecodeTCXActivity parses a single-activity TCX file into a Workout. Only
// the first <Activity> is read; a TCX export with multiple activities
// should be split upstream.
func DecodeTCXActivity(r io.Reader, athleteID, workoutID string) (*domain.Workout, error) {
	var doc tcxDatabase
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("ingest: decoding tcx: %w", err)
	}
	if len(doc.Activities.Activity) == 0 {
		return nil, fmt.Errorf("ingest: tcx file has no activities")
	}
	activity := doc.Activities.Activity[0]

	var start time.Time
	series := make([]domain.DataPoint, 0)
	for _, lap := range activity.Lap {
		if lap.Track == nil {
			continue
		}
		for _, tp := range lap.Track.Trackpoint {
			t, err := time.Parse(time.RFC3339, tp.Time)
			if err != nil {
				continue
			}
			if start.IsZero() {
				start = t
			}
			point := domain.DataPoint{TimestampSeconds: int(t.Sub(start).Seconds())}
			if tp.HeartRateBpm != nil {
				hr := tp.HeartRateBpm.Value
				point.HeartRate = &hr
			}
			if tp.Cadence != nil {
				point.Cadence = tp.Cadence
			}
			if tp.AltitudeMeters != nil {
				elev := decimal.NewFromFloat(*tp.AltitudeMeters)
				point.ElevationM = &elev
			}
			if tp.DistanceMeters != nil {
				dist := decimal.NewFromFloat(*tp.DistanceMeters)
				point.DistanceM = &dist
			}
			if tp.Extensions != nil {
				if tp.Extensions.TPX.Watts != nil {
					point.PowerW = tp.Extensions.TPX.Watts
				}
				if tp.Extensions.TPX.Speed != nil {
					speed := decimal.NewFromFloat(*tp.Extensions.TPX.Speed)
					point.SpeedMPS = &speed
				}
			}
			series = append(series, point)
		}
	}

	sport := mapTCXSport(activity.Sport)
	durationSec := 0
	if len(series) > 0 {
		durationSec = series[len(series)-1].TimestampSeconds
	}
	if start.IsZero() {
		start = time.Now()
	}

	source := inferDataSource(series)
	w, err := domain.NewWorkout(workoutID, athleteID, start, sport, durationSec, domain.WorkoutTypeEndurance, source, series)
	if err != nil {
		return nil, fmt.Errorf("ingest: building workout from tcx: %w", err)
	}
	return w, nil
}

func mapTCXSport(sport string) domain.Sport {
	switch sport {
	case "Running":
		return domain.SportRunning
	case "Biking":
		return domain.SportCycling
	case "Swimming":
		return domain.SportSwimming
	default:
		return domain.SportCrossTraining
	}
}
