package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// gpxDocument reads the subset of the GPX 1.1 schema a workout's time
// series needs: track points with a timestamp, position, and elevation,
// plus the Garmin TrackPointExtension for heart rate/cadence/power.
type gpxDocument struct {
	XMLName xml.Name  `xml:"gpx"`
	Trk     []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name string    `xml:"name"`
	Type string    `xml:"type"`
	Trkseg []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Trkpt []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat       float64         `xml:"lat,attr"`
	Lon       float64         `xml:"lon,attr"`
	Elevation *float64        `xml:"ele"`
	Time      string          `xml:"time"`
	Extension *gpxExtension   `xml:"extensions"`
}

type gpxExtension struct {
	TrackPointExtension gpxTrackPointExtension `xml:"TrackPointExtension"`
}

type gpxTrackPointExtension struct {
	HeartRate *int     `xml:"hr"`
	Cadence   *int     `xml:"cad"`
	Power     *int     `xml:"power"`
}

// DecodeGPXTrack parses a GPX file's first track into a Workout. Distance
// and speed are derived from consecutive points' haversine distance since
// GPX carries position, not cumulative distance.
func DecodeGPXTrack(r io.Reader, athleteID, workoutID string) (*domain.Workout, error) {
	var doc gpxDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("ingest: decoding gpx: %w", err)
	}
	if len(doc.Trk) == 0 {
		return nil, fmt.Errorf("ingest: gpx file has no tracks")
	}
	track := doc.Trk[0]

	var start time.Time
	var prev *gpxPoint
	cumulative := 0.0
	series := make([]domain.DataPoint, 0)

	for _, seg := range track.Trkseg {
		for i := range seg.Trkpt {
			pt := seg.Trkpt[i]
			t, err := time.Parse(time.RFC3339, pt.Time)
			if err != nil {
				continue
			}
			if start.IsZero() {
				start = t
			}

			point := domain.DataPoint{TimestampSeconds: int(t.Sub(start).Seconds())}
			if pt.Elevation != nil {
				elev := decimal.NewFromFloat(*pt.Elevation)
				point.ElevationM = &elev
			}

			if prev != nil {
				cumulative += haversineMeters(prev.Lat, prev.Lon, pt.Lat, pt.Lon)
			}
			dist := decimal.NewFromFloat(cumulative)
			point.DistanceM = &dist

			if pt.Extension != nil {
				tpx := pt.Extension.TrackPointExtension
				if tpx.HeartRate != nil {
					point.HeartRate = tpx.HeartRate
				}
				if tpx.Cadence != nil {
					point.Cadence = tpx.Cadence
				}
				if tpx.Power != nil {
					point.PowerW = tpx.Power
				}
			}

			series = append(series, point)
			prevCopy := pt
			prev = &prevCopy
		}
	}

	durationSec := 0
	if len(series) > 0 {
		durationSec = series[len(series)-1].TimestampSeconds
	}
	if start.IsZero() {
		start = time.Now()
	}

	sport := mapGPXTrackType(track.Type)
	source := inferDataSource(series)
	w, err := domain.NewWorkout(workoutID, athleteID, start, sport, durationSec, domain.WorkoutTypeEndurance, source, series)
	if err != nil {
		return nil, fmt.Errorf("ingest: building workout from gpx: %w", err)
	}
	return w, nil
}

func mapGPXTrackType(t string) domain.Sport {
	switch t {
	case "running", "run":
		return domain.SportRunning
	case "cycling", "biking", "bike":
		return domain.SportCycling
	case "swimming", "swim":
		return domain.SportSwimming
	default:
		return domain.SportCrossTraining
	}
}

const earthRadiusMeters = 6371000.0

// haversineMeters returns the great-circle distance between two
// lat/lon points in meters.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}
