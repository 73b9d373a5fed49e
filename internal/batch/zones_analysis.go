package batch

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
	"github.com/trainrs/endurance-analytics/internal/zones"
)

// ZoneAnalysisRequest asks for one workout's HR/power/pace zone time
// distribution, cached under a key scoped to (workout, zone kind).
type ZoneAnalysisRequest struct {
	WorkoutID string
	System    zones.ZoneSystem
}

func (r ZoneAnalysisRequest) cacheKey() string {
	return Key("zones", r.WorkoutID, r.System.Kind, r.System.Threshold.String())
}

// ZoneAnalysisResult is the per-zone sample count for one workout.
type ZoneAnalysisResult struct {
	WorkoutID  string
	Kind       string
	Counts     map[int]int
	Cached     bool
	Err        error
}

// ZoneAnalysisRunner batches per-workout zone distribution analysis,
// caching each (workout, zone-kind) result independently.
type ZoneAnalysisRunner struct {
	Store WorkoutStore
	Cache *ResultCache
}

// Run computes (or returns cached) zone distributions for each request.
func (r *ZoneAnalysisRunner) Run(requests []ZoneAnalysisRequest) []ZoneAnalysisResult {
	results := make([]ZoneAnalysisResult, len(requests))
	for i, req := range requests {
		results[i] = r.runOne(req)
	}
	return results
}

func (r *ZoneAnalysisRunner) runOne(req ZoneAnalysisRequest) ZoneAnalysisResult {
	key := req.cacheKey()
	if r.Cache != nil {
		if raw, ok := r.Cache.Get(key); ok {
			counts, err := decodeCounts(raw)
			if err == nil {
				return ZoneAnalysisResult{WorkoutID: req.WorkoutID, Kind: req.System.Kind, Counts: counts, Cached: true}
			}
		}
	}

	w, err := r.Store.GetWorkout(req.WorkoutID, true)
	if err != nil {
		return ZoneAnalysisResult{WorkoutID: req.WorkoutID, Err: fmt.Errorf("batch: loading workout %s: %w", req.WorkoutID, err)}
	}

	values, err := seriesValuesFor(req.System.Kind, w.Series)
	if err != nil {
		return ZoneAnalysisResult{WorkoutID: req.WorkoutID, Err: err}
	}

	counts := zones.Distribution(req.System, values)
	if r.Cache != nil {
		r.Cache.Put(key, encodeCounts(counts))
	}
	return ZoneAnalysisResult{WorkoutID: req.WorkoutID, Kind: req.System.Kind, Counts: counts}
}

func seriesValuesFor(kind string, points []domain.DataPoint) ([]decimal.Decimal, error) {
	values := make([]decimal.Decimal, 0, len(points))
	switch kind {
	case "heart_rate":
		for _, p := range points {
			if p.HeartRate != nil {
				values = append(values, decimal.NewFromInt(int64(*p.HeartRate)))
			}
		}
	case "power":
		for _, p := range points {
			if p.PowerW != nil {
				values = append(values, decimal.NewFromInt(int64(*p.PowerW)))
			}
		}
	case "pace":
		for _, p := range points {
			if p.PaceMinPerUnit != nil {
				values = append(values, *p.PaceMinPerUnit)
			}
		}
	default:
		return nil, fmt.Errorf("batch: unknown zone kind %q", kind)
	}
	return values, nil
}

// encodeCounts/decodeCounts serialize a zone->count map to a tiny custom
// byte format (one zone byte plus a big-endian uint32 count per zone)
// rather than encoding/json; the cache's contract is "bytes in, bytes out" (spec §4.9), and a
// fixed small map of int->int doesn't need a general encoder.
func encodeCounts(counts map[int]int) []byte {
	out := make([]byte, 0, len(counts)*8)
	for zone, count := range counts {
		out = append(out, byte(zone))
		out = appendUint32(out, uint32(count))
	}
	return out
}

func decodeCounts(raw []byte) (map[int]int, error) {
	counts := make(map[int]int)
	for i := 0; i+5 <= len(raw); i += 5 {
		zone := int(raw[i])
		count := readUint32(raw[i+1 : i+5])
		counts[zone] = int(count)
	}
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("batch: corrupt zone-count cache entry (%d bytes)", len(raw))
	}
	return counts, nil
}

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func readUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
