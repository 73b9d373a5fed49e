package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// seriesBlob is the on-disk compressed representation of a workout's
// DataPoint series, used by the time_series_blobs table.
type seriesBlob struct {
	PointCount   int
	OriginalSize int
	Compressed   []byte
	Checksum     string
}

// encodeSeries serializes points into a flat, deterministic binary format
// (field-by-field, fixed presence flags) and gzip-compresses it. The
// returned blob's PointCount and OriginalSize satisfy the storage
// invariant that they match the decoded series exactly.
func encodeSeries(points []domain.DataPoint) (seriesBlob, error) {
	raw := serializePoints(points)
	sum := sha256.Sum256(raw)

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(raw); err != nil {
		return seriesBlob{}, fmt.Errorf("storage: compressing series: %w", err)
	}
	if err := gw.Close(); err != nil {
		return seriesBlob{}, fmt.Errorf("storage: finalizing compression: %w", err)
	}

	return seriesBlob{
		PointCount:   len(points),
		OriginalSize: len(raw),
		Compressed:   buf.Bytes(),
		Checksum:     hex.EncodeToString(sum[:]),
	}, nil
}

// decodeSeries reverses encodeSeries, verifying point_count and the
// checksum as it unpacks.
func decodeSeries(b seriesBlob) ([]domain.DataPoint, error) {
	gr, err := gzip.NewReader(bytes.NewReader(b.Compressed))
	if err != nil {
		return nil, fmt.Errorf("storage: opening compressed series: %w", err)
	}
	defer gr.Close()

	raw, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("storage: decompressing series: %w", err)
	}
	if len(raw) != b.OriginalSize {
		return nil, fmt.Errorf("storage: decompressed size %d does not match recorded %d", len(raw), b.OriginalSize)
	}
	sum := sha256.Sum256(raw)
	if hex.EncodeToString(sum[:]) != b.Checksum {
		return nil, fmt.Errorf("storage: checksum mismatch on decoded series")
	}

	points, err := deserializePoints(raw)
	if err != nil {
		return nil, err
	}
	if len(points) != b.PointCount {
		return nil, fmt.Errorf("storage: point count %d does not match recorded %d", len(points), b.PointCount)
	}
	return points, nil
}

// serializePoints writes a presence-flagged, length-prefixed record per
// DataPoint so the format is reproducible independent of map iteration
// order or floating formatting (spec invariant 8: decimal fields carry
// their exact string form, not a lossy float64).
func serializePoints(points []domain.DataPoint) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(len(points)))

	for _, p := range points {
		binary.Write(&buf, binary.LittleEndian, int64(p.TimestampSeconds))
		writeOptInt(&buf, p.HeartRate)
		writeOptInt(&buf, p.PowerW)
		writeOptDecimal(&buf, p.PaceMinPerUnit)
		writeOptDecimal(&buf, p.ElevationM)
		writeOptDecimal(&buf, p.SpeedMPS)
		writeOptDecimal(&buf, p.DistanceM)
		writeOptInt(&buf, p.Cadence)
		writeOptInt(&buf, p.LeftPowerW)
		writeOptInt(&buf, p.RightPowerW)
		writeOptInt(&buf, p.GroundContactMs)
		writeOptDecimal(&buf, p.VerticalOscillation)
		writeOptDecimal(&buf, p.StrideLengthM)
		writeOptInt(&buf, p.SwimStrokeCount)
		writeOptString(&buf, p.SwimStrokeType)
		writeOptInt(&buf, p.LapNumber)
		if p.SportTransition {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}

func deserializePoints(raw []byte) ([]domain.DataPoint, error) {
	r := bytes.NewReader(raw)
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("storage: reading point count: %w", err)
	}

	points := make([]domain.DataPoint, count)
	for i := range points {
		var ts int64
		if err := binary.Read(r, binary.LittleEndian, &ts); err != nil {
			return nil, fmt.Errorf("storage: reading timestamp at index %d: %w", i, err)
		}
		p := domain.DataPoint{TimestampSeconds: int(ts)}
		p.HeartRate = readOptInt(r)
		p.PowerW = readOptInt(r)
		p.PaceMinPerUnit = readOptDecimal(r)
		p.ElevationM = readOptDecimal(r)
		p.SpeedMPS = readOptDecimal(r)
		p.DistanceM = readOptDecimal(r)
		p.Cadence = readOptInt(r)
		p.LeftPowerW = readOptInt(r)
		p.RightPowerW = readOptInt(r)
		p.GroundContactMs = readOptInt(r)
		p.VerticalOscillation = readOptDecimal(r)
		p.StrideLengthM = readOptDecimal(r)
		p.SwimStrokeCount = readOptInt(r)
		p.SwimStrokeType = readOptString(r)
		p.LapNumber = readOptInt(r)
		flag, _ := r.ReadByte()
		p.SportTransition = flag == 1
		points[i] = p
	}
	return points, nil
}

func writeOptInt(buf *bytes.Buffer, v *int) {
	if v == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	binary.Write(buf, binary.LittleEndian, int64(*v))
}

func readOptInt(r *bytes.Reader) *int {
	present, _ := r.ReadByte()
	if present == 0 {
		return nil
	}
	var v int64
	binary.Read(r, binary.LittleEndian, &v)
	out := int(v)
	return &out
}

func writeOptString(buf *bytes.Buffer, v *string) {
	if v == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	b := []byte(*v)
	binary.Write(buf, binary.LittleEndian, int32(len(b)))
	buf.Write(b)
}

func readOptString(r *bytes.Reader) *string {
	present, _ := r.ReadByte()
	if present == 0 {
		return nil
	}
	var n int32
	binary.Read(r, binary.LittleEndian, &n)
	b := make([]byte, n)
	io.ReadFull(r, b)
	s := string(b)
	return &s
}

func writeOptDecimal(buf *bytes.Buffer, v *decimal.Decimal) {
	if v == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	s := v.String()
	b := []byte(s)
	binary.Write(buf, binary.LittleEndian, int32(len(b)))
	buf.Write(b)
}

func readOptDecimal(r *bytes.Reader) *decimal.Decimal {
	present, _ := r.ReadByte()
	if present == 0 {
		return nil
	}
	var n int32
	binary.Read(r, binary.LittleEndian, &n)
	b := make([]byte, n)
	io.ReadFull(r, b)
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return nil
	}
	return &d
}
