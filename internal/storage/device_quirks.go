package storage

import (
	"encoding/json"
	"fmt"

	"github.com/trainrs/endurance-analytics/internal/domain"
)

// quirkParams is the variant-specific payload stored as JSON in
// device_quirks.params_json, since each DeviceQuirkVariant only uses a
// handful of the struct's fields (spec §4.6's tagged-variant shape).
type quirkParams struct {
	CadenceFactor  float64 `json:"cadence_factor,omitempty"`
	SpikeThreshold int     `json:"spike_threshold,omitempty"`
	SpikeWindowSec int     `json:"spike_window_sec,omitempty"`
	GCTScale       float64 `json:"gct_scale,omitempty"`
	VOScale        float64 `json:"vo_scale,omitempty"`
	FieldName      string  `json:"field_name,omitempty"`
}

// InsertDeviceQuirk registers a correction rule for a device class.
func (d *DB) InsertDeviceQuirk(q domain.DeviceQuirk) error {
	params := quirkParams{
		CadenceFactor:  q.CadenceFactor,
		SpikeThreshold: q.SpikeThreshold,
		SpikeWindowSec: q.SpikeWindowSec,
		GCTScale:       q.GCTScale,
		VOScale:        q.VOScale,
		FieldName:      q.FieldName,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("storage: marshaling quirk params: %w", err)
	}

	_, err = d.conn.Exec(`
		INSERT INTO device_quirks (manufacturer_id, product_id, firmware_min, firmware_max, variant, params_json, enabled, description)
		VALUES (?,?,?,?,?,?,?,?)
	`, q.ManufacturerID, q.ProductID, nullableUint16(q.FirmwareMin), nullableUint16(q.FirmwareMax),
		int(q.Variant), string(paramsJSON), boolToInt(q.Enabled), q.Description)
	if err != nil {
		return fmt.Errorf("storage: inserting device quirk: %w", err)
	}
	return nil
}

func nullableUint16(v *uint16) any {
	if v == nil {
		return nil
	}
	return int(*v)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ListDeviceQuirks returns every registered quirk, enabled or not.
func (d *DB) ListDeviceQuirks() ([]domain.DeviceQuirk, error) {
	rows, err := d.conn.Query(`SELECT manufacturer_id, product_id, firmware_min, firmware_max, variant, params_json, enabled, description FROM device_quirks`)
	if err != nil {
		return nil, fmt.Errorf("storage: querying device quirks: %w", err)
	}
	defer rows.Close()

	var out []domain.DeviceQuirk
	for rows.Next() {
		var manufacturerID, productID int
		var firmwareMin, firmwareMax *int
		var variant, enabled int
		var paramsJSON, description string

		if err := rows.Scan(&manufacturerID, &productID, &firmwareMin, &firmwareMax, &variant, &paramsJSON, &enabled, &description); err != nil {
			return nil, err
		}

		var params quirkParams
		if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
			return nil, fmt.Errorf("storage: unmarshaling quirk params: %w", err)
		}

		q := domain.DeviceQuirk{
			ManufacturerID: uint16(manufacturerID),
			ProductID:      uint16(productID),
			Variant:        domain.DeviceQuirkVariant(variant),
			CadenceFactor:  params.CadenceFactor,
			SpikeThreshold: params.SpikeThreshold,
			SpikeWindowSec: params.SpikeWindowSec,
			GCTScale:       params.GCTScale,
			VOScale:        params.VOScale,
			FieldName:      params.FieldName,
			Enabled:        enabled == 1,
			Description:    description,
		}
		if firmwareMin != nil {
			v := uint16(*firmwareMin)
			q.FirmwareMin = &v
		}
		if firmwareMax != nil {
			v := uint16(*firmwareMax)
			q.FirmwareMax = &v
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
