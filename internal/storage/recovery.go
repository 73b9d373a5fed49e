package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/trainrs/endurance-analytics/internal/domain"
)

// UpsertRecoveryRecord inserts or replaces one athlete-day recovery
// aggregate (unique per (athlete, date), spec §3 relationships).
func (d *DB) UpsertRecoveryRecord(r domain.RecoveryRecord) error {
	var hrvRMSSD, hrvBaseline any
	var hrvStatus any
	if r.HRV != nil {
		hrvRMSSD = r.HRV.RMSSDMillis
		hrvBaseline = r.HRV.BaselineMillis
		hrvStatus = int(r.HRV.Status)
	}

	var sleepTotalSec, sleepEff any
	if r.Sleep != nil {
		sleepTotalSec = int(r.Sleep.TotalSleep.Seconds())
		sleepEff = r.Sleep.Efficiency
	}

	_, err := d.conn.Exec(`
		INSERT INTO recovery_records (
			athlete_id, date, hrv_rmssd_millis, hrv_baseline_millis, hrv_status,
			sleep_total_sec, sleep_efficiency, resting_hr_bpm, respiration_rate,
			pulse_ox, stress, recovery_time_hrs, training_readiness, quality
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(athlete_id, date) DO UPDATE SET
			hrv_rmssd_millis=excluded.hrv_rmssd_millis, hrv_baseline_millis=excluded.hrv_baseline_millis,
			hrv_status=excluded.hrv_status, sleep_total_sec=excluded.sleep_total_sec,
			sleep_efficiency=excluded.sleep_efficiency, resting_hr_bpm=excluded.resting_hr_bpm,
			respiration_rate=excluded.respiration_rate, pulse_ox=excluded.pulse_ox,
			stress=excluded.stress, recovery_time_hrs=excluded.recovery_time_hrs,
			training_readiness=excluded.training_readiness, quality=excluded.quality
	`,
		r.AthleteID, r.Date.Format("2006-01-02"), hrvRMSSD, hrvBaseline, hrvStatus,
		sleepTotalSec, sleepEff, nullableInt(r.Physiological.RestingHRBpm),
		nullableFloat(r.Physiological.RespirationRate), nullableInt(r.Physiological.PulseOx),
		nullableInt(r.Physiological.Stress), nullableFloat(r.Physiological.RecoveryTimeHrs),
		r.Composite.TrainingReadiness, int(r.Composite.Quality),
	)
	if err != nil {
		return fmt.Errorf("storage: upserting recovery record: %w", err)
	}
	return nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// GetRecoveryRecord loads one athlete-day recovery aggregate.
func (d *DB) GetRecoveryRecord(athleteID string, date time.Time) (*domain.RecoveryRecord, error) {
	row := d.conn.QueryRow(`
		SELECT hrv_rmssd_millis, hrv_baseline_millis, hrv_status, sleep_total_sec,
		       sleep_efficiency, resting_hr_bpm, respiration_rate, pulse_ox, stress,
		       recovery_time_hrs, training_readiness, quality
		FROM recovery_records WHERE athlete_id = ? AND date = ?`, athleteID, date.Format("2006-01-02"))

	var hrvRMSSD, hrvBaseline sql.NullFloat64
	var hrvStatus sql.NullInt64
	var sleepSec sql.NullInt64
	var sleepEff sql.NullFloat64
	var restingHR, pulseOx, stress sql.NullInt64
	var respRate, recoveryHrs sql.NullFloat64
	var readiness, quality int

	if err := row.Scan(&hrvRMSSD, &hrvBaseline, &hrvStatus, &sleepSec, &sleepEff,
		&restingHR, &respRate, &pulseOx, &stress, &recoveryHrs, &readiness, &quality); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("storage: no recovery record for %s on %s", athleteID, date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("storage: scanning recovery record: %w", err)
	}

	r := &domain.RecoveryRecord{
		AthleteID: athleteID,
		Date:      date,
		Composite: domain.Composite{TrainingReadiness: readiness, Quality: domain.RecoveryQuality(quality)},
	}
	if hrvRMSSD.Valid {
		r.HRV = &domain.HRVReading{RMSSDMillis: hrvRMSSD.Float64, BaselineMillis: hrvBaseline.Float64, Status: domain.HRVStatus(hrvStatus.Int64)}
	}
	if sleepSec.Valid {
		r.Sleep = &domain.SleepSession{
			AthleteID:  athleteID,
			Date:       date,
			TotalSleep: time.Duration(sleepSec.Int64) * time.Second,
			Efficiency: sleepEff.Float64,
		}
	}
	r.Physiological = domain.Physiological{
		RestingHRBpm: intFromNull(restingHR),
		PulseOx:      intFromNull(pulseOx),
		Stress:       intFromNull(stress),
	}
	if respRate.Valid {
		v := respRate.Float64
		r.Physiological.RespirationRate = &v
	}
	if recoveryHrs.Valid {
		v := recoveryHrs.Float64
		r.Physiological.RecoveryTimeHrs = &v
	}
	return r, nil
}
