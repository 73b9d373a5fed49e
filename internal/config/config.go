// Package config loads and persists the application's TOML configuration
// file: global settings, PMC tuning, zone methods, import behavior, and
// per-athlete overrides (spec §6).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/trainrs/endurance-analytics/internal/domain"
)

// ErrNoConfig is returned when the config file doesn't exist yet.
var ErrNoConfig = errors.New("config: file not found")

// Config is the root of the persisted TOML document.
type Config struct {
	Metadata  Metadata          `toml:"metadata"`
	Settings  Settings          `toml:"settings"`
	PMC       PMCConfig         `toml:"pmc"`
	Zones     ZonesConfig       `toml:"zones"`
	Import    ImportConfig      `toml:"import"`
	Athletes  map[string]Athlete `toml:"athletes"`
	DefaultAthleteID string     `toml:"default_athlete_id,omitempty"`
}

// Metadata tracks the config schema version and file timestamps.
type Metadata struct {
	Version   string    `toml:"version"`
	CreatedAt time.Time `toml:"created_at"`
	UpdatedAt time.Time `toml:"updated_at"`
}

// AutoBackup configures the pre-cleanup backup step (spec §4.10).
type AutoBackup struct {
	Enabled       bool `toml:"enabled"`
	KeepLastN     int  `toml:"keep_last_n"`
}

// Settings holds global, athlete-agnostic application settings.
type Settings struct {
	DataDir       string     `toml:"data_dir"`
	DefaultUnits  string     `toml:"default_units"` // "metric" or "imperial"
	AutoBackup    AutoBackup `toml:"auto_backup"`
	DefaultSport  string     `toml:"default_sport,omitempty"`
}

// PMCConfig mirrors internal/metrics.PmcConfig's tunables as persisted
// TOML values.
type PMCConfig struct {
	CTLTimeConstant   int     `toml:"ctl_time_constant"`
	ATLTimeConstant   int     `toml:"atl_time_constant"`
	MinDataDays       int     `toml:"min_data_days"`
	ATLSpikeThreshold float64 `toml:"atl_spike_threshold"`
	RampRateDays      int     `toml:"ramp_rate_days"`
}

// ZonesConfig selects which threshold anchors each zone system. Custom_*
// zones are only read when the corresponding method is "custom".
type ZonesConfig struct {
	HRZoneMethod      string `toml:"hr_zone_method"`    // lthr | max_hr | custom
	PowerZoneMethod   string `toml:"power_zone_method"` // coggan_ftp | custom
	PaceZoneMethod    string `toml:"pace_zone_method"`  // threshold_pace | race_performance | custom
	CustomHRZones     []ZoneBound `toml:"custom_hr_zones,omitempty"`
	CustomPowerZones  []ZoneBound `toml:"custom_power_zones,omitempty"`
	CustomPaceZones   []ZoneBound `toml:"custom_pace_zones,omitempty"`
}

// ZoneBound is one band of a custom zone system, as a percent-of-threshold
// range.
type ZoneBound struct {
	Name     string  `toml:"name"`
	LowerPct float64 `toml:"lower_pct"`
	UpperPct float64 `toml:"upper_pct"`
}

// ImportConfig governs ingest behavior.
type ImportConfig struct {
	AutoCalculateTSS       bool     `toml:"auto_calculate_tss"`
	SupportedFormats       []string `toml:"supported_formats"`
	ChunkSize              int      `toml:"chunk_size"`
	SkipDuplicateDetection bool     `toml:"skip_duplicate_detection"`
	DefaultTimezone        string   `toml:"default_timezone"`
}

// Athlete is one entry under [athletes.<id>]: display info plus global
// thresholds, persisted flat (no per-sport overrides or history — those
// live in the store, not the config file).
type Athlete struct {
	DisplayName  string   `toml:"display_name"`
	Units        string   `toml:"units"` // metric | imperial
	FTPWatts     *int     `toml:"ftp_watts,omitempty"`
	LTHRBpm      *int     `toml:"lthr_bpm,omitempty"`
	MaxHRBpm     *int     `toml:"max_hr_bpm,omitempty"`
	RestingHRBpm *int     `toml:"resting_hr_bpm,omitempty"`
}

// Default returns the stock configuration a fresh install starts from.
func Default() Config {
	now := time.Now()
	return Config{
		Metadata: Metadata{Version: "1", CreatedAt: now, UpdatedAt: now},
		Settings: Settings{
			DataDir:      defaultDataDir(),
			DefaultUnits: "metric",
			AutoBackup:   AutoBackup{Enabled: true, KeepLastN: 5},
		},
		PMC: PMCConfig{
			CTLTimeConstant:   42,
			ATLTimeConstant:   7,
			MinDataDays:       14,
			ATLSpikeThreshold: 1.5,
			RampRateDays:      7,
		},
		Zones: ZonesConfig{
			HRZoneMethod:    "lthr",
			PowerZoneMethod: "coggan_ftp",
			PaceZoneMethod:  "threshold_pace",
		},
		Import: ImportConfig{
			AutoCalculateTSS: true,
			SupportedFormats: []string{"fit", "tcx", "gpx"},
			ChunkSize:        100,
			SkipDuplicateDetection: false,
			DefaultTimezone:  "UTC",
		},
		Athletes: make(map[string]Athlete),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trainrs"
	}
	return filepath.Join(home, ".trainrs")
}

// Load reads and parses the TOML config file at path, filling any zero
// sections with Default()'s values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading file: %w", err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing TOML: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.Metadata.Version == "" {
		cfg.Metadata.Version = d.Metadata.Version
	}
	if cfg.Settings.DataDir == "" {
		cfg.Settings.DataDir = d.Settings.DataDir
	}
	if cfg.Settings.DefaultUnits == "" {
		cfg.Settings.DefaultUnits = d.Settings.DefaultUnits
	}
	if cfg.PMC.CTLTimeConstant == 0 {
		cfg.PMC = d.PMC
	}
	if cfg.Zones.HRZoneMethod == "" {
		cfg.Zones.HRZoneMethod = d.Zones.HRZoneMethod
	}
	if cfg.Zones.PowerZoneMethod == "" {
		cfg.Zones.PowerZoneMethod = d.Zones.PowerZoneMethod
	}
	if cfg.Zones.PaceZoneMethod == "" {
		cfg.Zones.PaceZoneMethod = d.Zones.PaceZoneMethod
	}
	if len(cfg.Import.SupportedFormats) == 0 {
		cfg.Import.SupportedFormats = d.Import.SupportedFormats
	}
	if cfg.Import.ChunkSize == 0 {
		cfg.Import.ChunkSize = d.Import.ChunkSize
	}
	if cfg.Import.DefaultTimezone == "" {
		cfg.Import.DefaultTimezone = d.Import.DefaultTimezone
	}
	if cfg.Athletes == nil {
		cfg.Athletes = make(map[string]Athlete)
	}
}

// Save writes cfg as TOML to path, creating the parent directory and
// stamping Metadata.UpdatedAt.
func Save(path string, cfg *Config) error {
	cfg.Metadata.UpdatedAt = time.Now()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: creating directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("config: opening file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: encoding TOML: %w", err)
	}
	return nil
}

// DefaultPath returns the conventional on-disk location, ~/.trainrs/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: getting home directory: %w", err)
	}
	return filepath.Join(home, ".trainrs", "config.toml"), nil
}

// Validate checks structural and cross-field invariants.
func (c *Config) Validate() error {
	if c.Settings.DefaultUnits != "metric" && c.Settings.DefaultUnits != "imperial" {
		return fmt.Errorf("config: settings.default_units must be \"metric\" or \"imperial\", got %q", c.Settings.DefaultUnits)
	}
	if c.Settings.DefaultSport != "" {
		if _, err := domain.ParseSport(c.Settings.DefaultSport); err != nil {
			return fmt.Errorf("config: settings.default_sport: %w", err)
		}
	}
	switch c.Zones.HRZoneMethod {
	case "lthr", "max_hr", "custom":
	default:
		return fmt.Errorf("config: zones.hr_zone_method must be lthr, max_hr, or custom, got %q", c.Zones.HRZoneMethod)
	}
	switch c.Zones.PowerZoneMethod {
	case "coggan_ftp", "custom":
	default:
		return fmt.Errorf("config: zones.power_zone_method must be coggan_ftp or custom, got %q", c.Zones.PowerZoneMethod)
	}
	switch c.Zones.PaceZoneMethod {
	case "threshold_pace", "race_performance", "custom":
	default:
		return fmt.Errorf("config: zones.pace_zone_method must be threshold_pace, race_performance, or custom, got %q", c.Zones.PaceZoneMethod)
	}
	if c.PMC.CTLTimeConstant <= 0 || c.PMC.ATLTimeConstant <= 0 {
		return errors.New("config: pmc.ctl_time_constant and pmc.atl_time_constant must be positive")
	}
	if c.DefaultAthleteID != "" {
		if _, ok := c.Athletes[c.DefaultAthleteID]; !ok {
			return fmt.Errorf("config: default_athlete_id %q is not defined under [athletes]", c.DefaultAthleteID)
		}
	}
	for id, a := range c.Athletes {
		if a.Units != "" && a.Units != "metric" && a.Units != "imperial" {
			return fmt.Errorf("config: athletes.%s.units must be \"metric\" or \"imperial\", got %q", id, a.Units)
		}
	}
	return nil
}

// Set assigns value to the dotted key (e.g. "settings.default_units"),
// for the CLI's `config --set K=V`. Returns an error for an unknown key
// or a value that doesn't parse for that key's type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "settings.data_dir":
		c.Settings.DataDir = value
	case "settings.default_units":
		c.Settings.DefaultUnits = value
	case "settings.default_sport":
		c.Settings.DefaultSport = value
	case "pmc.ctl_time_constant":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: pmc.ctl_time_constant must be an integer: %w", err)
		}
		c.PMC.CTLTimeConstant = n
	case "pmc.atl_time_constant":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: pmc.atl_time_constant must be an integer: %w", err)
		}
		c.PMC.ATLTimeConstant = n
	case "zones.hr_zone_method":
		c.Zones.HRZoneMethod = value
	case "zones.power_zone_method":
		c.Zones.PowerZoneMethod = value
	case "zones.pace_zone_method":
		c.Zones.PaceZoneMethod = value
	case "import.chunk_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: import.chunk_size must be an integer: %w", err)
		}
		c.Import.ChunkSize = n
	case "default_athlete_id":
		c.DefaultAthleteID = value
	default:
		return fmt.Errorf("config: unknown key %q", key)
	}
	return nil
}

// Get returns the raw string value of a dotted key (e.g.
// "settings.default_units"), for the CLI's `config --get`. Only
// top-level scalar fields are addressable; athlete entries are not.
func (c *Config) Get(key string) (string, bool) {
	switch key {
	case "settings.data_dir":
		return c.Settings.DataDir, true
	case "settings.default_units":
		return c.Settings.DefaultUnits, true
	case "settings.default_sport":
		return c.Settings.DefaultSport, true
	case "pmc.ctl_time_constant":
		return fmt.Sprintf("%d", c.PMC.CTLTimeConstant), true
	case "pmc.atl_time_constant":
		return fmt.Sprintf("%d", c.PMC.ATLTimeConstant), true
	case "zones.hr_zone_method":
		return c.Zones.HRZoneMethod, true
	case "zones.power_zone_method":
		return c.Zones.PowerZoneMethod, true
	case "zones.pace_zone_method":
		return c.Zones.PaceZoneMethod, true
	case "import.chunk_size":
		return fmt.Sprintf("%d", c.Import.ChunkSize), true
	case "default_athlete_id":
		return c.DefaultAthleteID, true
	default:
		return "", false
	}
}
