package main

import (
	"errors"
	"fmt"

	"github.com/trainrs/endurance-analytics/internal/config"
	"github.com/trainrs/endurance-analytics/internal/storage"
)

// app bundles the dependencies most subcommands need: the parsed config
// and an open store handle.
type app struct {
	cfg *config.Config
	db  *storage.DB
}

// openApp loads the config (creating a default one on first run) and
// opens the SQLite store at settings.data_dir.
func openApp() (*app, error) {
	path := cfgFile
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrNoConfig) {
		def := config.Default()
		if err := config.Save(path, &def); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}
		cfg = &def
	} else if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config at %s is invalid: %w", path, err)
	}

	dbPath := storageFilePath(cfg)
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", dbPath, err)
	}

	return &app{cfg: cfg, db: db}, nil
}

func storageFilePath(cfg *config.Config) string {
	return cfg.Settings.DataDir + "/trainrs.db"
}

// resolveAthleteID picks the athlete ID for a command: the explicit flag
// if given, else the config's default_athlete_id, else an error.
func resolveAthleteID(cfg *config.Config, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.DefaultAthleteID != "" {
		return cfg.DefaultAthleteID, nil
	}
	return "", newUsageError("no --athlete given and no default_athlete_id configured")
}
