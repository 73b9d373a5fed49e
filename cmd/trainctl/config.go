package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/trainrs/endurance-analytics/internal/config"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// configurableKeys lists every dotted key Config.Get/Set understands, used
// for `config --list`.
var configurableKeys = []string{
	"settings.data_dir",
	"settings.default_units",
	"settings.default_sport",
	"pmc.ctl_time_constant",
	"pmc.atl_time_constant",
	"zones.hr_zone_method",
	"zones.power_zone_method",
	"zones.pace_zone_method",
	"import.chunk_size",
	"default_athlete_id",
}

func newConfigCmd() *cobra.Command {
	var (
		list bool
		set  string
		get  string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit the persisted configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(list, set, get)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "print every configurable key and its value")
	cmd.Flags().StringVar(&set, "set", "", "set a key, as key=value")
	cmd.Flags().StringVar(&get, "get", "", "print one key's value")
	cmd.AddCommand(newConfigAthleteCmd())
	return cmd
}

func runConfig(list bool, set, get string) error {
	path, err := configPathOrDefault()
	if err != nil {
		return err
	}

	cfg, err := loadOrCreateConfig(path)
	if err != nil {
		return err
	}

	switch {
	case set != "":
		key, value, ok := splitKeyValue(set)
		if !ok {
			return newUsageError("config: --set expects key=value, got %q", set)
		}
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("%s = %s\n", key, value)
		return nil
	case get != "":
		value, ok := cfg.Get(get)
		if !ok {
			return newUsageError("config: unknown key %q", get)
		}
		fmt.Println(value)
		return nil
	case list:
		keys := append([]string(nil), configurableKeys...)
		sort.Strings(keys)
		for _, k := range keys {
			v, _ := cfg.Get(k)
			fmt.Printf("%-24s %s\n", k, v)
		}
		return nil
	default:
		return newUsageError("config: one of --list, --set, or --get is required")
	}
}

func configPathOrDefault() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultPath()
}

func loadOrCreateConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrNoConfig) {
		def := config.Default()
		if err := config.Save(path, &def); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func splitKeyValue(s string) (key, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

func newConfigAthleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "athlete",
		Short: "Register or update an athlete profile",
	}
	cmd.AddCommand(newConfigAthleteAddCmd())
	return cmd
}

func newConfigAthleteAddCmd() *cobra.Command {
	var (
		id, name, units string
		ftp, lthr       int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an athlete to both the config and the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigAthleteAdd(id, name, units, ftp, lthr)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "athlete ID (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&units, "units", "metric", "metric or imperial")
	cmd.Flags().IntVar(&ftp, "ftp", 0, "functional threshold power, watts")
	cmd.Flags().IntVar(&lthr, "lthr", 0, "lactate threshold heart rate, bpm")
	return cmd
}

func runConfigAthleteAdd(id, name, unitsStr string, ftp, lthr int) error {
	if id == "" {
		return newUsageError("config athlete add: --id is required")
	}
	units, err := domain.ParseUnitPreference(unitsStr)
	if err != nil {
		return newUsageError("config athlete add: %v", err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.db.Close()

	athlete := domain.Athlete{ID: id, DisplayName: name, Units: units}
	if ftp > 0 {
		v := ftp
		athlete.Global.FTPWatts = &v
	}
	if lthr > 0 {
		v := lthr
		athlete.Global.LTHRBpm = &v
	}
	if err := a.db.UpsertAthlete(athlete); err != nil {
		return fmt.Errorf("storing athlete: %w", err)
	}

	a.cfg.Athletes[id] = config.Athlete{
		DisplayName: name,
		Units:       unitsStr,
		FTPWatts:    athlete.Global.FTPWatts,
		LTHRBpm:     athlete.Global.LTHRBpm,
	}
	path, err := configPathOrDefault()
	if err != nil {
		return err
	}
	if err := config.Save(path, a.cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("registered athlete %s (%s)\n", id, name)
	return nil
}
