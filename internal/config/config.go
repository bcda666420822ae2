package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/pynezz/cybermap/internal/filter"
	"github.com/pynezz/cybermap/internal/fs"
	"github.com/pynezz/cybermap/internal/util"
	"github.com/pynezz/cybermap/pkg/model"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Default returns the configuration used when no file is present.
func Default() *model.Config {
	return &model.Config{
		Network: model.NetworkConfig{
			Address:      "127.0.0.1:3000",
			ReadTimeout:  10,
			WriteTimeout: 10,
		},
		Database: model.DatabaseConfig{Path: ":memory:"},
		Feed: model.FeedConfig{
			IntervalMs: 3000,
			MaxRecords: 200,
			ReloadMin:  50,
			ReloadMax:  100,
			FeedSize:   10,
		},
		Filters: model.FilterConfig{Severity: filter.All, Type: filter.All},
		Sound:   model.SoundConfig{Enabled: true},
		Log: model.LogConfig{
			Level:    "info",
			Encoding: "console",
			Output:   []string{"stdout"},
		},
	}
}

// LoadConfig loads the configuration from the given path on top of the defaults.
// A missing file is not an error: the defaults are returned with a warning.
func LoadConfig(path string) (*model.Config, error) {
	cfg := Default()

	if !fs.FileExists(path) {
		util.PrintWarning("Configuration file " + path + " not found, using defaults")
		return cfg, nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read configuration %s", path)
	}

	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "parse configuration %s", path),
			"the configuration must be YAML, see config.example.yaml")
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	util.PrintSuccess("Loaded configuration file: " + path)
	return cfg, nil
}

// WriteConfig writes cfg as YAML to path.
func WriteConfig(cfg *model.Config, path string) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	buf, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode configuration")
	}
	if err := fs.WriteFileAtomic(path, buf, 0o644); err != nil {
		return errors.Wrapf(err, "write configuration %s", path)
	}
	return nil
}

// Validate checks ranges and the initial filter selections.
func Validate(cfg *model.Config) error {
	f := cfg.Feed
	switch {
	case cfg.Network.Address == "":
		return errors.Wrap(ErrInvalidConfig, "network.address is empty")
	case cfg.Network.ReadTimeout < 0 || cfg.Network.WriteTimeout < 0:
		return errors.Wrap(ErrInvalidConfig, "network timeouts must not be negative")
	case f.IntervalMs <= 0:
		return errors.Wrapf(ErrInvalidConfig, "feed.interval_ms must be positive, got %d", f.IntervalMs)
	case f.MaxRecords <= 0:
		return errors.Wrapf(ErrInvalidConfig, "feed.max_records must be positive, got %d", f.MaxRecords)
	case f.ReloadMin < 0 || f.ReloadMax <= f.ReloadMin:
		return errors.Wrapf(ErrInvalidConfig, "feed reload range [%d,%d) is empty", f.ReloadMin, f.ReloadMax)
	case f.FeedSize <= 0:
		return errors.Wrapf(ErrInvalidConfig, "feed.feed_size must be positive, got %d", f.FeedSize)
	}

	if err := Criteria(cfg).Validate(); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}

// Criteria returns the configured initial filter criteria.
func Criteria(cfg *model.Config) filter.Criteria {
	return filter.Criteria{
		Severity: cfg.Filters.Severity,
		Type:     cfg.Filters.Type,
		Search:   cfg.Filters.Search,
	}.Normalize()
}
