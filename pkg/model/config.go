package model

// This is the pkg/model/config.go file, which contains the configuration model for cybermap.
// The configuration is loaded from a YAML file by internal/config, every section has defaults
// so an empty (or missing) file still yields a runnable dashboard.

// Config represents the top-level configuration structure for cybermap.
type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	Database DatabaseConfig `yaml:"database"`
	Feed     FeedConfig     `yaml:"feed"`
	Filters  FilterConfig   `yaml:"filters"`
	Sound    SoundConfig    `yaml:"sound"`
	Log      LogConfig      `yaml:"log"`
}

// NetworkConfig defines network-related configuration settings.
type NetworkConfig struct {
	Address      string `yaml:"address"`
	ReadTimeout  int    `yaml:"read_timeout,omitempty"`  // seconds
	WriteTimeout int    `yaml:"write_timeout,omitempty"` // seconds
}

// DatabaseConfig points at the sqlite database holding the country catalogue
// and the export audit. The default is an in-memory database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// FeedConfig controls the live feed and the bounded threat store.
type FeedConfig struct {
	IntervalMs int `yaml:"interval_ms"`
	MaxRecords int `yaml:"max_records"`
	ReloadMin  int `yaml:"reload_min"`
	ReloadMax  int `yaml:"reload_max"` // exclusive
	FeedSize   int `yaml:"feed_size"`
}

// FilterConfig holds the initial filter criteria.
type FilterConfig struct {
	Severity string `yaml:"severity"`
	Type     string `yaml:"type"`
	Search   string `yaml:"search"`
}

type SoundConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level    string   `yaml:"level"`
	Encoding string   `yaml:"encoding"` // json or console
	Output   []string `yaml:"output"`
}
