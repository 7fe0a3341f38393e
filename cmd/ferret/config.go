package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the editor settings read from the optional YAML config file.
type Config struct {
	TabStop     int  `yaml:"tabStop"`     // columns per tab (default 8)
	QuitTimes   int  `yaml:"quitTimes"`   // Ctrl-Q presses needed with unsaved changes (default 3)
	RegexSearch bool `yaml:"regexSearch"` // start with the regex toggle on
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		TabStop:   8,
		QuitTimes: 3,
	}
}

// defaultConfigPath is ~/.config/ferret/config.yaml, or "" if the home
// directory cannot be determined.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ferret", "config.yaml")
}

// LoadConfig reads settings from path, falling back to the default location
// when path is empty. A missing file is not an error; missing keys keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.TabStop < 1 {
		cfg.TabStop = 8
	}
	if cfg.QuitTimes < 0 {
		cfg.QuitTimes = 0
	}
	return cfg, nil
}
