// Package config loads the opr.yaml host configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultListen            = "127.0.0.1:3320"
	defaultRulesetsDir       = "./config/rulesets"
	defaultReloadDebounceMs  = 300
	defaultAccessLogPreset   = "opr_minimal"
	defaultServerReadTimeout = 30000
)

type Config struct {
	Server struct {
		Listen        string `yaml:"listen"`
		ReadTimeoutMs int    `yaml:"read_timeout_ms"`
		PidFile       string `yaml:"pid_file"`
	} `yaml:"server"`

	Rulesets struct {
		Dir string `yaml:"dir"`
		// AutoReload watches rulesets.dir and reloads ruleset documents at runtime.
		AutoReload struct {
			Enabled    bool `yaml:"enabled"`
			DebounceMs int  `yaml:"debounce_ms"`
		} `yaml:"auto_reload"`
	} `yaml:"rulesets"`

	Logging struct {
		AccessLog             bool   `yaml:"access_log"`
		AccessLogPath         string `yaml:"access_log_path"`
		AccessLogFormat       string `yaml:"access_log_format"`
		AccessLogFormatPreset string `yaml:"access_log_format_preset"`
	} `yaml:"logging"`
}

// Load reads and validates the yaml config at path, applying defaults for
// unset fields. A missing file yields the default config.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)

	p := strings.TrimSpace(path)
	if p == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %q: %w", p, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", p, err)
	}
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config %q: %w", p, err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = defaultListen
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		cfg.Server.ReadTimeoutMs = defaultServerReadTimeout
	}
	if strings.TrimSpace(cfg.Rulesets.Dir) == "" {
		cfg.Rulesets.Dir = defaultRulesetsDir
	}
	if cfg.Rulesets.AutoReload.DebounceMs <= 0 {
		cfg.Rulesets.AutoReload.DebounceMs = defaultReloadDebounceMs
	}
	if strings.TrimSpace(cfg.Logging.AccessLogFormat) == "" &&
		strings.TrimSpace(cfg.Logging.AccessLogFormatPreset) == "" {
		cfg.Logging.AccessLogFormatPreset = defaultAccessLogPreset
	}
}

func validate(cfg *Config) error {
	if strings.Contains(cfg.Server.Listen, " ") {
		return fmt.Errorf("server.listen must not contain spaces: %q", cfg.Server.Listen)
	}
	return nil
}
