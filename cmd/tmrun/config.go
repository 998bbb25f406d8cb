package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	Timeout      string `toml:"timeout"`
	PollInterval string `toml:"poll_interval"`
	GracePeriod  string `toml:"grace_period"`
	Quiet        bool   `toml:"quiet"`
}

type runConfig struct {
	Timeout      time.Duration
	PollInterval time.Duration
	GracePeriod  time.Duration
	Quiet        bool
}

func defaultRunConfig() runConfig {
	return runConfig{
		PollInterval: 100 * time.Millisecond,
	}
}

func loadRunConfig(path string) (runConfig, error) {
	cfg := defaultRunConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runConfig{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("timeout") {
		d, err := parseInterval(raw.Timeout)
		if err != nil {
			return runConfig{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	if meta.IsDefined("poll_interval") {
		d, err := parseInterval(raw.PollInterval)
		if err != nil {
			return runConfig{}, fmt.Errorf("parse poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}

	if meta.IsDefined("grace_period") {
		d, err := parseInterval(raw.GracePeriod)
		if err != nil {
			return runConfig{}, fmt.Errorf("parse grace_period: %w", err)
		}
		cfg.GracePeriod = d
	}

	if meta.IsDefined("quiet") {
		cfg.Quiet = raw.Quiet
	}

	return cfg, nil
}

// parseInterval accepts Go duration strings ("1.5s", "100ms") and bare
// numbers, which are read as fractional seconds.
func parseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(f * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}
