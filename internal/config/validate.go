package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePlex() error {
	if c.Plex.URL == "" {
		return errors.New("plex.url must be set")
	}
	if c.Plex.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/blackspot/config.toml"
		}
		return fmt.Errorf("plex.token is required. Set PLEX_TOKEN env var or edit %s (create with 'blackspot config init')", defaultPath)
	}
	// LibraryID stays optional here: the scan command can supply it via flag
	// and enforces its presence itself.
	if c.Plex.RequestTimeout <= 0 {
		return errors.New("plex.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.TimeDiffMinutes < 0 {
		return errors.New("analysis.time_diff_minutes must be >= 0")
	}
	if c.Analysis.BlacknessThreshold < 0 || c.Analysis.BlacknessThreshold > 1 {
		return errors.New("analysis.blackness_threshold must be between 0 and 1")
	}
	if c.Analysis.Workers < 1 {
		return errors.New("analysis.workers must be >= 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
