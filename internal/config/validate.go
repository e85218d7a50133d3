package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateVision(); err != nil {
		return err
	}
	if err := c.validateDaemon(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.LibraryDir == "" {
		return errors.New("paths.library_dir must be set")
	}
	if c.Paths.ScratchDir == "" {
		return errors.New("paths.scratch_dir must be set")
	}
	if c.Paths.ProcessedDir == "" {
		return errors.New("paths.processed_dir must be set")
	}
	if c.Paths.LibraryDir == c.Paths.ScratchDir {
		return errors.New("paths.scratch_dir must differ from paths.library_dir")
	}
	return nil
}

func (c *Config) validateVision() error {
	if c.Vision.Endpoint == "" {
		return nil
	}
	parsed, err := url.Parse(c.Vision.Endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("vision.endpoint %q is not a valid URL", c.Vision.Endpoint)
	}
	return nil
}

func (c *Config) validateDaemon() error {
	if c.Daemon.IntakePollInterval <= 0 {
		return errors.New("daemon.intake_poll_interval must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
