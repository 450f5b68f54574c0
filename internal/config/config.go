package config

import (
	"fmt"
	"os"
	"time"
)

// DefaultBaseClasspath is the quoted base classpath shipped in the platform
// images. The outer quotes keep the glob segments as one shell token.
const DefaultBaseClasspath = `"/usr/share/java/cp-base/*:/usr/share/java/cp-base-new/*"`

const (
	defaultPollInterval   = 1 * time.Second
	defaultAttemptTimeout = 900 * time.Millisecond
)

type Config struct {
	LogLevel  string
	LogFormat string

	// Classpath inputs, read once here and passed explicitly to the resolver.
	BaseClasspath     string
	ClasspathOverride string
	ClasspathDirs     string
	ExtraClasspath    string

	PollInterval   time.Duration
	AttemptTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:          getEnvOrDefault(envKeyLogLevel, "info"),
		LogFormat:         getEnvOrDefault(envKeyLogFormat, "text"),
		BaseClasspath:     DefaultBaseClasspath,
		ClasspathOverride: os.Getenv(envKeyClasspath),
		ClasspathDirs:     os.Getenv(envKeyClasspathDirs),
		ExtraClasspath:    os.Getenv(envKeyExtraClasspath),
	}

	pollInterval, err := getDurationOrDefault(envKeyPollInterval, defaultPollInterval, envMinPollInterval)
	if err != nil {
		return nil, err
	}

	cfg.PollInterval = pollInterval

	attemptTimeout, err := getDurationOrDefault(envKeyAttemptTimeout, defaultAttemptTimeout, envMinAttemptTimeout)
	if err != nil {
		return nil, err
	}

	if attemptTimeout >= cfg.PollInterval {
		return nil, fmt.Errorf("%s (%s) must be below %s (%s)",
			envKeyAttemptTimeout, attemptTimeout, envKeyPollInterval, cfg.PollInterval)
	}

	cfg.AttemptTimeout = attemptTimeout

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

func getDurationOrDefault(key string, defaultValue, minValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	if d < minValue {
		return 0, fmt.Errorf("%s must be at least %s, got %s", key, minValue, d)
	}

	return d, nil
}
