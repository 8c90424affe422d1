package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
}

// WithConfigDir points Load at a directory other than ./configs.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) { o.configDir = dir }
}

// Load merges, lowest precedence first, the built-in defaults,
// {configDir}/base.yaml, {configDir}/{profile}.yaml and APP_* environment
// variables, then validates the result.
//
// Environment names are matched against keys already known from the earlier
// layers, so underscores inside a key survive:
//
//	APP_SERVER_READ_TIMEOUT                      -> server.read_timeout
//	APP_STORAGE_DRIVER                           -> storage.driver
//	APP_NOTIFY_WEBHOOK_CLIENT_RETRY_MAX_ATTEMPTS -> notify.webhook.client.retry.max_attempts
//
// Unknown names fall back to treating every underscore as a separator.
func Load(profile string, opts ...Option) (*Config, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	o := loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	for _, name := range []string{"base.yaml", profile + ".yaml"} {
		path := filepath.Join(o.configDir, name)
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	known := newEnvKeys(k.Keys())
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(name, value string) (string, any) {
			return known.resolve(name), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// validateProfile keeps the profile name inside configDir.
func validateProfile(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("profile must not be empty")
	case strings.ContainsAny(profile, `/\`):
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	case strings.Contains(profile, ".."):
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}

// envKeys maps "server_read_timeout" to "server.read_timeout" for every
// known koanf key.
type envKeys map[string]string

func newEnvKeys(keys []string) envKeys {
	m := make(envKeys, len(keys))
	for _, key := range keys {
		m[strings.ReplaceAll(key, ".", "_")] = key
	}
	return m
}

func (m envKeys) resolve(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
	if key, ok := m[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "_", ".")
}
