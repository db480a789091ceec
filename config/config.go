// Package config loads untis.yaml, the configuration of the untis command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/initializ/untis/client"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "untis.yaml"

// Defaults.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultOutput      = "table"
	DefaultPasswordEnv = "UNTIS_PASSWORD"
	DefaultKeyEnv      = "UNTIS_STORE_KEY"
	DefaultMaxAge      = 12 * time.Hour
)

// Config represents untis.yaml.
type Config struct {
	Server       string        `yaml:"server"`
	School       string        `yaml:"school"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password,omitempty"`
	PasswordEnv  string        `yaml:"password_env,omitempty"`
	UserAgent    string        `yaml:"user_agent,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	Output       string        `yaml:"output,omitempty"`
	Cache        CacheRef      `yaml:"cache,omitempty"`
	SessionStore StoreRef      `yaml:"session_store,omitempty"`

	lookup func(string) (string, bool)
}

// CacheRef configures the response cache. Enabled defaults to true.
type CacheRef struct {
	Enabled *bool         `yaml:"enabled,omitempty"`
	Size    int           `yaml:"size,omitempty"`
	TTL     time.Duration `yaml:"ttl,omitempty"`
	Refresh time.Duration `yaml:"refresh,omitempty"`
}

// StoreRef configures where logged-in sessions are kept between runs.
type StoreRef struct {
	Path   string        `yaml:"path,omitempty"`
	KeyEnv string        `yaml:"key_env,omitempty"` // env var holding the encryption secret
	MaxAge time.Duration `yaml:"max_age,omitempty"`
}

// Parse decodes YAML into a Config. Defaults are not applied.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing untis config: %w", err)
	}
	return &cfg, nil
}

// Load reads path, applies environment overrides from lookup and fills in
// defaults. A missing file is only an error when required is set.
func Load(path string, required bool, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if cfg, err = Parse(data); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg.ApplyEnv(lookup)
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyEnv overrides connection settings with UNTIS_SERVER, UNTIS_SCHOOL,
// UNTIS_USERNAME and UNTIS_USER_AGENT.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for env, field := range map[string]*string{
		"UNTIS_SERVER":     &c.Server,
		"UNTIS_SCHOOL":     &c.School,
		"UNTIS_USERNAME":   &c.Username,
		"UNTIS_USER_AGENT": &c.UserAgent,
	} {
		if v, ok := lookup(env); ok && strings.TrimSpace(v) != "" {
			*field = strings.TrimSpace(v)
		}
	}
	c.lookup = lookup
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.PasswordEnv == "" {
		c.PasswordEnv = DefaultPasswordEnv
	}
	if c.Cache.Enabled == nil {
		enabled := true
		c.Cache.Enabled = &enabled
	}
	if c.SessionStore.KeyEnv == "" {
		c.SessionStore.KeyEnv = DefaultKeyEnv
	}
	if c.SessionStore.MaxAge == 0 {
		c.SessionStore.MaxAge = DefaultMaxAge
	}
	if c.SessionStore.Path == "" {
		c.SessionStore.Path = defaultStorePath()
	}
}

func defaultStorePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "untis", "sessions.db")
}

// ResolvePassword returns the password from the environment variable named
// by password_env, falling back to the password field. The second value is
// false when neither is set.
func (c *Config) ResolvePassword() (string, bool) {
	if c.PasswordEnv != "" {
		if v, ok := c.env(c.PasswordEnv); ok && v != "" {
			return v, true
		}
	}
	if c.Password != "" {
		return c.Password, true
	}
	return "", false
}

// StoreSecret returns the session store secret, or "" when the variable
// named by session_store.key_env is unset.
func (c *Config) StoreSecret() string {
	v, _ := c.env(c.SessionStore.KeyEnv)
	return v
}

// CacheEnabled reports whether responses should be cached.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// CacheConfig converts the cache section for the client package.
func (c *Config) CacheConfig() client.CacheConfig {
	return client.CacheConfig{Size: c.Cache.Size, TTL: c.Cache.TTL, RefreshAfter: c.Cache.Refresh}
}

func (c *Config) env(name string) (string, bool) {
	if c.lookup == nil {
		return os.LookupEnv(name)
	}
	return c.lookup(name)
}
