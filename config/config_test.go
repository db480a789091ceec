package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

const sampleYAML = `
server: mese.webuntis.com
school: demo
username: max
user_agent: my-untis
timeout: 10s
output: json
cache:
  size: 50
  ttl: 5m
  refresh: 30s
session_store:
  path: /tmp/untis.db
  key_env: MY_KEY
  max_age: 1h
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server != "mese.webuntis.com" || cfg.School != "demo" || cfg.Username != "max" {
		t.Errorf("connection: %+v", cfg)
	}
	if cfg.Timeout != 10*time.Second || cfg.Output != "json" {
		t.Errorf("timeout/output: %v %q", cfg.Timeout, cfg.Output)
	}
	if cfg.Cache.Size != 50 || cfg.Cache.TTL != 5*time.Minute || cfg.Cache.Refresh != 30*time.Second {
		t.Errorf("cache: %+v", cfg.Cache)
	}
	if cfg.SessionStore.MaxAge != time.Hour || cfg.SessionStore.KeyEnv != "MY_KEY" {
		t.Errorf("session store: %+v", cfg.SessionStore)
	}

	cc := cfg.CacheConfig()
	if cc.Size != 50 || cc.TTL != 5*time.Minute || cc.RefreshAfter != 30*time.Second {
		t.Errorf("CacheConfig: %+v", cc)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("server: [unterminated")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untis.yaml")

	cfg, err := Load(path, false, env(map[string]string{"UNTIS_SERVER": "nessa.webuntis.com"}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "nessa.webuntis.com" {
		t.Errorf("env override: %q", cfg.Server)
	}
	if cfg.Timeout != DefaultTimeout || cfg.Output != DefaultOutput || !cfg.CacheEnabled() {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.SessionStore.Path == "" || cfg.SessionStore.KeyEnv != DefaultKeyEnv {
		t.Errorf("store defaults: %+v", cfg.SessionStore)
	}

	if _, err := Load(path, true, env(nil)); err == nil {
		t.Error("required missing file should fail")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untis.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, true, env(map[string]string{
		"UNTIS_SCHOOL":   "other",
		"UNTIS_USERNAME": "  moritz ",
		"UNTIS_SERVER":   "",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.School != "other" || cfg.Username != "moritz" {
		t.Errorf("overrides: %q %q", cfg.School, cfg.Username)
	}
	if cfg.Server != "mese.webuntis.com" {
		t.Errorf("empty env value should not override: %q", cfg.Server)
	}
}

func TestResolvePassword(t *testing.T) {
	cfg := &Config{Password: "from-file"}
	cfg.ApplyEnv(env(map[string]string{"UNTIS_PASSWORD": "from-env"}))
	cfg.ApplyDefaults()
	if pw, ok := cfg.ResolvePassword(); !ok || pw != "from-env" {
		t.Errorf("env should win: %q %v", pw, ok)
	}

	cfg = &Config{Password: "from-file"}
	cfg.ApplyEnv(env(nil))
	cfg.ApplyDefaults()
	if pw, ok := cfg.ResolvePassword(); !ok || pw != "from-file" {
		t.Errorf("file fallback: %q %v", pw, ok)
	}

	cfg = &Config{PasswordEnv: "CUSTOM"}
	cfg.ApplyEnv(env(map[string]string{"CUSTOM": "pw"}))
	if pw, _ := cfg.ResolvePassword(); pw != "pw" {
		t.Errorf("custom env: %q", pw)
	}

	cfg = &Config{}
	cfg.ApplyEnv(env(nil))
	cfg.ApplyDefaults()
	if _, ok := cfg.ResolvePassword(); ok {
		t.Error("no password configured")
	}
}

func TestCacheDisabled(t *testing.T) {
	cfg, err := Parse([]byte("cache:\n  enabled: false\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg.ApplyDefaults()
	if cfg.CacheEnabled() {
		t.Error("cache should be disabled")
	}
}

func validConfig() *Config {
	cfg := &Config{Server: "mese.webuntis.com", School: "demo", Username: "max"}
	cfg.ApplyEnv(env(map[string]string{DefaultKeyEnv: "secret"}))
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	r := Validate(validConfig())
	if !r.IsValid() {
		t.Fatalf("expected valid, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Fatalf("expected no warnings, got: %v", r.Warnings)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"missing server", func(c *Config) { c.Server = "" }, "server is required"},
		{"missing school", func(c *Config) { c.School = "" }, "school is required"},
		{"missing username", func(c *Config) { c.Username = "" }, "username is required"},
		{"bad output", func(c *Config) { c.Output = "xml" }, "output"},
		{"negative size", func(c *Config) { c.Cache.Size = -1 }, "cache.size"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			r := Validate(cfg)
			if r.IsValid() {
				t.Fatal("expected invalid")
			}
			if len(r.Errors) != 1 || !strings.Contains(r.Errors[0], tt.want) {
				t.Errorf("errors: %v", r.Errors)
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	cfg := validConfig()
	cfg.Server = "http://localhost:8080"
	cfg.Password = "plain"
	cfg.Cache.TTL = time.Minute
	cfg.Cache.Refresh = 2 * time.Minute
	cfg.ApplyEnv(env(nil))

	r := Validate(cfg)
	if !r.IsValid() {
		t.Fatalf("warnings only, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 4 {
		t.Errorf("expected 4 warnings, got %d: %v", len(r.Warnings), r.Warnings)
	}
}

func TestValidateYAML(t *testing.T) {
	errs, err := ValidateYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ValidateYAML: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("sample should be valid: %v", errs)
	}

	errs, err = ValidateYAML([]byte("server: x\nunknown_key: 1\ntimeout: soon\ncache:\n  size: 0\n"))
	if err != nil {
		t.Fatalf("ValidateYAML: %v", err)
	}
	if len(errs) != 3 {
		t.Errorf("expected 3 violations, got %d: %v", len(errs), errs)
	}

	if errs, err := ValidateYAML(nil); err != nil || len(errs) != 0 {
		t.Errorf("empty document: %v %v", errs, err)
	}
}
