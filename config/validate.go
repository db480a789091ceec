package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/initializ/untis/client"
)

//go:embed schema.json
var schemaJSON []byte

var (
	compiledSchema *gojsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

var knownOutputs = map[string]bool{"table": true, "json": true, "markdown": true}

// ValidationResult holds errors and warnings from config validation.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Validate checks a loaded Config for errors and warnings.
func Validate(cfg *Config) *ValidationResult {
	r := &ValidationResult{}

	if cfg.Server == "" {
		r.Errors = append(r.Errors, "server is required")
	} else if u, err := url.Parse(client.NormalizeServer(cfg.Server)); err != nil || u.Host == "" {
		r.Errors = append(r.Errors, fmt.Sprintf("server %q is not a valid host or URL", cfg.Server))
	} else if u.Scheme == "http" {
		r.Warnings = append(r.Warnings, "server uses plain http; credentials are sent unencrypted")
	}
	if cfg.School == "" {
		r.Errors = append(r.Errors, "school is required")
	}
	if cfg.Username == "" {
		r.Errors = append(r.Errors, "username is required")
	}

	if cfg.Password != "" {
		r.Warnings = append(r.Warnings, fmt.Sprintf("password is stored in plain text; prefer the %s environment variable", cfg.PasswordEnv))
	}
	if cfg.Output != "" && !knownOutputs[cfg.Output] {
		r.Errors = append(r.Errors, fmt.Sprintf("output %q must be one of: table, json, markdown", cfg.Output))
	}
	if cfg.Timeout < 0 {
		r.Errors = append(r.Errors, "timeout must not be negative")
	}

	if cfg.Cache.Size < 0 {
		r.Errors = append(r.Errors, "cache.size must not be negative")
	}
	if cfg.Cache.TTL < 0 {
		r.Errors = append(r.Errors, "cache.ttl must not be negative")
	}
	if cfg.Cache.TTL > 0 && cfg.Cache.Refresh > 0 && cfg.Cache.Refresh >= cfg.Cache.TTL {
		r.Warnings = append(r.Warnings, "cache.refresh is not shorter than cache.ttl; entries expire before they are refreshed")
	}

	if cfg.SessionStore.MaxAge < 0 {
		r.Errors = append(r.Errors, "session_store.max_age must not be negative")
	}
	if cfg.SessionStore.KeyEnv != "" && cfg.StoreSecret() == "" {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s is not set; sessions will not be saved between runs", cfg.SessionStore.KeyEnv))
	}

	return r
}

func getSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return compiledSchema, compileErr
}

// ValidateSchema validates a JSON document against the untis.yaml schema.
// It returns the violations and an error if the schema cannot be applied.
func ValidateSchema(jsonData []byte) ([]string, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}

// ValidateYAML converts a YAML document to JSON and checks it against the
// schema.
func ValidateYAML(data []byte) ([]string, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing untis config: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	jsonData, err := json.Marshal(normalize(doc))
	if err != nil {
		return nil, fmt.Errorf("converting config to json: %w", err)
	}
	return ValidateSchema(jsonData)
}

// normalize rewrites the map[any]any and scalar forms yaml produces into
// values encoding/json accepts.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[strings.TrimSpace(fmt.Sprint(k))] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	}
	return v
}
