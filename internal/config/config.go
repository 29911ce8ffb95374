// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/apexchat/internal/model"
	"github.com/jeranaias/apexchat/internal/storage"
	"github.com/jeranaias/apexchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete apexchat configuration.
type Config struct {
	Version string `toml:"version" json:"version" yaml:"version"`

	// Server configures the chat proxy endpoint.
	Server ServerConfig `toml:"server" json:"server" yaml:"server"`

	// Gemini configures the generative-language upstream.
	Gemini GeminiConfig `toml:"gemini" json:"gemini" yaml:"gemini"`

	// Maps configures the office location card.
	Maps MapsConfig `toml:"maps" json:"maps" yaml:"maps"`

	// Widget configures the chat client.
	Widget WidgetConfig `toml:"widget" json:"widget" yaml:"widget"`

	// Logging configures the zap logger.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// ServerConfig contains proxy server configuration.
type ServerConfig struct {
	// Addr is the listen address (host:port).
	Addr string `toml:"addr" json:"addr" yaml:"addr"`
	// AllowedOrigins are the CORS origins; "*.example.com" allows subdomains.
	AllowedOrigins []string `toml:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins"`
	// RateLimitPerMinute is the per-client request rate (0 disables limiting).
	RateLimitPerMinute int `toml:"rate_limit_per_minute" json:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	// RateBurst is the per-client burst size.
	RateBurst int `toml:"rate_burst" json:"rate_burst" yaml:"rate_burst"`
	// MaxBodyBytes caps the chat request body.
	MaxBodyBytes int64 `toml:"max_body_bytes" json:"max_body_bytes" yaml:"max_body_bytes"`
}

// GeminiConfig contains Gemini API configuration.
type GeminiConfig struct {
	// APIKey is the Gemini API key. Never logged.
	APIKey string `toml:"api_key" json:"api_key" yaml:"api_key"`
	// Model is the generative model name.
	Model string `toml:"model" json:"model" yaml:"model"`
	// BaseURL overrides the API endpoint (empty uses the public API).
	BaseURL string `toml:"base_url" json:"base_url" yaml:"base_url"`
}

// MapsConfig contains location card configuration.
type MapsConfig struct {
	// APIKey is the maps embed key; without it the card has no map.
	APIKey string `toml:"api_key" json:"api_key" yaml:"api_key"`
	// OfficeAddress is the address shown on the card.
	OfficeAddress string `toml:"office_address" json:"office_address" yaml:"office_address"`
}

// WidgetConfig contains chat client configuration.
type WidgetConfig struct {
	// Language is the initial widget language: "en", "ar" or "fr".
	Language string `toml:"language" json:"language" yaml:"language"`
	// HistoryBackend selects history storage: "file", "sqlite" or "memory".
	HistoryBackend string `toml:"history_backend" json:"history_backend" yaml:"history_backend"`
	// HistoryPath is the history directory (empty = ~/.apexchat).
	HistoryPath string `toml:"history_path" json:"history_path" yaml:"history_path"`
	// ProxyURL points the client at a remote proxy. Empty calls Gemini in process.
	ProxyURL string `toml:"proxy_url" json:"proxy_url" yaml:"proxy_url"`
	// VoiceCommand is the speech-to-text command line ({lang} is substituted).
	// Empty disables voice input.
	VoiceCommand string `toml:"voice_command" json:"voice_command" yaml:"voice_command"`
}

// LoggingConfig contains logger configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" json:"level" yaml:"level"`
	// Development switches to the human-readable console encoder.
	Development bool `toml:"development" json:"development" yaml:"development"`
	// File also writes logs to this path.
	File string `toml:"file" json:"file" yaml:"file"`
}

// Default returns a new Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"https://apexlabs.dev",
				"*.apexlabs.dev",
			},
			RateLimitPerMinute: 30,
			RateBurst:          10,
			MaxBodyBytes:       256 * 1024,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Maps: MapsConfig{
			OfficeAddress: "100 Innovation Drive, Suite 400, Austin, TX 78701",
		},
		Widget: WidgetConfig{
			Language:       string(model.DefaultLanguage),
			HistoryBackend: string(storage.KindFile),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the apexchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".apexchat"), nil
}

// ConfigPath returns the path of the config file with the given extension
// ("toml", "json" or "yaml").
func ConfigPath(ext string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config."+ext), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions fixes config files readable by others. They hold
// API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// dotEnvFile is loaded from the working directory before env overrides.
const dotEnvFile = ".env"

var dotEnvOnce sync.Once

// loadDotEnv loads .env once per process. Variables already set win.
func loadDotEnv() {
	dotEnvOnce.Do(func() {
		_ = godotenv.Load(dotEnvFile)
	})
}

// Load loads configuration from the config file. TOML is tried first, then
// JSON, then YAML; with none present the defaults are used. Environment
// overrides are applied last.
func Load() (*Config, error) {
	for _, ext := range []string{"toml", "json", "yaml"} {
		path, err := ConfigPath(ext)
		if err != nil {
			break
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file. The format follows
// the extension; anything unrecognized is read as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return finish(cfg)
}

// LoadFile decodes path over the defaults without environment overrides or
// validation. Use it to edit a file without baking the environment into it.
// A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, nil
}

// finish applies env overrides, defaults and validation.
func finish(cfg *Config) (*Config, error) {
	loadDotEnv()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	warnPermissions(path)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	warnPermissions(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadYAML decodes a YAML file over cfg.
func LoadYAML(cfg *Config, path string) error {
	warnPermissions(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return nil
}

func warnPermissions(path string) {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.AllowedOrigins == nil {
		c.Server.AllowedOrigins = d.Server.AllowedOrigins
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = d.Server.MaxBodyBytes
	}
	if c.Server.RateLimitPerMinute > 0 && c.Server.RateBurst == 0 {
		c.Server.RateBurst = d.Server.RateBurst
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = d.Gemini.Model
	}
	if c.Maps.OfficeAddress == "" {
		c.Maps.OfficeAddress = d.Maps.OfficeAddress
	}
	if c.Widget.Language == "" {
		c.Widget.Language = d.Widget.Language
	}
	if c.Widget.HistoryBackend == "" {
		c.Widget.HistoryBackend = d.Widget.HistoryBackend
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPath("toml")
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration as TOML with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# apexchat configuration file\n")
	b.WriteString("# Generated by apexchat - edit with care\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveToPath writes cfg in the format named by the extension of path.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SaveJSON(cfg, path)
	case ".yaml", ".yml":
		return SaveYAML(cfg, path)
	default:
		return SaveTOML(cfg, path)
	}
}

// SaveYAML writes the configuration as YAML with 0600 permissions.
func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration as JSON with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// maxBodyLimit bounds server.max_body_bytes.
const maxBodyLimit = 10 * 1024 * 1024

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration and returns every problem found as
// ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Server
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		add("server.addr", "must be host:port, got %q", c.Server.Addr)
	}
	for _, origin := range c.Server.AllowedOrigins {
		if !validOrigin(origin) {
			add("server.allowed_origins", "invalid origin %q", origin)
		}
	}
	if c.Server.RateLimitPerMinute < 0 {
		add("server.rate_limit_per_minute", "must not be negative")
	}
	if c.Server.RateLimitPerMinute > 0 && c.Server.RateBurst < 1 {
		add("server.rate_burst", "must be at least 1 when rate limiting is enabled")
	}
	if c.Server.MaxBodyBytes <= 0 || c.Server.MaxBodyBytes > maxBodyLimit {
		add("server.max_body_bytes", "must be between 1 and %d", maxBodyLimit)
	}

	// Gemini
	if strings.TrimSpace(c.Gemini.Model) == "" {
		add("gemini.model", "is required")
	}
	if c.Gemini.BaseURL != "" && !validHTTPURL(c.Gemini.BaseURL) {
		add("gemini.base_url", "must be an http(s) URL")
	}

	// Widget
	if _, err := model.ParseLanguage(c.Widget.Language); err != nil {
		add("widget.language", "must be one of en, ar, fr")
	}
	if !validKind(c.Widget.HistoryBackend) {
		add("widget.history_backend", "must be one of file, sqlite, memory")
	}
	if c.Widget.ProxyURL != "" && !validHTTPURL(c.Widget.ProxyURL) {
		add("widget.proxy_url", "must be an http(s) URL")
	}

	// Logging
	if !containsFold(validLogLevels, c.Logging.Level) {
		add("logging.level", "must be one of %s", strings.Join(validLogLevels, ", "))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validOrigin(origin string) bool {
	if origin == "*" {
		return true
	}
	if strings.HasPrefix(origin, "*.") {
		return len(origin) > 2 && !strings.ContainsAny(origin[2:], "/*")
	}
	return validHTTPURL(origin)
}

func validHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validKind(name string) bool {
	for _, k := range storage.Kinds() {
		if string(k) == name {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - APEX_GEMINI_API_KEY (fallback GEMINI_API_KEY): gemini.api_key
//   - APEX_GEMINI_MODEL: gemini.model
//   - APEX_MAPS_API_KEY: maps.api_key
//   - APEX_ADDR: server.addr
//   - APEX_LANGUAGE: widget.language
//   - APEX_PROXY_URL: widget.proxy_url
//   - APEX_HISTORY_BACKEND: widget.history_backend
//   - APEX_LOG_LEVEL: logging.level
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("APEX_GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" && c.Gemini.APIKey == "" {
		c.Gemini.APIKey = key
	}

	overrides := []struct {
		env    string
		target *string
	}{
		{"APEX_GEMINI_MODEL", &c.Gemini.Model},
		{"APEX_MAPS_API_KEY", &c.Maps.APIKey},
		{"APEX_ADDR", &c.Server.Addr},
		{"APEX_LANGUAGE", &c.Widget.Language},
		{"APEX_PROXY_URL", &c.Widget.ProxyURL},
		{"APEX_HISTORY_BACKEND", &c.Widget.HistoryBackend},
		{"APEX_LOG_LEVEL", &c.Logging.Level},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "server.addr").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "widget.language").
// String values are converted to the field type; lists are comma separated.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(part[:1]))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, item := range strings.Split(strVal, ",") {
					if item = strings.TrimSpace(item); item != "" {
						items = append(items, item)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && field.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"server.addr",
		"server.allowed_origins",
		"server.rate_limit_per_minute",
		"server.rate_burst",
		"server.max_body_bytes",
		"gemini.api_key",
		"gemini.model",
		"gemini.base_url",
		"maps.api_key",
		"maps.office_address",
		"widget.language",
		"widget.history_backend",
		"widget.history_path",
		"widget.proxy_url",
		"widget.voice_command",
		"logging.level",
		"logging.development",
		"logging.file",
	}
}

// Language returns the configured widget language.
func (c *Config) Language() model.Language {
	lang, err := model.ParseLanguage(c.Widget.Language)
	if err != nil {
		return model.DefaultLanguage
	}
	return lang
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Server.AllowedOrigins != nil {
		clone.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	}
	return &clone
}

// String returns a JSON rendering with API keys redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Gemini.APIKey != "" {
		safe.Gemini.APIKey = "[REDACTED]"
	}
	if safe.Maps.APIKey != "" {
		safe.Maps.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
