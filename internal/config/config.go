// Package config loads ticketchat settings from defaults, a YAML file, a .env file and the environment,
// in increasing order of precedence.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile    = "ticketchat.yaml"
	DefaultEnvFile = ".env"
)

// Config is the full application configuration.
type Config struct {
	Log      LogConfig     `mapstructure:"log"`
	Model    ModelConfig   `mapstructure:"model"`
	Jira     JiraConfig    `mapstructure:"jira"`
	Redis    RedisConfig   `mapstructure:"redis"`
	Server   ServerConfig  `mapstructure:"server"`
	Sessions SessionConfig `mapstructure:"sessions"`
	Fixtures string        `mapstructure:"fixtures"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ModelConfig configures the Gemini client. An empty APIKey disables it.
type ModelConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Name        string        `mapstructure:"name"`
	BaseURL     string        `mapstructure:"base_url"`
	Temperature float64       `mapstructure:"temperature"`
	TopP        float64       `mapstructure:"top_p"`
	TopK        int           `mapstructure:"top_k"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type JiraConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Username   string        `mapstructure:"username"`
	Token      string        `mapstructure:"token"`
	PageSize   int           `mapstructure:"page_size"`
	MaxTickets int           `mapstructure:"max_tickets"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// RedisConfig configures the status cache. An empty URL disables it.
type RedisConfig struct {
	URL    string        `mapstructure:"url"`
	TTL    time.Duration `mapstructure:"ttl"`
	Prefix string        `mapstructure:"prefix"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Session backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// SessionConfig configures where named conversations are kept.
// EncryptionKey is a base64 encoded 32 byte key; when set, saved histories are sealed with it.
type SessionConfig struct {
	Backend       string        `mapstructure:"backend"`
	Dir           string        `mapstructure:"dir"`
	TTL           time.Duration `mapstructure:"ttl"`
	EncryptionKey string        `mapstructure:"encryption_key"`
	Redact        bool          `mapstructure:"redact"`
}

// Key decodes EncryptionKey. It returns nil when no key is configured.
func (s SessionConfig) Key() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("sessions.encryption_key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("sessions.encryption_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Model: ModelConfig{
			Name:        "models/gemini-2.0-flash",
			Temperature: 0.7,
			TopP:        0.95,
			TopK:        40,
			Timeout:     60 * time.Second,
		},
		Jira: JiraConfig{
			PageSize: 50,
			Timeout:  30 * time.Second,
		},
		Redis: RedisConfig{
			TTL:    10 * time.Minute,
			Prefix: "ticketchat:",
		},
		Server: ServerConfig{Addr: ":8080"},
		Sessions: SessionConfig{
			Backend: BackendFile,
			Dir:     ".ticketchat/sessions",
			TTL:     7 * 24 * time.Hour,
		},
	}
}

// envKeys maps environment variables to their dotted config keys.
var envKeys = map[string]string{
	"GOOGLE_API_KEY":        "model.api_key",
	"MODEL_NAME":            "model.name",
	"JIRA_BASE_URL":         "jira.base_url",
	"JIRA_USERNAME":         "jira.username",
	"JIRA_PAT":              "jira.token",
	"TICKETCHAT_REDIS_URL":  "redis.url",
	"TICKETCHAT_ADDR":       "server.addr",
	"TICKETCHAT_LOG_LEVEL":  "log.level",
	"TICKETCHAT_LOG_FORMAT": "log.format",
	"TICKETCHAT_FIXTURES":   "fixtures",

	"TICKETCHAT_SESSION_BACKEND": "sessions.backend",
	"TICKETCHAT_SESSION_DIR":     "sessions.dir",
	"TICKETCHAT_SESSION_KEY":     "sessions.encryption_key",
	"TICKETCHAT_SESSION_REDACT":  "sessions.redact",
}

type loadOptions struct {
	file         string
	fileRequired bool
	envFile      string
	lookup       func(string) (string, bool)
}

// Option configures Load.
type Option func(*loadOptions)

// WithFile reads path instead of DefaultFile. The file must exist.
func WithFile(path string) Option {
	return func(o *loadOptions) {
		if path != "" {
			o.file = path
			o.fileRequired = true
		}
	}
}

// WithEnvFile reads path instead of DefaultEnvFile. A missing file is ignored.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) {
		o.envFile = path
	}
}

// WithLookup replaces os.LookupEnv.
func WithLookup(fn func(string) (string, bool)) Option {
	return func(o *loadOptions) {
		o.lookup = fn
	}
}

// Load builds the configuration. It does not validate it.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{file: DefaultFile, envFile: DefaultEnvFile, lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()

	// 1. YAML file
	if raw, err := readYAML(o.file, o.fileRequired); err != nil {
		return nil, err
	} else if raw != nil {
		if err := decode(raw, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", o.file, err)
		}
	}

	// 2. .env file, then the process environment on top
	dotenv := map[string]string{}
	if o.envFile != "" {
		vals, err := godotenv.Read(o.envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", o.envFile, err)
		}
		if vals != nil {
			dotenv = vals
		}
	}

	overrides := map[string]any{}
	for env, key := range envKeys {
		val, ok := o.lookup(env)
		if !ok {
			val, ok = dotenv[env]
		}
		if ok && val != "" {
			setPath(overrides, key, val)
		}
	}
	if err := decode(overrides, cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	return cfg, nil
}

func readYAML(path string, required bool) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return raw, nil
}

func decode(input map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func setPath(m map[string]any, dotted, val string) {
	parts := strings.Split(dotted, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = val
}

// Offline reports whether tickets come from a fixtures file instead of Jira.
func (c *Config) Offline() bool {
	return c.Fixtures != ""
}

// Validate reports every missing or out-of-range setting.
// Jira credentials are only required when not running from fixtures.
func (c *Config) Validate() error {
	var errs []error
	if !c.Offline() {
		if c.Jira.BaseURL == "" {
			errs = append(errs, errors.New("jira.base_url (JIRA_BASE_URL) is required"))
		}
		if c.Jira.Token == "" {
			errs = append(errs, errors.New("jira.token (JIRA_PAT) is required"))
		}
		if c.Model.APIKey == "" {
			errs = append(errs, errors.New("model.api_key (GOOGLE_API_KEY) is required"))
		}
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		errs = append(errs, fmt.Errorf("model.temperature must be within [0, 2], got %v", c.Model.Temperature))
	}
	if c.Model.TopP < 0 || c.Model.TopP > 1 {
		errs = append(errs, fmt.Errorf("model.top_p must be within [0, 1], got %v", c.Model.TopP))
	}
	if c.Model.TopK < 0 {
		errs = append(errs, fmt.Errorf("model.top_k must not be negative, got %d", c.Model.TopK))
	}
	if c.Jira.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("jira.page_size must be positive, got %d", c.Jira.PageSize))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if err := c.ValidateSessions(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateSessions checks only the settings needed to open the session store.
func (c *Config) ValidateSessions() error {
	var errs []error
	switch c.Sessions.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Sessions.Dir == "" {
			errs = append(errs, errors.New("sessions.dir is required for the file backend"))
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url (TICKETCHAT_REDIS_URL) is required for the redis session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("sessions.backend must be memory, file or redis, got %q", c.Sessions.Backend))
	}
	if c.Sessions.TTL < 0 {
		errs = append(errs, fmt.Errorf("sessions.ttl must not be negative, got %v", c.Sessions.TTL))
	}
	if _, err := c.Sessions.Key(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
