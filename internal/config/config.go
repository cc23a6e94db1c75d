// Package config resolves rcup settings from defaults, an optional YAML file,
// a .env file, the environment and command-line overrides, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/rcup/internal/api"
	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/log"
)

// Token backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Environment variables read by Load.
const (
	EnvAPIURL        = "RCUP_API_URL"
	EnvTokenBackend  = "RCUP_TOKEN_BACKEND"
	EnvTokenDir      = "RCUP_TOKEN_DIR"
	EnvRedisAddr     = "RCUP_REDIS_ADDR"
	EnvRedisPassword = "RCUP_REDIS_PASSWORD"
	EnvRedisDB       = "RCUP_REDIS_DB"
	EnvRedisPrefix   = "RCUP_REDIS_PREFIX"
	EnvHTTPTimeout   = "RCUP_HTTP_TIMEOUT"
	EnvLogLevel      = "RCUP_LOG_LEVEL"
	EnvLogFormat     = "RCUP_LOG_FORMAT"
	EnvOutput        = "RCUP_OUTPUT"
)

// Config is the resolved configuration.
type Config struct {
	APIURL      string        `yaml:"api_url" json:"api_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout" json:"http_timeout"`
	Output      string        `yaml:"output" json:"output"`
	Token       TokenConfig   `yaml:"token" json:"token"`
	Log         LogConfig     `yaml:"log" json:"log"`
}

// TokenConfig selects where the credential is kept.
type TokenConfig struct {
	Backend       string `yaml:"backend" json:"backend"`
	Dir           string `yaml:"dir" json:"dir"`
	RedisAddr     string `yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string `yaml:"redis_password" json:"-"`
	RedisDB       int    `yaml:"redis_db" json:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix" json:"redis_prefix"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:      api.DefaultBaseURL,
		HTTPTimeout: api.DefaultTimeout,
		Output:      OutputText,
		Token: TokenConfig{
			Backend: BackendFile,
			Dir:     DefaultDir(),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultDir returns ~/.rcup, or .rcup when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".rcup"
	}
	return filepath.Join(home, ".rcup")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// Path is an explicit config file. It must exist when set; otherwise
	// DefaultPath is used if present.
	Path string

	// EnvFile is the dotenv file to read. Defaults to ".env"; a missing
	// file is ignored.
	EnvFile string

	// LookupEnv reads the environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Overrides carries command-line flags. Empty fields do not override.
type Overrides struct {
	APIURL    string
	LogLevel  string
	LogFormat string
	Output    string
}

// Load resolves the configuration. Flags are applied separately with Apply.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.mergeFile(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			// no user config
		} else {
			return nil, err
		}
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	dotenv, err := readDotenv(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.mergeEnv(env); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return rerrors.Wrap(rerrors.ErrCodeConfigRead, fmt.Sprintf("failed to read %s", path), err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return rerrors.Wrap(rerrors.ErrCodeConfigRead, fmt.Sprintf("failed to parse %s", path), err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, rerrors.Wrap(rerrors.ErrCodeConfigRead, fmt.Sprintf("failed to read %s", path), err)
	}
	return values, nil
}

func (c *Config) mergeEnv(env func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := env(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvAPIURL, &c.APIURL)
	str(EnvTokenBackend, &c.Token.Backend)
	str(EnvTokenDir, &c.Token.Dir)
	str(EnvRedisAddr, &c.Token.RedisAddr)
	str(EnvRedisPassword, &c.Token.RedisPassword)
	str(EnvRedisPrefix, &c.Token.RedisPrefix)
	str(EnvLogLevel, &c.Log.Level)
	str(EnvLogFormat, &c.Log.Format)
	str(EnvOutput, &c.Output)

	if v, ok := env(EnvHTTPTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return rerrors.NewConfigInvalidError(fmt.Errorf("%s: %w", EnvHTTPTimeout, err))
		}
		c.HTTPTimeout = d
	}
	if v, ok := env(EnvRedisDB); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return rerrors.NewConfigInvalidError(fmt.Errorf("%s: %w", EnvRedisDB, err))
		}
		c.Token.RedisDB = n
	}
	return nil
}

// Apply overlays non-empty overrides.
func (c *Config) Apply(o Overrides) {
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Log.Format = o.LogFormat
	}
	if o.Output != "" {
		c.Output = o.Output
	}
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.APIURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.HTTPTimeout, validation.By(positiveDuration)),
		validation.Field(&c.Output, validation.Required, validation.In(OutputText, OutputJSON, OutputYAML)),
		validation.Field(&c.Token),
		validation.Field(&c.Log),
	)
	if err != nil {
		return rerrors.NewConfigInvalidError(err)
	}
	return nil
}

// Validate checks the token backend settings.
func (t TokenConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Backend, validation.Required, validation.In(BackendFile, BackendRedis, BackendMemory)),
		validation.Field(&t.Dir, requiredFor(t.Backend == BackendFile)...),
		validation.Field(&t.RedisAddr, requiredFor(t.Backend == BackendRedis)...),
		validation.Field(&t.RedisDB, validation.Min(0)),
	)
}

// Validate checks the log settings.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.By(func(v interface{}) error {
			_, err := log.ParseLevel(v.(string))
			return err
		})),
		validation.Field(&l.Format, validation.By(func(v interface{}) error {
			_, err := log.ParseFormat(v.(string))
			return err
		})),
	)
}

func positiveDuration(value interface{}) error {
	if d, _ := value.(time.Duration); d <= 0 {
		return errors.New("must be a positive duration")
	}
	return nil
}

func requiredFor(cond bool) []validation.Rule {
	if cond {
		return []validation.Rule{validation.Required}
	}
	return nil
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http or https URL")
	}
	return nil
}

// LoggerConfig converts the log settings. Call Validate first.
func (c *Config) LoggerConfig() log.Config {
	cfg := log.DefaultConfig()
	if level, err := log.ParseLevel(c.Log.Level); err == nil {
		cfg.Level = level
	}
	if format, err := log.ParseFormat(c.Log.Format); err == nil {
		cfg.Format = format
	}
	return cfg
}
