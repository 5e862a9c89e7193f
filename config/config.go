package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/lixenwraith/focusflow/analyzer"
	"github.com/lixenwraith/focusflow/kv"
)

// Prefix is prepended to every variable, e.g. FOCUSFLOW_LOG_LEVEL
const Prefix = "FOCUSFLOW"

// Gaze source names
const (
	GazePointer   = "pointer"
	GazeReplay    = "replay"
	GazeSynthetic = "synthetic"
)

// Config holds trainer client settings
type Config struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	LogFile     string `envconfig:"LOG_FILE" default:"logs/focusflow.log"`

	// Backend
	APIURL     string        `envconfig:"API_URL" default:"http://localhost:8080/api"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	Offline    bool          `envconfig:"OFFLINE" default:"false"`

	// Local storage
	KVBackend     string `envconfig:"KV_BACKEND" default:"file"`
	KVPath        string `envconfig:"KV_PATH" default:".focusflow/kv"`
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"focusflow:"`
	Timezone      string `envconfig:"TIMEZONE" default:"Local"`

	// Session
	CanvasWidth     float64       `envconfig:"CANVAS_WIDTH" default:"1280"`
	CanvasHeight    float64       `envconfig:"CANVAS_HEIGHT" default:"720"`
	SessionDuration time.Duration `envconfig:"SESSION_DURATION" default:"5m"`
	GetReady        time.Duration `envconfig:"GET_READY" default:"3s"`
	InitTimeout     time.Duration `envconfig:"INIT_TIMEOUT" default:"10s"`
	SubmitTimeout   time.Duration `envconfig:"SUBMIT_TIMEOUT" default:"15s"`
	GazeSource      string        `envconfig:"GAZE_SOURCE" default:"pointer"`
	ReplayPath      string        `envconfig:"REPLAY_PATH"`
	ReplayLoop      bool          `envconfig:"REPLAY_LOOP" default:"true"`
	SyntheticJitter float64       `envconfig:"SYNTHETIC_JITTER" default:"25"`
	SyntheticLapse  float64       `envconfig:"SYNTHETIC_LAPSE" default:"0.15"`
	Metrics         string        `envconfig:"METRICS" default:"recorded"`
	Mute            bool          `envconfig:"MUTE" default:"false"`
}

// Load reads optional .env files, then the environment, then validates
// Missing .env files are ignored
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and cross-field requirements
func (c *Config) Validate() error {
	var errs []error
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		errs = append(errs, fmt.Errorf("canvas must be positive, got %.0fx%.0f", c.CanvasWidth, c.CanvasHeight))
	}
	if c.SessionDuration < time.Second {
		errs = append(errs, fmt.Errorf("session duration %s below 1s", c.SessionDuration))
	}
	if c.GetReady < 0 || c.InitTimeout <= 0 || c.SubmitTimeout <= 0 || c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	switch c.GazeSource {
	case GazePointer, GazeSynthetic:
	case GazeReplay:
		if c.ReplayPath == "" {
			errs = append(errs, errors.New("replay gaze source needs REPLAY_PATH"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown gaze source %q", c.GazeSource))
	}
	if c.SyntheticLapse < 0 || c.SyntheticLapse > 1 {
		errs = append(errs, fmt.Errorf("synthetic lapse %.2f outside [0,1]", c.SyntheticLapse))
	}
	if _, ok := analyzer.ParseMetricsMode(c.Metrics); !ok {
		errs = append(errs, fmt.Errorf("unknown metrics mode %q", c.Metrics))
	}
	switch strings.ToLower(c.KVBackend) {
	case kv.BackendMemory, kv.BackendFile, kv.BackendSQLite:
		if c.KVPath == "" && !strings.EqualFold(c.KVBackend, kv.BackendMemory) {
			errs = append(errs, errors.New("kv path required"))
		}
	case kv.BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis kv backend needs REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown kv backend %q", c.KVBackend))
	}
	if !c.Offline {
		if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid api url %q", c.APIURL))
		}
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// KV returns the store configuration
func (c *Config) KV() kv.Config {
	path := c.KVPath
	if strings.EqualFold(c.KVBackend, kv.BackendSQLite) && !strings.HasSuffix(path, ".db") {
		path = strings.TrimRight(path, "/") + "/focusflow.db"
	}
	return kv.Config{
		Backend:       c.KVBackend,
		Path:          path,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisPrefix:   c.RedisPrefix,
	}
}

// Location resolves Timezone, used for streak calendar days
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// MetricsMode returns the parsed level metrics mode
func (c *Config) MetricsMode() analyzer.MetricsMode {
	m, _ := analyzer.ParseMetricsMode(c.Metrics)
	return m
}

// SessionSeconds returns the countdown length in whole seconds
func (c *Config) SessionSeconds() int {
	return int(c.SessionDuration / time.Second)
}
