package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ServerConfig holds reference backend settings
type ServerConfig struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	LogFile     string `envconfig:"API_LOG_FILE"` // empty logs to stdout

	Addr            string        `envconfig:"API_ADDR" default:":8080"`
	DBPath          string        `envconfig:"API_DB_PATH" default:"data/focusflow-api.db"`
	CORSOrigins     []string      `envconfig:"API_CORS_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`

	ReportWorkers int    `envconfig:"REPORT_WORKERS" default:"2"`
	ReportQueue   int    `envconfig:"REPORT_QUEUE" default:"64"`
	OpenAIKey     string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
}

// LoadServer reads optional .env files and the environment
func LoadServer(envFiles ...string) (*ServerConfig, error) {
	_ = godotenv.Load(envFiles...)

	var cfg ServerConfig
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ServerConfig) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address required"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("database path required"))
	}
	if c.ReportWorkers < 1 {
		errs = append(errs, fmt.Errorf("report workers %d below 1", c.ReportWorkers))
	}
	if c.ReportQueue < 1 {
		errs = append(errs, fmt.Errorf("report queue %d below 1", c.ReportQueue))
	}
	return errors.Join(errs...)
}

// ReportModel names the generator reports will be attributed to
func (c *ServerConfig) ReportModel() string {
	if c.OpenAIKey == "" {
		return "rule-based"
	}
	return c.OpenAIModel
}
