package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"-"`
	JWTSecret     string        `yaml:"-"`
	APITimeout    time.Duration `yaml:"-"`
	DatabasePath  string        `yaml:"-"`
	TokenDuration time.Duration `yaml:"-"`
	SessionTTL    time.Duration `yaml:"-"`
	Oracle        OracleConfig  `yaml:"-"`
}

// OracleConfig holds settings for the text-generation oracle client.
type OracleConfig struct {
	BaseURL                 string        `yaml:"-"`
	Model                   string        `yaml:"-"`
	Timeout                 time.Duration `yaml:"-"`
	CircuitFailureThreshold int           `yaml:"-"`
	CircuitReset            time.Duration `yaml:"-"`
}

// fileConfig mirrors Config with string durations so YAML files can use
// forms like "30s" and "2h".
type fileConfig struct {
	Addr          string           `yaml:"addr"`
	JWTSecret     string           `yaml:"jwt_secret"`
	APITimeout    string           `yaml:"timeout"`
	DatabasePath  string           `yaml:"database_path"`
	TokenDuration string           `yaml:"token_duration"`
	SessionTTL    string           `yaml:"session_ttl"`
	Oracle        fileOracleConfig `yaml:"oracle"`
}

type fileOracleConfig struct {
	BaseURL                 string `yaml:"base_url"`
	Model                   string `yaml:"model"`
	Timeout                 string `yaml:"timeout"`
	CircuitFailureThreshold int    `yaml:"circuit_failure_threshold"`
	CircuitReset            string `yaml:"circuit_reset"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("INTERVIEWER_ADDR", ":8080"),
		JWTSecret:     getEnv("INTERVIEWER_JWT_SECRET", "supersecretkey"),
		// Must stay above the oracle timeout or decision cycles get cut
		// off mid-request.
		APITimeout:    45 * time.Second,
		DatabasePath:  getEnv("INTERVIEWER_DATABASE_PATH", "interviewer.db"),
		TokenDuration: 1 * time.Hour,
		SessionTTL:    24 * time.Hour,
		Oracle: OracleConfig{
			BaseURL:                 getEnv("INTERVIEWER_ORACLE_URL", "http://localhost:11434"),
			Model:                   getEnv("INTERVIEWER_ORACLE_MODEL", "llama3"),
			Timeout:                 30 * time.Second,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		var fc fileConfig
		dec := yaml.NewDecoder(f)
		if err := dec.Decode(&fc); err != nil {
			return nil, err
		}
		if err := cfg.apply(&fc); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) apply(fc *fileConfig) error {
	if fc.Addr != "" {
		c.Addr = fc.Addr
	}
	if fc.JWTSecret != "" {
		c.JWTSecret = fc.JWTSecret
	}
	if fc.DatabasePath != "" {
		c.DatabasePath = fc.DatabasePath
	}
	if err := setDuration(&c.APITimeout, fc.APITimeout, "timeout"); err != nil {
		return err
	}
	if err := setDuration(&c.TokenDuration, fc.TokenDuration, "token_duration"); err != nil {
		return err
	}
	if err := setDuration(&c.SessionTTL, fc.SessionTTL, "session_ttl"); err != nil {
		return err
	}
	if fc.Oracle.BaseURL != "" {
		c.Oracle.BaseURL = fc.Oracle.BaseURL
	}
	if fc.Oracle.Model != "" {
		c.Oracle.Model = fc.Oracle.Model
	}
	if fc.Oracle.CircuitFailureThreshold > 0 {
		c.Oracle.CircuitFailureThreshold = fc.Oracle.CircuitFailureThreshold
	}
	if err := setDuration(&c.Oracle.Timeout, fc.Oracle.Timeout, "oracle.timeout"); err != nil {
		return err
	}
	if err := setDuration(&c.Oracle.CircuitReset, fc.Oracle.CircuitReset, "oracle.circuit_reset"); err != nil {
		return err
	}
	return nil
}

func setDuration(dst *time.Duration, raw, field string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", field, err)
	}
	*dst = d
	return nil
}

// Validate checks the configuration for values that are unsafe to run with
// outside development.
func (c *Config) Validate() error {
	env := os.Getenv("INTERVIEWER_ENV")

	if c.JWTSecret == "" || c.JWTSecret == "supersecretkey" {
		if env != "development" {
			return fmt.Errorf("jwt_secret is insecure; set INTERVIEWER_JWT_SECRET")
		}
	}

	if c.Oracle.Model == "" {
		return fmt.Errorf("oracle.model is required")
	}
	if c.Oracle.BaseURL == "" {
		return fmt.Errorf("oracle.base_url is required")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
