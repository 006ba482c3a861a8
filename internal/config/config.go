package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Assets     AssetsConfig     `koanf:"assets"`
	LLM        LLMConfig        `koanf:"llm"`
	Redis      RedisConfig      `koanf:"redis"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	Assessment AssessmentConfig `koanf:"assessment"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Debug        bool          `koanf:"debug"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// Addr is the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver     string `koanf:"driver"`
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	User       string `koanf:"user"`
	Password   string `koanf:"password"`
	Name       string `koanf:"name"`
	SQLitePath string `koanf:"sqlite_path"`
}

type AssetsConfig struct {
	PatentsPath         string `koanf:"patents_path"`
	CompanyProductsPath string `koanf:"company_products_path"`
}

type LLMConfig struct {
	Provider       string        `koanf:"provider"`
	APIKey         string        `koanf:"api_key"`
	BaseURL        string        `koanf:"base_url"`
	Model          string        `koanf:"model"`
	Timeout        time.Duration `koanf:"timeout"`
	MaxConcurrency int           `koanf:"max_concurrency"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `koanf:"requests_per_minute"`
	Burst             int `koanf:"burst"`
}

type AssessmentConfig struct {
	AutoSave bool `koanf:"auto_save"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         3000,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:     "postgres",
			Host:       "localhost",
			Port:       5432,
			User:       "postgres",
			Password:   "postgres",
			Name:       "patents",
			SQLitePath: "patents.db",
		},
		LLM: LLMConfig{
			Provider:       "openai",
			BaseURL:        "https://api.groq.com/openai/v1",
			Model:          "llama3-8b-8192",
			Timeout:        30 * time.Second,
			MaxConcurrency: 1,
			CacheTTL:       24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			Burst:             10,
		},
	}
}

// Validate checks settings every command needs
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT %d out of range", c.Server.Port))
	}
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("DB_DRIVER %q must be postgres or sqlite", c.Database.Driver))
	}
	if c.LLM.MaxConcurrency < 1 {
		problems = append(problems, "LLM_MAX_CONCURRENCY must be at least 1")
	}
	if c.LLM.Timeout <= 0 {
		problems = append(problems, "LLM_TIMEOUT must be positive")
	}
	if c.LLM.CacheTTL < 0 {
		problems = append(problems, "LLM_CACHE_TTL must not be negative")
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		problems = append(problems, "RATE_LIMIT_RPM and RATE_LIMIT_BURST must not be negative")
	}

	return joinProblems(problems)
}

// ValidateAssessment checks the settings needed to run assessments
func (c *Config) ValidateAssessment() error {
	var problems []string

	if c.Assets.PatentsPath == "" {
		problems = append(problems, "ASSET_HELPER_PATENTS_PATH is required")
	}
	if c.Assets.CompanyProductsPath == "" {
		problems = append(problems, "ASSET_HELPER_COMPANY_PRODUCTS_PATH is required")
	}
	if c.LLM.APIKey == "" {
		problems = append(problems, "GPT_GROQ_API_KEY is required")
	}

	return joinProblems(problems)
}

func joinProblems(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}
