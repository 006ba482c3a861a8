package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileEnv names the optional YAML config file
const FileEnv = "PATENT_CHECKER_CONFIG"

// envKeys maps recognised environment variables to config keys
var envKeys = map[string]string{
	"HOST":          "server.host",
	"PORT":          "server.port",
	"DEBUG":         "server.debug",
	"READ_TIMEOUT":  "server.read_timeout",
	"WRITE_TIMEOUT": "server.write_timeout",
	"IDLE_TIMEOUT":  "server.idle_timeout",

	"DB_DRIVER":         "database.driver",
	"DATABASE_HOST":     "database.host",
	"DATABASE_PORT":     "database.port",
	"DATABASE_USER":     "database.user",
	"DATABASE_PASSWORD": "database.password",
	"DATABASE_NAME":     "database.name",
	"SQLITE_PATH":       "database.sqlite_path",

	"ASSET_HELPER_PATENTS_PATH":          "assets.patents_path",
	"ASSET_HELPER_COMPANY_PRODUCTS_PATH": "assets.company_products_path",

	"LLM_PROVIDER":        "llm.provider",
	"GPT_GROQ_API_KEY":    "llm.api_key",
	"LLM_BASE_URL":        "llm.base_url",
	"LLM_MODEL":           "llm.model",
	"LLM_TIMEOUT":         "llm.timeout",
	"LLM_MAX_CONCURRENCY": "llm.max_concurrency",
	"LLM_CACHE_TTL":       "llm.cache_ttl",

	"REDIS_ADDR":     "redis.addr",
	"REDIS_PASSWORD": "redis.password",
	"REDIS_DB":       "redis.db",

	"RATE_LIMIT_RPM":   "rate_limit.requests_per_minute",
	"RATE_LIMIT_BURST": "rate_limit.burst",

	"ASSESSMENT_AUTO_SAVE": "assessment.auto_save",
}

// Load builds a Config by layering defaults, an optional YAML file named by
// PATENT_CHECKER_CONFIG, and environment variables (highest precedence).
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Unknown and empty variables are skipped
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return envKeys[key], value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
