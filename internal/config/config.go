package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env     string `yaml:"env"`
	Storage string `yaml:"storage"`
	Fixture string `yaml:"fixture"`
	Server  struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`
	Upstream struct {
		// BaseURL of the lookup API used by the page route. Empty means this
		// process on the loopback interface.
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"upstream"`
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

func Default() *Config {
	cfg := &Config{
		Env:     "development",
		Storage: StorageMemory,
		Fixture: "data/questions.json",
	}
	cfg.Server.Port = "8080"
	cfg.CORS.Origins = []string{"*"}
	cfg.Upstream.Timeout = 5 * time.Second
	return cfg
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides, including those from a .env file. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("APP_ENV"); ok {
		cfg.Env = v
	}
	if v, ok := os.LookupEnv("PORT"); ok {
		cfg.Server.Port = v
	}
	if v, ok := os.LookupEnv("STORAGE_TYPE"); ok {
		cfg.Storage = v
	}
	if v, ok := os.LookupEnv("FIXTURE_PATH"); ok {
		cfg.Fixture = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		cfg.Postgres.DSN = v
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		cfg.CORS.Origins = splitList(v)
	}
	if v, ok := os.LookupEnv("UPSTREAM_BASE_URL"); ok {
		cfg.Upstream.BaseURL = v
	}
	if v, ok := os.LookupEnv("UPSTREAM_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Upstream.Timeout = d
		}
	}
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
		if c.Fixture == "" {
			return errors.New("fixture path is required for memory storage")
		}
	case StoragePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("DATABASE_URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage)
	}
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
