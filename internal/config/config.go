package config

import (
	"errors"
	"fmt"
	"os"
	"recordaccess/internal/access"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	DB         DB         `yaml:"db"`
	Cache      Cache      `yaml:"cache"`
	AdminToken string     `yaml:"admin_token" env:"ADMIN_TOKEN" env-required:"true"`
	Access     Access     `yaml:"access"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type DB struct {
	Addr     string `yaml:"addr" env:"DB_ADDR" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DB       string `yaml:"db" env:"DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
}

type Cache struct {
	Addr       string        `yaml:"addr" env:"CACHE_ADDR" env-default:"localhost:6379"`
	Password   string        `yaml:"password" env:"CACHE_PASSWORD"`
	DB         int           `yaml:"db" env:"CACHE_DB" env-default:"0"`
	KeyPrefix  string        `yaml:"key_prefix" env:"CACHE_KEY_PREFIX" env-default:"recordaccess:"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"CACHE_SESSION_TTL" env-default:"24h"`
	RecordsTTL time.Duration `yaml:"records_ttl" env:"CACHE_RECORDS_TTL" env-default:"5m"`
}

// Access tunes the access evaluator. Empty lists fall back to the built-in defaults.
type Access struct {
	EditPermissions        []string            `yaml:"edit_permissions" env:"ACCESS_EDIT_PERMISSIONS" env-separator:","`
	Derivatives            []access.Derivative `yaml:"derivatives"`
	LoginPromptWithoutGain bool                `yaml:"login_prompt_without_gain" env:"ACCESS_LOGIN_PROMPT_WITHOUT_GAIN"`
}

var ErrUnknownPermission = errors.New("unknown permission")

func MustLoad() *Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		panic("CONFIG_PATH is not set")
	}

	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if _, err := cfg.Access.Policy(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (a Access) Policy() (access.Policy, error) {
	policy := access.DefaultPolicy()
	policy.LoginPromptWithoutGain = a.LoginPromptWithoutGain

	if len(a.EditPermissions) > 0 {
		for _, p := range a.EditPermissions {
			if !access.IsKnownPermission(p) {
				return access.Policy{}, fmt.Errorf("access.edit_permissions: %w: %q", ErrUnknownPermission, p)
			}
		}
		policy.EditPermissions = a.EditPermissions
	}

	if len(a.Derivatives) > 0 {
		for _, d := range a.Derivatives {
			if d.MaxSize <= 0 || d.Label == "" {
				return access.Policy{}, fmt.Errorf("access.derivatives: invalid entry %+v", d)
			}
		}
		policy.Derivatives = a.Derivatives
	}

	return policy, nil
}
