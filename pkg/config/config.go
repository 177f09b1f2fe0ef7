package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Token storage backends.
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type ServerConfig struct {
	Port               int           `yaml:"port" validate:"gt=0,lte=65535"`
	AllowedOrigins     []string      `yaml:"allowed_origins"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" validate:"gte=0"`
	RateLimitBurst     int           `yaml:"rate_limit_burst" validate:"gte=0"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

type CacheConfig struct {
	ListTTL       time.Duration `yaml:"list_ttl" validate:"gt=0"`
	HouseTTL      time.Duration `yaml:"house_ttl" validate:"gt=0"`
	SweepInterval time.Duration `yaml:"sweep_interval" validate:"gt=0"`
}

type AuthConfig struct {
	TokenTTL  time.Duration `yaml:"token_ttl" validate:"gt=0"`
	Storage   string        `yaml:"storage" validate:"oneof=file redis memory"`
	TokenFile string        `yaml:"token_file" validate:"required_if=Storage file"`
	KeyPrefix string        `yaml:"key_prefix"`
}

type RedisConfig struct {
	Host        string `yaml:"host" validate:"required,hostname|ip"`
	Port        int    `yaml:"port" validate:"required,gt=0,lte=65535"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db" validate:"gte=0"`
	TLSEnabled  bool   `yaml:"tls_enabled"`
	TLSCertFile string `yaml:"tls_cert_file"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	API    APIConfig    `yaml:"api"`
	Cache  CacheConfig  `yaml:"cache"`
	Auth   AuthConfig   `yaml:"auth"`
	Redis  RedisConfig  `yaml:"redis"`
	Log    LogConfig    `yaml:"log"`
}

// Default returns the configuration used when neither the file nor the
// environment set a value.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:               8080,
			AllowedOrigins:     []string{"http://localhost:4200"},
			RateLimitPerMinute: 100,
			RateLimitBurst:     20,
			ShutdownTimeout:    10 * time.Second,
		},
		API: APIConfig{
			BaseURL: "http://localhost:3000",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			ListTTL:       5 * time.Minute,
			HouseTTL:      10 * time.Minute,
			SweepInterval: time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL:  20 * time.Minute,
			Storage:   StorageFile,
			TokenFile: ".house-inventory/tokens.json",
			KeyPrefix: "house-inventory:auth:",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads the YAML file at path on top of the defaults, applies
// environment overrides and validates the result. A missing file is not an
// error: defaults plus environment are enough to run.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %v", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct constraints and cross-field rules.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %v", err)
	}
	if cfg.Redis.TLSEnabled && cfg.Redis.TLSCertFile != "" {
		if _, err := os.Stat(cfg.Redis.TLSCertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file does not exist: %s", cfg.Redis.TLSCertFile)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT value: %v", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HOUSES_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HOUSES_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid HOUSES_API_TIMEOUT value: %v", err)
		}
		cfg.API.Timeout = d
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL value: %v", err)
		}
		cfg.Auth.TokenTTL = d
	}
	if v := os.Getenv("TOKEN_STORAGE"); v != "" {
		cfg.Auth.Storage = strings.ToLower(v)
	}
	if v := os.Getenv("TOKEN_FILE"); v != "" {
		cfg.Auth.TokenFile = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_PORT value: %v", err)
		}
		cfg.Redis.Port = port
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %v", err)
		}
		cfg.Redis.DB = db
	}
	if v := os.Getenv("REDIS_TLS_ENABLED"); v != "" {
		cfg.Redis.TLSEnabled = v == "true"
	}
	if v := os.Getenv("REDIS_TLS_CERT_FILE"); v != "" {
		cfg.Redis.TLSCertFile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// applyDefaults fills zero values an explicit YAML file may have left behind.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = def.API.Timeout
	}
	if cfg.Cache.ListTTL <= 0 {
		cfg.Cache.ListTTL = def.Cache.ListTTL
	}
	if cfg.Cache.HouseTTL <= 0 {
		cfg.Cache.HouseTTL = def.Cache.HouseTTL
	}
	if cfg.Cache.SweepInterval <= 0 {
		cfg.Cache.SweepInterval = def.Cache.SweepInterval
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = def.Auth.TokenTTL
	}
	if cfg.Auth.Storage == "" {
		cfg.Auth.Storage = def.Auth.Storage
	}
	if cfg.Auth.KeyPrefix == "" {
		cfg.Auth.KeyPrefix = def.Auth.KeyPrefix
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = def.Redis.Host
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = def.Redis.Port
	}
	if cfg.Redis.DB < 0 {
		cfg.Redis.DB = 0
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
