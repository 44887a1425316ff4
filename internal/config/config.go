package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"

	"github.com/alumnet/alumnet-backend/pkg/logger"
)

// Config application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Storage   StorageConfig   `yaml:"storage"`
	Env       string          `yaml:"env"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port            int `yaml:"port"`
	ReadTimeout     int `yaml:"read_timeout"`     // seconds
	WriteTimeout    int `yaml:"write_timeout"`    // seconds
	ShutdownTimeout int `yaml:"shutdown_timeout"` // seconds
}

// DatabaseConfig database settings. Driver is "mysql" or "sqlite".
type DatabaseConfig struct {
	Driver          string `yaml:"driver"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	Path            string `yaml:"path"` // sqlite file
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Enabled  bool   `yaml:"enabled"`
}

// JWTConfig token settings, lifetimes in seconds
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"`
	RefreshIn int    `yaml:"refresh_in"`
}

// CORSConfig comma-separated list of origins
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// RateLimitConfig requests per minute per client
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

// StorageConfig S3-compatible object storage for profile photos
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	PublicURL       string `yaml:"public_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
	Enabled         bool   `yaml:"enabled"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Env: "local",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Path:            "alumnet.db",
			Host:            "localhost",
			Port:            3306,
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			PoolSize: 10,
		},
		JWT: JWTConfig{
			ExpiresIn: 900,
			RefreshIn: 7 * 24 * 3600,
		},
		CORS: CORSConfig{
			AllowOrigins: "http://localhost:5173",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
			Burst:             20,
		},
		Storage: StorageConfig{
			Region: "us-east-1",
		},
	}
}

// Load reads a YAML config file on top of the defaults.
// ${VAR} references are expanded from the environment; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logger.Warn("config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if cfg.JWT.Secret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("jwt.secret is required outside development")
		}
		cfg.JWT.Secret = "dev-only-insecure-secret"
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY_ID"); v != "" {
		cfg.Storage.AccessKeyID = v
	}
	if v := os.Getenv("STORAGE_SECRET_ACCESS_KEY"); v != "" {
		cfg.Storage.SecretAccessKey = v
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.CORS.AllowOrigins = v
	}
}

// IsDevelopment reports whether the service runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "local" || c.Env == "dev" || c.Env == "development"
}

// GetDSN builds the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	cfg := mysqldriver.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
	cfg.DBName = d.DBName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// LogResolved logs the effective configuration without secrets
func LogResolved(cfg *Config) {
	logger.GetLogger().Info().
		Str("env", cfg.Env).
		Int("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.DBName).
		Bool("redis_enabled", cfg.Redis.Enabled).
		Str("redis_addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)).
		Int("jwt_expires_in", cfg.JWT.ExpiresIn).
		Int("jwt_refresh_in", cfg.JWT.RefreshIn).
		Bool("jwt_secret_set", cfg.JWT.Secret != "").
		Str("cors_allow_origins", cfg.CORS.AllowOrigins).
		Bool("storage_enabled", cfg.Storage.Enabled).
		Str("storage_bucket", cfg.Storage.Bucket).
		Msg("config resolved")
}
