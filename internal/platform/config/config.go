// Package config loads service configuration from an optional YAML file,
// an optional .env file and environment variables (highest priority).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the portfolio tracker.
type Config struct {
	Server       Server       `yaml:"server"`
	AlphaVantage AlphaVantage `yaml:"alpha_vantage"`
	Cache        Cache        `yaml:"cache"`
	Redis        Redis        `yaml:"redis"`
	Holdings     Holdings     `yaml:"holdings"`
	Database     Database     `yaml:"database"`
	Session      Session      `yaml:"session"`
	Display      Display      `yaml:"display"`
	Gemini       Gemini       `yaml:"gemini"`
	Logging      Logging      `yaml:"logging"`
}

// Server holds the HTTP listener configuration.
type Server struct {
	Port int `yaml:"port"`
}

// AlphaVantage holds credentials and limits for the market data API.
type AlphaVantage struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	CallsPerMinute int           `yaml:"calls_per_minute"`
}

// Cache configures the market data cache.
type Cache struct {
	TTL  time.Duration `yaml:"ttl"`
	Size int           `yaml:"size"`
}

// Redis holds the optional Redis connection. An empty Host disables Redis.
type Redis struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
}

// Addr returns host:port.
func (r Redis) Addr() string {
	return r.Host + ":" + r.Port
}

// Holdings selects the portfolio repository.
type Holdings struct {
	Store string `yaml:"store"`
}

// Database configures the gorm connection used by the sql holdings store.
type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Session configures session tokens.
type Session struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TTL       time.Duration `yaml:"ttl"`
}

// Display configures presentation details.
type Display struct {
	Currency string `yaml:"currency"`
}

// Gemini toggles the AI company summary.
type Gemini struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Holdings store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQL    = "sql"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: Server{Port: 8080},
		AlphaVantage: AlphaVantage{
			BaseURL:        "https://www.alphavantage.co/query",
			Timeout:        10 * time.Second,
			CallsPerMinute: 5,
		},
		Cache:    Cache{TTL: 5 * time.Minute, Size: 1024},
		Redis:    Redis{Port: "6379"},
		Holdings: Holdings{Store: StoreMemory},
		Database: Database{Driver: DriverSQLite, DSN: "file::memory:?cache=shared"},
		Session:  Session{TTL: 24 * time.Hour},
		Display:  Display{Currency: "USD"},
		Logging:  Logging{Level: "info", Format: "json"},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// LoadFromEnv preloads .env when present, then loads the YAML file named by
// CONFIG_FILE (if any) and applies environment overrides.
func LoadFromEnv() (*Config, error) {
	// .env is optional; real environment variables are never overwritten
	_ = godotenv.Load()
	return Load(os.Getenv("CONFIG_FILE"))
}

// Load reads the YAML configuration file at path over the defaults, then
// applies environment variable overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) error {
	var errs []error

	setString("ALPHA_VANTAGE_API_KEY", &cfg.AlphaVantage.APIKey)
	setString("ALPHA_VANTAGE_BASE_URL", &cfg.AlphaVantage.BaseURL)
	setString("REDIS_HOST", &cfg.Redis.Host)
	setString("REDIS_PORT", &cfg.Redis.Port)
	setString("REDIS_PASSWORD", &cfg.Redis.Password)
	setString("HOLDINGS_STORE", &cfg.Holdings.Store)
	setString("DB_DRIVER", &cfg.Database.Driver)
	setString("DB_DSN", &cfg.Database.DSN)
	setString("JWT_SECRET", &cfg.Session.JWTSecret)
	setString("DISPLAY_CURRENCY", &cfg.Display.Currency)
	setString("GEMINI_MODEL", &cfg.Gemini.Model)
	setString("LOG_LEVEL", &cfg.Logging.Level)
	setString("LOG_FORMAT", &cfg.Logging.Format)

	errs = append(errs,
		setInt("PORT", &cfg.Server.Port),
		setInt("ALPHA_VANTAGE_CALLS_PER_MINUTE", &cfg.AlphaVantage.CallsPerMinute),
		setInt("MARKET_CACHE_SIZE", &cfg.Cache.Size),
		setDuration("ALPHA_VANTAGE_TIMEOUT", &cfg.AlphaVantage.Timeout),
		setDuration("MARKET_CACHE_TTL", &cfg.Cache.TTL),
		setDuration("SESSION_TTL", &cfg.Session.TTL),
		setBool("GEMINI_ENABLED", &cfg.Gemini.Enabled),
	)
	return errors.Join(errs...)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, v)
	}
	*dst = n
	return nil
}

func setDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a duration", ErrInvalid, key, v)
	}
	*dst = d
	return nil
}

func setBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, key, v)
	}
	*dst = b
	return nil
}

// Validate normalizes enum-like fields and rejects unknown values.
func (c *Config) Validate() error {
	c.Holdings.Store = strings.ToLower(strings.TrimSpace(c.Holdings.Store))
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Display.Currency = strings.ToUpper(strings.TrimSpace(c.Display.Currency))

	switch c.Holdings.Store {
	case StoreMemory, StoreRedis, StoreSQL:
	default:
		return fmt.Errorf("%w: HOLDINGS_STORE must be memory, redis or sql, got %q", ErrInvalid, c.Holdings.Store)
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: DB_DRIVER must be sqlite or postgres, got %q", ErrInvalid, c.Database.Driver)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be json or text, got %q", ErrInvalid, c.Logging.Format)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: PORT out of range: %d", ErrInvalid, c.Server.Port)
	}
	if c.Holdings.Store == StoreRedis && c.Redis.Host == "" {
		return fmt.Errorf("%w: HOLDINGS_STORE=redis requires REDIS_HOST", ErrInvalid)
	}
	if c.AlphaVantage.Timeout <= 0 {
		return fmt.Errorf("%w: ALPHA_VANTAGE_TIMEOUT must be positive", ErrInvalid)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL must be positive", ErrInvalid)
	}
	return nil
}
