package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string   `env:"PORT,         default=8000"`
	Env        string   `env:"ENV,          default=development"`
	LogLevel   string   `env:"LOG_LEVEL,    default=info"`
	JWTSecret  string   `env:"JWT_SECRET,   required"`
	JWTExpiry  Expiry   `env:"JWT_EXPIRY,   default=7d"`
	CORSOrigin []string `env:"CORS_ORIGINS, default=http://localhost:3000"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Notify NotifyConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=solx"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type NotifyConfig struct {
	Workers    int    `env:"NOTIFY_WORKERS, default=4"`
	AdminEmail string `env:"ADMIN_EMAIL,    default=admin@solx.io"`
}

// SeedConfig is the configuration of cmd/seed. It does not need the
// token secret.
type SeedConfig struct {
	Env        string `env:"ENV,                 default=development"`
	LogLevel   string `env:"LOG_LEVEL,           default=info"`
	BcryptCost int    `env:"BCRYPT_COST,         default=10"`
	Name       string `env:"SEED_ADMIN_NAME,     default=Master Admin"`
	Email      string `env:"SEED_ADMIN_EMAIL,    required"`
	Password   string `env:"SEED_ADMIN_PASSWORD, required"`

	Mongo MongoConfig
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadSeed reads the seed variables.
func LoadSeed(ctx context.Context) (*SeedConfig, error) {
	var cfg SeedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Expiry is a token lifetime. It accepts a plain number of seconds or a
// number followed by one of s, m, h, d or w.
type Expiry time.Duration

func (e Expiry) Duration() time.Duration {
	return time.Duration(e)
}

var expiryUnits = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
	'w': 7 * 24 * time.Hour,
}

// UnmarshalText implements encoding.TextUnmarshaler, which envconfig uses
// for custom types.
func (e *Expiry) UnmarshalText(text []byte) error {
	d, err := ParseExpiry(string(text))
	if err != nil {
		return err
	}
	*e = Expiry(d)
	return nil
}

// ParseExpiry parses values such as "7d", "12h" or "3600".
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty expiry")
	}

	unit := time.Second
	if u, ok := expiryUnits[s[len(s)-1]]; ok {
		unit = u
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid expiry %q", s)
	}
	return time.Duration(n) * unit, nil
}
