// Package config loads service configuration from the environment.
//
// In development a .env file in the working directory is loaded first so
// that local runs do not need exported variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Server holds the settings every HTTP binary shares.
type Server struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	Addr            string        `env:"ADDR"`
	DiagAddr        string        `env:"DIAG_ADDR"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:8080,http://localhost:5173"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"10485760"`
	OTel            OTel          `envPrefix:"OTEL_"`
}

type OTel struct {
	Endpoint       string `env:"EXPORTER_OTLP_ENDPOINT"`
	Headers        string `env:"EXPORTER_OTLP_HEADERS"`
	ServiceName    string `env:"SERVICE_NAME"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"dev"`
}

func (c Server) IsProduction() bool {
	return c.Env == "production"
}

func (c Server) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTel) Enabled() bool {
	return c.Endpoint != ""
}

// JWT configures token issuing and verification. Secret is shared between
// cms-backend, which issues tokens, and the gateway, which verifies them.
type JWT struct {
	Secret string        `env:"JWT_SECRET"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"blich-studio"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

const devJWTSecret = "dev-only-secret-change-me"

func (j *JWT) resolve(env string) error {
	if j.Secret != "" {
		return nil
	}
	if env == "production" {
		return errors.New("JWT_SECRET is required")
	}
	j.Secret = devJWTSecret
	return nil
}

// CMSAPI configures the article service.
type CMSAPI struct {
	Server
	Store        string        `env:"CMS_STORE" envDefault:"mongo"`
	MongoURL     string        `env:"MONGO_URL" envDefault:"mongodb://localhost:27017"`
	DatabaseName string        `env:"DATABASE_NAME" envDefault:"blichstudio"`
	MaxPoolSize  uint64        `env:"MONGO_MAX_POOL_SIZE" envDefault:"10"`
	MinPoolSize  uint64        `env:"MONGO_MIN_POOL_SIZE" envDefault:"2"`
	PingInterval time.Duration `env:"DB_PING_INTERVAL" envDefault:"5s"`
}

// CMSBackend configures the games/blog/studio service.
type CMSBackend struct {
	Server
	DatabaseURL   string        `env:"DATABASE_URL" envDefault:"file:cms.db"`
	MaxOpenConns  int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns  int           `env:"DB_MAX_IDLE_CONNS" envDefault:"2"`
	PingInterval  time.Duration `env:"DB_PING_INTERVAL" envDefault:"5s"`
	MediaRoot     string        `env:"MEDIA_ROOT" envDefault:"./media"`
	MediaBaseURL  string        `env:"MEDIA_BASE_URL" envDefault:"/media"`
	MediaMaxBytes int64         `env:"MEDIA_MAX_BYTES" envDefault:"10485760"`
	NodeID        int64         `env:"NODE_ID" envDefault:"1"`
	JWT           JWT
}

// Gateway configures the public API gateway.
type Gateway struct {
	Server
	CMSAPIURL       string        `env:"CMS_API_URL" envDefault:"http://localhost:3001/api/v1/cms"`
	CMSBackendURL   string        `env:"CMS_BACKEND_URL" envDefault:"http://localhost:3333/api/cms"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	RedisURL        string        `env:"REDIS_URL"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"30s"`
	JWT             JWT
}

func (g Gateway) CacheEnabled() bool {
	return g.RedisURL != "" && g.CacheTTL > 0
}

// Load parses the environment into target. Fields that already hold a value
// and have no envDefault keep it when the variable is unset.
func Load(target any) error {
	if getEnv("APP_ENV", "development") == "development" {
		_ = godotenv.Load()
	}

	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

func LoadCMSAPI() (CMSAPI, error) {
	cfg := CMSAPI{Server: Server{Addr: ":3001", DiagAddr: ":9991"}}
	if err := Load(&cfg); err != nil {
		return CMSAPI{}, err
	}
	if cfg.OTel.ServiceName == "" {
		cfg.OTel.ServiceName = "cms-api"
	}
	if cfg.Store != "mongo" && cfg.Store != "memory" {
		return CMSAPI{}, fmt.Errorf("CMS_STORE must be mongo or memory, got %q", cfg.Store)
	}

	return cfg, nil
}

func LoadCMSBackend() (CMSBackend, error) {
	cfg := CMSBackend{Server: Server{Addr: ":3333", DiagAddr: ":9992"}}
	if err := Load(&cfg); err != nil {
		return CMSBackend{}, err
	}
	if cfg.OTel.ServiceName == "" {
		cfg.OTel.ServiceName = "cms-backend"
	}
	if err := cfg.JWT.resolve(cfg.Env); err != nil {
		return CMSBackend{}, err
	}
	if cfg.MediaMaxBytes <= 0 {
		return CMSBackend{}, errors.New("MEDIA_MAX_BYTES must be positive")
	}
	// Multipart framing needs room on top of the file itself.
	if limit := cfg.MediaMaxBytes + 1<<20; cfg.MaxBodyBytes < limit {
		cfg.MaxBodyBytes = limit
	}

	return cfg, nil
}

func LoadGateway() (Gateway, error) {
	cfg := Gateway{Server: Server{Addr: ":3000", DiagAddr: ":9990"}}
	if err := Load(&cfg); err != nil {
		return Gateway{}, err
	}
	if cfg.OTel.ServiceName == "" {
		cfg.OTel.ServiceName = "gateway"
	}
	if err := cfg.JWT.resolve(cfg.Env); err != nil {
		return Gateway{}, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
