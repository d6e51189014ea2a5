package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "HARITKART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	Upstream      UpstreamConfig
	Redis         RedisConfig
	Payment       PaymentConfig
	AuthRateLimit AuthRateLimitConfig
	SessionCache  SessionCacheConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HARITKART_APP_ENV" required:"true"`
	Port         string `envconfig:"HARITKART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"HARITKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HARITKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the core marketplace REST API.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"HARITKART_UPSTREAM_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"HARITKART_UPSTREAM_TIMEOUT" default:"15s"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(u.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing upstream base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("upstream base url must be absolute, got %q", u.BaseURL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"HARITKART_REDIS_URL"`
	Address      string        `envconfig:"HARITKART_REDIS_ADDR"`
	Password     string        `envconfig:"HARITKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"HARITKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HARITKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HARITKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HARITKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HARITKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HARITKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PaymentConfig carries the only provider-facing value the storefront needs:
// the publishable key handed to the hosted checkout page.
type PaymentConfig struct {
	PublicKey string `envconfig:"HARITKART_PAYMENT_PUBLIC_KEY"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"HARITKART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"HARITKART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"HARITKART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow       time.Duration `envconfig:"HARITKART_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit   int           `envconfig:"HARITKART_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit      int           `envconfig:"HARITKART_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

// SessionCacheConfig bounds the redis soft cache of user profiles. The cache
// is never a trust boundary; the upstream session cookie always wins.
type SessionCacheConfig struct {
	ProfileTTL time.Duration `envconfig:"HARITKART_SESSION_PROFILE_TTL" default:"15m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"HARITKART_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}
