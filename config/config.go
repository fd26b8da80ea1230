// Package config loads runtime configuration from the environment.
// Everything customer-facing links or session signing depend on is required
// at boot; Load reports every problem at once instead of falling back to
// development defaults.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const minSecretLength = 32

type Config struct {
	Env  string
	Port string

	DatabaseDriver string
	DatabaseURL    string

	SessionSecret string
	SessionTTL    time.Duration

	// SiteURL is the public base URL used to build bill links sent to customers.
	SiteURL string

	RedisURL string

	LoginRateLimit  int
	LoginRateWindow time.Duration

	CORSAllowedOrigins []string

	// TrustedProxies may set X-Forwarded-For. Empty means the client IP is
	// always the connection's remote address.
	TrustedProxies []string

	LogLevel      string
	LogFormat     string
	MetricsPrefix string

	// Tracing is off when OTLPEndpoint is empty.
	OTLPEndpoint string
	OTLPInsecure bool
}

// Load reads the environment. The returned error lists every missing or
// invalid variable.
func Load() (*Config, error) {
	var problems []string

	required := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			problems = append(problems, key+" is required")
		}
		return v
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseDriver: strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL:    required("DATABASE_URL"),
		SessionSecret:  required("SESSION_SECRET"),
		SiteURL:        required("SITE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", ""),
		MetricsPrefix:  getEnv("METRICS_PREFIX", "restaurant_biller"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure:   os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
	}

	var err error
	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil || cfg.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be a positive duration")
	}
	if cfg.LoginRateWindow, err = getEnvDuration("LOGIN_RATE_WINDOW", time.Minute); err != nil || cfg.LoginRateWindow <= 0 {
		problems = append(problems, "LOGIN_RATE_WINDOW must be a positive duration")
	}
	if cfg.LoginRateLimit, err = getEnvInt("LOGIN_RATE_LIMIT", 5); err != nil || cfg.LoginRateLimit < 1 {
		problems = append(problems, "LOGIN_RATE_LIMIT must be a positive integer")
	}

	switch cfg.DatabaseDriver {
	case "postgres", "mysql", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("DB_DRIVER %q is not supported (postgres, mysql, sqlite)", cfg.DatabaseDriver))
	}

	if cfg.SessionSecret != "" && len(cfg.SessionSecret) < minSecretLength {
		problems = append(problems, fmt.Sprintf("SESSION_SECRET must be at least %d characters", minSecretLength))
	}

	if cfg.SiteURL != "" {
		if msg := validateSiteURL(cfg.SiteURL, cfg.IsProduction()); msg != "" {
			problems = append(problems, msg)
		}
		cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	}

	cfg.TrustedProxies = splitList(os.Getenv("TRUSTED_PROXIES"))
	for _, p := range cfg.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				problems = append(problems, fmt.Sprintf("TRUSTED_PROXIES entry %q is not an IP or CIDR", p))
			}
		}
	}

	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSAllowedOrigins) == 0 && cfg.SiteURL != "" {
		cfg.CORSAllowedOrigins = []string{cfg.SiteURL}
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
		if cfg.IsProduction() {
			cfg.LogFormat = "json"
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SecureCookies reports whether session cookies carry the Secure attribute.
func (c *Config) SecureCookies() bool {
	return c.IsProduction() || strings.HasPrefix(c.SiteURL, "https://")
}

func validateSiteURL(raw string, production bool) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "SITE_URL must be an absolute http(s) URL"
	}
	if production {
		host := u.Hostname()
		if host == "localhost" || host == "127.0.0.1" || host == "::1" {
			return "SITE_URL must not point at localhost in production"
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(value)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.TrimRight(p, "/"))
		}
	}
	return out
}
