// Package config provides configuration loading using koanf.
// Precedence: environment variables over compiled defaults.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/slotwise/edge-gateway/internal/domain"
)

// Config holds all service configuration.
type Config struct {
	// Environment identifier: "local", "dev", "prod"
	Environment string `koanf:"environment"`

	// Logging configuration
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// Edge service configuration
	Edge EdgeConfig `koanf:"edge"`

	// Upstream application the edge fronts
	Upstream UpstreamConfig `koanf:"upstream"`

	// Session token verification
	Auth AuthConfig `koanf:"auth"`

	// Route classification tables and special pages
	Routes RoutesConfig `koanf:"routes"`

	// Infrastructure configurations
	Redis RedisConfig `koanf:"redis"`
	AWS   AWSConfig   `koanf:"aws"`

	// OpenTelemetry configuration
	OTEL OTELConfig `koanf:"otel"`
}

// EdgeConfig holds the edge gateway's listener configuration.
type EdgeConfig struct {
	HTTPPort int `koanf:"http_port"`
}

// UpstreamConfig holds the upstream application origin.
type UpstreamConfig struct {
	Origin  string        `koanf:"origin"` // Required in production
	Timeout time.Duration `koanf:"timeout"`
}

// AuthConfig holds session token verification parameters.
type AuthConfig struct {
	Issuer     string `koanf:"issuer"`
	Audience   string `koanf:"audience"`
	CookieName string `koanf:"cookie_name"`
}

// RoutesConfig holds the route classification prefix tables, the paths the
// engine skips entirely, and the special pages redirects target.
type RoutesConfig struct {
	PublicPrefixes     []string `koanf:"public_prefixes"`
	AuthPrefixes       []string `koanf:"auth_prefixes"`
	ProtectedPrefixes  []string `koanf:"protected_prefixes"`
	AdminPrefixes      []string `koanf:"admin_prefixes"`
	ExcludedPrefixes   []string `koanf:"excluded_prefixes"`
	ExcludedExtensions []string `koanf:"excluded_extensions"`

	Pages PagesConfig `koanf:"pages"`
}

// PagesConfig names the special pages the policy engine redirects to.
type PagesConfig struct {
	Login               string `koanf:"login"`
	Landing             string `koanf:"landing"`
	VerifyEmail         string `koanf:"verify_email"`
	ForcePasswordChange string `koanf:"force_password_change"`
	MFA                 string `koanf:"mfa"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string              `koanf:"addr"` // Required in production
	Password domain.SecretString `koanf:"password"`
	DB       int                 `koanf:"db"`
	Timeout  time.Duration       `koanf:"timeout"`
}

// AWSConfig holds AWS SDK configuration.
type AWSConfig struct {
	Region   string `koanf:"region"`
	Endpoint string `koanf:"endpoint"` // LocalStack endpoint for development
}

// OTELConfig holds OpenTelemetry configuration.
type OTELConfig struct {
	Endpoint    string `koanf:"endpoint"` // Empty disables OTLP export
	ServiceName string `koanf:"service_name"`
}

// defaults returns a Config with compiled default values. The route tables
// default to the scheduling application's full sitemap so a fresh deploy
// guards every known surface without any route configuration.
func defaults() *Config {
	return &Config{
		Environment: "local",
		LogLevel:    "info",
		LogFormat:   "json",

		Edge: EdgeConfig{
			HTTPPort: 8080,
		},
		Upstream: UpstreamConfig{
			Origin:  "http://localhost:3000",
			Timeout: domain.UpstreamTimeout,
		},
		Auth: AuthConfig{
			Issuer:     "slotwise-auth",
			Audience:   "slotwise-edge",
			CookieName: "slotwise_session",
		},
		Routes: RoutesConfig{
			PublicPrefixes: []string{
				"/home", "/auth/login", "/auth/register", "/auth/verify-email",
				"/auth/password-reset", "/auth/sso", "/error",
				"/api/auth", "/api/backend",
			},
			AuthPrefixes: []string{
				"/auth/login", "/auth/register", "/auth/sso",
			},
			ProtectedPrefixes: []string{
				"/dashboard", "/event-types", "/bookings", "/availability",
				"/integrations", "/workflows", "/notifications", "/contacts",
				"/analytics", "/settings", "/profile",
			},
			AdminPrefixes: []string{
				"/admin", "/user-management", "/system",
			},
			ExcludedPrefixes: []string{
				"/static/", "/assets/", "/_image", "/favicon.ico",
				"/manifest.webmanifest",
			},
			ExcludedExtensions: []string{
				".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp",
				".css", ".js", ".map", ".woff", ".woff2",
			},
			Pages: PagesConfig{
				Login:               "/auth/login",
				Landing:             "/dashboard",
				VerifyEmail:         "/auth/verify-email",
				ForcePasswordChange: "/auth/security/change-password",
				MFA:                 "/auth/security/mfa",
			},
		},

		Redis: RedisConfig{
			Addr:    "localhost:6379",
			DB:      0,
			Timeout: domain.RedisTimeout,
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		OTEL: OTELConfig{
			ServiceName: "edge-gateway",
		},
	}
}

// Load loads configuration following the precedence:
// 1. Environment variables (highest)
// 2. Compiled defaults (lowest)
//
// Required keys missing cause startup failure; optional keys fall back to
// defaults.
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	// Start with compiled defaults
	cfg := defaults()

	// Load environment variables
	// Prefix: none (we use full names like EDGE_HTTP_PORT)
	// Delimiter: _ maps to . for nested config
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// Unmarshal into config struct
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Validate required fields
	if err := validateRequired(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateRequired checks that required configuration is present.
func validateRequired(cfg *Config) error {
	// Route tables and pages must be present in every environment; the
	// engine refuses to start without them.
	if len(cfg.Routes.PublicPrefixes) == 0 {
		return fmt.Errorf("%w: routes.public_prefixes", domain.ErrConfigRequired)
	}
	if cfg.Routes.Pages.Login == "" {
		return fmt.Errorf("%w: routes.pages.login", domain.ErrConfigRequired)
	}
	if cfg.Routes.Pages.Landing == "" {
		return fmt.Errorf("%w: routes.pages.landing", domain.ErrConfigRequired)
	}

	// In local environment, the remaining fields have sensible defaults
	if cfg.Environment == "local" {
		return nil
	}

	// In production, certain fields are required
	if cfg.Environment == "prod" {
		if cfg.Upstream.Origin == "" {
			return fmt.Errorf("%w: upstream.origin", domain.ErrConfigRequired)
		}
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr", domain.ErrConfigRequired)
		}
		if cfg.Auth.Issuer == "" {
			return fmt.Errorf("%w: auth.issuer", domain.ErrConfigRequired)
		}
	}

	return nil
}

// IsLocal returns true if running in local development environment.
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}

// IsProd returns true if running in production environment.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}
