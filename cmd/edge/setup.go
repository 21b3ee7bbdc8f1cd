package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"log/slog"

	"github.com/slotwise/edge-gateway/internal/auth"
	"github.com/slotwise/edge-gateway/internal/config"
	"github.com/slotwise/edge-gateway/internal/domain"
	"github.com/slotwise/edge-gateway/internal/edge/adapter"
	"github.com/slotwise/edge-gateway/internal/edge/app"
	"github.com/slotwise/edge-gateway/internal/edge/port"
	"github.com/slotwise/edge-gateway/internal/policy"
	"github.com/slotwise/edge-gateway/internal/redis"
	"github.com/slotwise/edge-gateway/internal/routes"
	"github.com/slotwise/edge-gateway/internal/server"
	"github.com/slotwise/edge-gateway/internal/ssm"
)

// setup is the edge gateway composition root. It creates infrastructure
// clients, the token validator and session resolver, the route table and
// policy engine, and mounts the authorization middleware in front of the
// upstream reverse proxy.
func setup(ctx context.Context, deps server.SetupDeps) (func(context.Context) error, error) {
	cfg := deps.Config
	logger := deps.Logger

	// 1. Infrastructure clients.
	redisClient := redis.NewClient(redis.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		ReadTimeout:  cfg.Redis.Timeout,
		WriteTimeout: cfg.Redis.Timeout,
	})

	// 2. Adapters.
	clock := domain.RealClock{}
	revocationStore := adapter.NewRevocationStore(redisClient.RDB)

	keyStore, err := createKeyStore(ctx, cfg, clock, logger)
	if err != nil {
		return nil, fmt.Errorf("create key store: %w", err)
	}

	// 3. Session resolution.
	validator := auth.NewValidator(auth.ValidatorConfig{
		KeyStore: keyStore,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		Clock:    clock,
	})
	sessions := app.NewSessionResolver(app.SessionResolverConfig{
		Validator:   validator,
		Revocations: revocationStore,
		Logger:      logger,
	})

	// 4. Route table and policy engine. Both validate at construction; a
	// misconfigured table or a redirect loop aborts startup.
	table, err := routes.NewTable(routes.Config{
		PublicPrefixes:     cfg.Routes.PublicPrefixes,
		AuthPrefixes:       cfg.Routes.AuthPrefixes,
		ProtectedPrefixes:  cfg.Routes.ProtectedPrefixes,
		AdminPrefixes:      cfg.Routes.AdminPrefixes,
		ExcludedPrefixes:   cfg.Routes.ExcludedPrefixes,
		ExcludedExtensions: cfg.Routes.ExcludedExtensions,
	})
	if err != nil {
		return nil, fmt.Errorf("build route table: %w", err)
	}
	engine, err := policy.NewEngine(table, policy.Pages{
		Login:               cfg.Routes.Pages.Login,
		Landing:             cfg.Routes.Pages.Landing,
		VerifyEmail:         cfg.Routes.Pages.VerifyEmail,
		ForcePasswordChange: cfg.Routes.Pages.ForcePasswordChange,
		MFA:                 cfg.Routes.Pages.MFA,
	})
	if err != nil {
		return nil, fmt.Errorf("build policy engine: %w", err)
	}

	// 5. HTTP surface: middleware wrapping the upstream proxy.
	proxy, err := port.NewUpstreamProxy(cfg.Upstream.Origin, cfg.Upstream.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("build upstream proxy: %w", err)
	}
	middleware := port.NewMiddleware(port.MiddlewareConfig{
		Table:      table,
		Engine:     engine,
		Sessions:   sessions,
		CookieName: cfg.Auth.CookieName,
		Logger:     logger,
	})
	deps.Mux.Handle("/", middleware.Wrap(proxy))

	logger.InfoContext(ctx, "edge gateway initialized",
		slog.String("upstream", cfg.Upstream.Origin))

	cleanup := func(_ context.Context) error {
		return redisClient.Close()
	}

	return cleanup, nil
}

// createKeyStore returns the appropriate verification key store for the
// environment. Local: generates an ephemeral RSA key pair (no AWS
// dependency). Otherwise: loads public keys from SSM Parameter Store.
func createKeyStore(ctx context.Context, cfg *config.Config, clock domain.Clock, logger *slog.Logger) (auth.KeyStore, error) {
	if cfg.IsLocal() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, fmt.Errorf("generate dev RSA key: %w", err)
		}
		logger.Info("using ephemeral RSA key for local development", slog.String("key_id", "dev-key-001"))
		return auth.NewStaticKeyStore(key, "dev-key-001"), nil
	}

	ssmClient, err := ssm.NewClient(ctx, ssm.Config{
		Endpoint: cfg.AWS.Endpoint,
		Region:   cfg.AWS.Region,
		Timeout:  domain.SSMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create SSM client: %w", err)
	}
	return adapter.NewSSMKeyStore(ctx, ssmClient.SSM, clock)
}
