// Package app contains the edge gateway's application services: resolving
// raw session tokens into policy claims ahead of route evaluation.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/slotwise/edge-gateway/internal/auth"
	"github.com/slotwise/edge-gateway/internal/policy"
)

// RevocationStore checks whether a session ID has been revoked. Implemented
// by the Redis adapter; written to by the auth backend on logout and
// administrative revocation.
type RevocationStore interface {
	// IsRevoked returns (true, nil) if revoked, (false, nil) if not, and
	// (true, err) on store failure: fail closed, treat as revoked.
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// tokenValidator is the narrow consumer-defined interface for session token
// validation. The *auth.Validator satisfies this.
type tokenValidator interface {
	ValidateSessionToken(tokenString string) (*auth.Claims, error)
}

// SessionResolver turns a raw session token into policy claims. Every
// failure mode maps to "anonymous caller" rather than an error: the policy
// engine treats malformed and missing claims identically, and the request
// itself must never fail because a cookie went stale.
type SessionResolver struct {
	validator   tokenValidator
	revocations RevocationStore
	logger      *slog.Logger
}

// SessionResolverConfig holds configuration for creating a SessionResolver.
type SessionResolverConfig struct {
	Validator   tokenValidator
	Revocations RevocationStore
	Logger      *slog.Logger
}

// NewSessionResolver creates a SessionResolver.
func NewSessionResolver(cfg SessionResolverConfig) *SessionResolver {
	return &SessionResolver{
		validator:   cfg.Validator,
		revocations: cfg.Revocations,
		logger:      cfg.Logger,
	}
}

// Resolve validates token and returns the caller's session claims, or nil
// for anonymous. A token that is missing, malformed, expired, or revoked
// yields nil.
func (r *SessionResolver) Resolve(ctx context.Context, token string) *policy.SessionClaims {
	if token == "" {
		return nil
	}

	claims, err := r.validator.ValidateSessionToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			r.logger.DebugContext(ctx, "expired session token, treating as anonymous")
		} else {
			r.logger.DebugContext(ctx, "invalid session token, treating as anonymous",
				slog.String("error", err.Error()))
		}
		return nil
	}

	revoked, err := r.revocations.IsRevoked(ctx, claims.SessionID)
	if err != nil {
		// Fail closed: an unreachable revocation store downgrades the
		// caller to anonymous rather than trusting a possibly revoked
		// session.
		r.logger.WarnContext(ctx, "revocation check failed, treating session as anonymous",
			slog.String("error", err.Error()))
		return nil
	}
	if revoked {
		r.logger.InfoContext(ctx, "revoked session presented",
			slog.String("session_id", claims.SessionID))
		return nil
	}

	return claims.ToSession()
}
