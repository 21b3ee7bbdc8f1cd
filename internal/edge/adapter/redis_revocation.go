package adapter

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/slotwise/edge-gateway/internal/edge/app"
	redisclient "github.com/slotwise/edge-gateway/internal/redis"
)

// revokedSessionPrefix is the Redis key prefix for revoked session entries.
// Key pattern: revoked_session:{sid}. The auth backend writes these on
// logout and administrative revocation with its own TTL; the edge only
// reads them.
const revokedSessionPrefix = "revoked_session:"

// Compile-time check: RevocationStore satisfies app.RevocationStore.
var _ app.RevocationStore = (*RevocationStore)(nil)

// RevocationStore implements session revocation lookups backed by Redis.
// Reads fail closed: a Redis error results in treating the session as
// revoked, which the resolver downgrades to anonymous.
type RevocationStore struct {
	cmd redisclient.Cmdable
}

// NewRevocationStore creates a RevocationStore that uses cmd for Redis operations.
func NewRevocationStore(cmd redisclient.Cmdable) *RevocationStore {
	return &RevocationStore{cmd: cmd}
}

// IsRevoked checks whether a session ID has been revoked.
// Returns (true, nil) if revoked, (false, nil) if not revoked, and
// (true, err) on Redis failure.
func (s *RevocationStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "redis.revocation.is_revoked")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", "EXISTS"),
	)

	key := revokedSessionPrefix + sessionID
	result, err := s.cmd.Exists(ctx, key).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return true, fmt.Errorf("check revocation %q: %w", sessionID, err)
	}

	return result > 0, nil
}
