package domain

import "time"

// Compiled defaults. These can be overridden via configuration where a
// corresponding config key exists.
const (
	// Edge request handling
	RequestReadTimeout  = 10 * time.Second // Max time to read an incoming request
	RequestWriteTimeout = 30 * time.Second // Max time to write a response (covers proxied pages)
	RequestIdleTimeout  = 60 * time.Second // Keep-alive idle timeout

	// Upstream proxy contracts
	UpstreamTimeout = 30 * time.Second // Max time for a proxied upstream round trip

	// Timeout contracts for infrastructure calls
	RedisTimeout = 2 * time.Second // Max time for Redis operations (revocation lookups)
	SSMTimeout   = 5 * time.Second // Max time for SSM Parameter Store requests

	// Session token verification
	KeyCacheTTL        = 5 * time.Minute  // Public verification key cache TTL
	KidRefreshCooldown = 30 * time.Second // Cooldown between unknown-kid key refreshes

	// Revocation denylist
	RevokedSessionTTL = 24 * time.Hour // Retention for revoked session IDs at the edge

	// Graceful shutdown
	ShutdownDrainDelay      = 3 * time.Second  // Wait for load balancer endpoint removal
	ShutdownHTTPTimeout     = 15 * time.Second // Max time to drain in-flight requests
	ShutdownOTELTimeout     = 5 * time.Second  // Max time to flush telemetry
	GracefulShutdownTimeout = 30 * time.Second // End-to-end shutdown budget

	// Request path limits
	MaxPathLength = 2048 // Paths longer than this are never booking links
)
