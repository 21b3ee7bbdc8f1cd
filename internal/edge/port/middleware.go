// Package port contains the edge gateway's HTTP entry points: the
// authorization middleware that guards every request and the reverse proxy
// that forwards allowed requests upstream.
package port

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/slotwise/edge-gateway/internal/domain"
	"github.com/slotwise/edge-gateway/internal/errmap"
	"github.com/slotwise/edge-gateway/internal/policy"
	"github.com/slotwise/edge-gateway/internal/routes"
)

var tracer = otel.Tracer("edge/port")

var (
	policyDecisionsTotal metric.Int64Counter
	upstreamErrorsTotal  metric.Int64Counter
)

func init() {
	m := otel.Meter("edge/port")

	policyDecisionsTotal, _ = m.Int64Counter("edge_policy_decisions_total",
		metric.WithDescription("Total policy decisions by kind and reason"))
	upstreamErrorsTotal, _ = m.Int64Counter("edge_upstream_errors_total",
		metric.WithDescription("Total upstream proxy failures"))
}

const requestIDHeader = "X-Request-ID"

// sessionResolver is the narrow consumer-defined interface for resolving a
// raw token into session claims. The *app.SessionResolver satisfies this.
type sessionResolver interface {
	Resolve(ctx context.Context, token string) *policy.SessionClaims
}

// Middleware authorizes every incoming request against the policy engine
// before it reaches the upstream application.
type Middleware struct {
	table      *routes.Table
	engine     *policy.Engine
	sessions   sessionResolver
	cookieName string
	logger     *slog.Logger
}

// MiddlewareConfig holds configuration for creating a Middleware.
type MiddlewareConfig struct {
	Table      *routes.Table
	Engine     *policy.Engine
	Sessions   sessionResolver
	CookieName string
	Logger     *slog.Logger
}

// NewMiddleware creates an authorization Middleware.
func NewMiddleware(cfg MiddlewareConfig) *Middleware {
	return &Middleware{
		table:      cfg.Table,
		engine:     cfg.Engine,
		sessions:   cfg.Sessions,
		cookieName: cfg.CookieName,
		logger:     cfg.Logger,
	}
}

// Wrap returns a handler that evaluates the authorization policy for each
// request and either forwards it to next, redirects the caller, or denies
// the request. Static assets and other excluded paths bypass evaluation
// entirely.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if len(path) > domain.MaxPathLength {
			errmap.WriteHTTP(w, domain.ErrInvalidInput)
			return
		}
		if !m.table.Applies(path) {
			next.ServeHTTP(w, r)
			return
		}

		reqID := requestID(r)
		w.Header().Set(requestIDHeader, reqID)

		ctx, span := tracer.Start(r.Context(), "edge.authorize",
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", path),
			))
		defer span.End()

		claims := m.sessions.Resolve(ctx, m.extractToken(r))
		decision := m.engine.Decide(path, r.URL.Query().Get("callbackUrl"), claims)

		span.SetAttributes(
			attribute.String("edge.decision", decision.Kind.String()),
			attribute.String("edge.reason", decision.Reason),
		)
		policyDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("decision", decision.Kind.String()),
			attribute.String("reason", decision.Reason),
		))
		m.logger.InfoContext(ctx, "policy decision",
			slog.String("request_id", reqID),
			slog.String("path", path),
			slog.String("decision", decision.String()),
			slog.String("reason", decision.Reason),
			slog.Bool("authenticated", claims != nil),
		)

		switch decision.Kind {
		case policy.DecisionAllow:
			next.ServeHTTP(w, r.WithContext(ctx))
		case policy.DecisionRedirect:
			http.Redirect(w, r, decision.Target, http.StatusTemporaryRedirect)
		default:
			errmap.WriteHTTP(w, domain.ErrUnauthorized)
		}
	})
}

// extractToken pulls the session token from the session cookie, falling
// back to a bearer Authorization header for API clients.
func (m *Middleware) extractToken(r *http.Request) string {
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, prefix) {
		return h[len(prefix):]
	}
	return ""
}

// requestID returns the caller-supplied request ID, or mints one.
func requestID(r *http.Request) string {
	if id := r.Header.Get(requestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}
