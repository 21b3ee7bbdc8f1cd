package port

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/slotwise/edge-gateway/internal/domain"
	"github.com/slotwise/edge-gateway/internal/errmap"
)

// NewUpstreamProxy builds the reverse proxy that forwards allowed requests
// to the upstream application origin. Upstream failures surface to the
// caller as a bad gateway response, never as a hung connection: the
// transport gives up once the upstream exceeds timeout without responding.
func NewUpstreamProxy(origin string, timeout time.Duration, logger *slog.Logger) (http.Handler, error) {
	target, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("%w: upstream origin %q: %v", domain.ErrConfigInvalid, origin, err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, fmt.Errorf("%w: upstream origin %q: scheme must be http or https", domain.ErrConfigInvalid, origin)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.Transport = &http.Transport{
		ResponseHeaderTimeout: timeout,
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		upstreamErrorsTotal.Add(r.Context(), 1)
		logger.ErrorContext(r.Context(), "upstream request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		errmap.WriteHTTP(w, domain.ErrUpstreamFailure)
	}
	return proxy, nil
}
