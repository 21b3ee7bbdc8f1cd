package policy

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/slotwise/edge-gateway/internal/domain"
	"github.com/slotwise/edge-gateway/internal/routes"
)

// Pages holds the fixed special-page paths the evaluator redirects to.
// Every gate excludes its own target page by path, so target paths and
// gate exclusions can never drift apart: both come from the same field.
type Pages struct {
	// Login is where anonymous callers on protected routes are sent.
	Login string
	// Landing is the default authenticated landing page.
	Landing string
	// VerifyEmail is the email verification prompt page.
	VerifyEmail string
	// ForcePasswordChange is the forced password rotation page.
	ForcePasswordChange string
	// MFA is the multi-factor challenge page.
	MFA string
}

// Input is one request's evaluation input.
type Input struct {
	Path        string
	CallbackURL string // callbackUrl query value, may be empty
	Categories  routes.Categories
	Claims      *SessionClaims // nil means anonymous
}

// Engine evaluates the routing policy. It is immutable after construction
// and holds no per-request state: evaluating the same (path, claims) pair
// twice yields the identical decision.
type Engine struct {
	table *routes.Table
	pages Pages
}

// NewEngine validates pages against table and builds an Engine. Redirect
// loops are asserted impossible at construction time: for each account-state
// gate, a caller stuck in that state who is already on the gate's target
// page must not be redirected back to it.
func NewEngine(table *routes.Table, pages Pages) (*Engine, error) {
	for _, p := range []struct {
		name string
		path string
	}{
		{"login", pages.Login},
		{"landing", pages.Landing},
		{"verify_email", pages.VerifyEmail},
		{"force_password_change", pages.ForcePasswordChange},
		{"mfa", pages.MFA},
	} {
		if p.path == "" {
			return nil, fmt.Errorf("%w: pages.%s", domain.ErrConfigRequired, p.name)
		}
		if !strings.HasPrefix(p.path, "/") {
			return nil, fmt.Errorf("%w: pages.%s %q is not absolute", domain.ErrConfigInvalid, p.name, p.path)
		}
	}

	if !table.Classify(pages.Login).Auth {
		return nil, fmt.Errorf("%w: pages.login %q is not within an auth prefix", domain.ErrConfigInvalid, pages.Login)
	}
	if table.Classify(pages.Landing).Admin {
		return nil, fmt.Errorf("%w: pages.landing %q is an admin route; non-admins would loop", domain.ErrConfigInvalid, pages.Landing)
	}

	e := &Engine{table: table, pages: pages}
	if err := e.verifyNoRedirectLoops(); err != nil {
		return nil, err
	}
	return e, nil
}

// verifyNoRedirectLoops evaluates each gate's triggering claim state at the
// gate's own target page and rejects the configuration if the decision
// points back at that page.
func (e *Engine) verifyNoRedirectLoops() error {
	checks := []struct {
		name   string
		target string
		claims *SessionClaims
	}{
		{"force_password_change", e.pages.ForcePasswordChange, &SessionClaims{
			EmailVerified: true,
			AccountStatus: AccountStatusPasswordExpired,
		}},
		{"verify_email", e.pages.VerifyEmail, &SessionClaims{
			EmailVerified: false,
			AccountStatus: AccountStatusNormal,
		}},
		{"mfa", e.pages.MFA, &SessionClaims{
			EmailVerified: true,
			AccountStatus: AccountStatusNormal,
			RequiresMFA:   true,
		}},
	}

	for _, c := range checks {
		d := e.Evaluate(Input{
			Path:       c.target,
			Categories: e.table.Classify(c.target),
			Claims:     c.claims,
		})
		if d.Kind == DecisionRedirect && redirectPath(d.Target) == c.target {
			return fmt.Errorf("%w: pages.%s %q redirects to itself", domain.ErrConfigInvalid, c.name, c.target)
		}
	}
	return nil
}

// Evaluate runs the ordered policy chain; the first matching gate wins.
func (e *Engine) Evaluate(in Input) Decision {
	cats := in.Categories

	// Booking pages must work for anonymous visitors regardless of auth
	// state, so the booking-link exception is checked before anything else.
	if cats.BookingLink {
		return Allow()
	}

	// An already-authenticated user visiting a login/registration page is
	// sent back into the app. Checked ahead of the public allow: auth
	// routes are public, and the plain allow would otherwise win.
	if cats.Auth && in.Claims != nil {
		target := e.pages.Landing
		if cb := sanitizeCallback(in.CallbackURL); cb != "" {
			target = cb
		}
		return RedirectTo(target, ReasonAlreadyAuthenticated)
	}

	if cats.Public {
		return Allow()
	}

	if in.Claims != nil {
		if d, ok := e.accountStateGate(in.Path, cats, in.Claims); ok {
			return d
		}
	}

	if (cats.Protected || cats.Admin) && in.Claims == nil {
		target := e.pages.Login + "?callbackUrl=" + url.QueryEscape(in.Path)
		return RedirectTo(target, ReasonLoginRequired)
	}

	// Default-open: non-enumerated routes are assumed not security
	// sensitive. The coarse gate in Authorized is stricter and still
	// requires a session for them.
	return Allow()
}

// accountStateGate applies the fixed-order account gates for authenticated
// callers. Each gate excludes its own target page to avoid redirect loops;
// the email and MFA gates additionally exempt auth routes.
func (e *Engine) accountStateGate(path string, cats routes.Categories, claims *SessionClaims) (Decision, bool) {
	if claims.AccountStatus == AccountStatusPasswordExpired && path != e.pages.ForcePasswordChange {
		return RedirectTo(e.pages.ForcePasswordChange, ReasonPasswordExpired), true
	}

	if !claims.EmailVerified && path != e.pages.VerifyEmail && !cats.Auth {
		return RedirectTo(e.pages.VerifyEmail, ReasonEmailUnverified), true
	}

	if claims.RequiresMFA && path != e.pages.MFA && !cats.Auth {
		return RedirectTo(e.pages.MFA, ReasonMFARequired), true
	}

	if cats.Admin && !claims.HasAdminRole() {
		target := e.pages.Landing + "?error=" + ReasonInsufficientPermissions
		return RedirectTo(target, ReasonInsufficientPermissions), true
	}

	return Decision{}, false
}

// Authorized is the coarse authorization gate. It allows public,
// booking-link, and auth paths unconditionally, requires a session for
// protected and admin paths, and defaults to requiring a session for
// everything else. It never disagrees with Evaluate on booking-link or
// protected/admin semantics.
func (e *Engine) Authorized(cats routes.Categories, claims *SessionClaims) bool {
	if cats.BookingLink || cats.Public || cats.Auth {
		return true
	}
	return claims != nil
}

// Decide classifies path and composes the fine-grained evaluator with the
// coarse gate: a request the evaluator would pass through but the coarse
// gate rejects is denied as authentication-required.
func (e *Engine) Decide(path, callbackURL string, claims *SessionClaims) Decision {
	cats := e.table.Classify(path)
	d := e.Evaluate(Input{
		Path:        path,
		CallbackURL: callbackURL,
		Categories:  cats,
		Claims:      claims,
	})
	if d.Kind == DecisionAllow && !e.Authorized(cats, claims) {
		return DenyUnauthorized()
	}
	return d
}

// Pages returns the configured special-page paths.
func (e *Engine) Pages() Pages {
	return e.pages
}

// sanitizeCallback accepts only same-site absolute paths as redirect
// targets. Anything else (absolute URLs, protocol-relative //host paths,
// backslash tricks) falls back to the default landing page.
func sanitizeCallback(cb string) string {
	if cb == "" || !strings.HasPrefix(cb, "/") {
		return ""
	}
	if strings.HasPrefix(cb, "//") || strings.ContainsAny(cb, "\\") {
		return ""
	}
	return cb
}

// redirectPath strips the query string from a redirect target.
func redirectPath(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}
