package policy

import "fmt"

// DecisionKind discriminates the Decision variant.
type DecisionKind int

const (
	// DecisionAllow lets the request continue to the upstream application.
	DecisionAllow DecisionKind = iota
	// DecisionRedirect sends the caller to Target with an HTTP redirect.
	DecisionRedirect
	// DecisionDeny rejects the request as authentication-required.
	DecisionDeny
)

// Redirect reasons, carried on Decision for logging and, where user-visible,
// already encoded into the redirect target's query string.
const (
	ReasonAlreadyAuthenticated    = "already_authenticated"
	ReasonLoginRequired           = "login_required"
	ReasonPasswordExpired         = "password_expired"
	ReasonEmailUnverified         = "email_unverified"
	ReasonMFARequired             = "mfa_required"
	ReasonInsufficientPermissions = "insufficient_permissions"
)

// String renders the kind as a stable label for logs and metrics.
func (k DecisionKind) String() string {
	switch k {
	case DecisionAllow:
		return "allow"
	case DecisionRedirect:
		return "redirect"
	case DecisionDeny:
		return "deny"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Decision is the outcome of evaluating one request. Produced fresh per
// request and never cached: claims and path vary every time.
type Decision struct {
	Kind   DecisionKind
	Target string // redirect target; empty unless Kind == DecisionRedirect
	Reason string // machine-readable cause; empty for plain allows
}

// Allow returns the pass-through decision.
func Allow() Decision {
	return Decision{Kind: DecisionAllow}
}

// RedirectTo returns a redirect decision to target.
func RedirectTo(target, reason string) Decision {
	return Decision{Kind: DecisionRedirect, Target: target, Reason: reason}
}

// DenyUnauthorized returns the authentication-required decision. This is an
// expected output, not an exception: it is reported to the caller, never
// silently dropped.
func DenyUnauthorized() Decision {
	return Decision{Kind: DecisionDeny, Reason: ReasonLoginRequired}
}

// String renders the decision for log lines.
func (d Decision) String() string {
	switch d.Kind {
	case DecisionAllow:
		return "allow"
	case DecisionRedirect:
		return fmt.Sprintf("redirect(%s)", d.Target)
	case DecisionDeny:
		return "deny_unauthorized"
	default:
		return fmt.Sprintf("unknown(%d)", int(d.Kind))
	}
}
