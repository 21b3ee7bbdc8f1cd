// Package policy implements the edge request authorization policy: given a
// classified route and the caller's session claims, it produces a routing
// decision before any page renders. Evaluation is a pure function over its
// inputs - no I/O, no shared state, safe for arbitrary concurrency.
package policy

// AccountStatus describes the account lifecycle state carried in session
// claims. Unknown values behave like AccountStatusNormal: only the password
// expiry grace period changes routing.
type AccountStatus string

const (
	AccountStatusNormal          AccountStatus = "normal"
	AccountStatusPasswordExpired AccountStatus = "password_expired_grace"
	AccountStatusSuspended       AccountStatus = "suspended"
)

// Role is one role held by the session's user.
type Role struct {
	Type string
	Name string
}

// SessionClaims are the decoded, trusted attributes of an authenticated
// session. A nil *SessionClaims means the caller is anonymous. The policy
// engine only reads claims; it never mutates or persists them.
type SessionClaims struct {
	EmailVerified bool
	AccountStatus AccountStatus
	RequiresMFA   bool
	Roles         []Role
}

// HasAdminRole reports whether any role marks the user as an administrator,
// by role type or by role name. Nil-safe: anonymous callers hold no roles.
func (c *SessionClaims) HasAdminRole() bool {
	if c == nil {
		return false
	}
	for _, r := range c.Roles {
		if r.Type == "admin" || r.Name == "admin" {
			return true
		}
	}
	return false
}
