package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/slotwise/edge-gateway/internal/policy"
)

// Claims represents the JWT claims the auth backend mints into session
// tokens. The edge only reads these.
type Claims struct {
	jwt.RegisteredClaims
	SessionID     string      `json:"sid"`
	EmailVerified bool        `json:"email_verified"`
	AccountStatus string      `json:"account_status"`
	MFARequired   bool        `json:"mfa_required"`
	Roles         []RoleClaim `json:"roles,omitempty"`
}

// RoleClaim is one role entry in the token's role set.
type RoleClaim struct {
	Type string `json:"role_type"`
	Name string `json:"name"`
}

// ToSession converts token claims into the policy engine's session view.
// An empty account_status claim is treated as a normal account.
func (c *Claims) ToSession() *policy.SessionClaims {
	if c == nil {
		return nil
	}

	status := policy.AccountStatus(c.AccountStatus)
	if status == "" {
		status = policy.AccountStatusNormal
	}

	roles := make([]policy.Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		roles = append(roles, policy.Role{Type: r.Type, Name: r.Name})
	}

	return &policy.SessionClaims{
		EmailVerified: c.EmailVerified,
		AccountStatus: status,
		RequiresMFA:   c.MFARequired,
		Roles:         roles,
	}
}
