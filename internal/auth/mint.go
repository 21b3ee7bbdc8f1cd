package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/slotwise/edge-gateway/internal/domain"
)

// MintResult holds the result of minting a session token.
type MintResult struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// MintParams are the account attributes baked into a session token.
// These are snapshots: the auth backend re-mints when they change.
type MintParams struct {
	UserID        string
	SessionID     string
	EmailVerified bool
	AccountStatus string
	MFARequired   bool
	Roles         []RoleClaim
}

// Minter creates signed RS256 session tokens. In production minting lives
// in the auth backend; the edge keeps a Minter for local development and
// for exercising the validator in tests against real signed tokens.
type Minter struct {
	keyStore   KeyStore
	sessionTTL time.Duration
	issuer     string
	audience   string
	clock      domain.Clock
}

// MinterConfig holds configuration for creating a Minter.
type MinterConfig struct {
	KeyStore   KeyStore
	SessionTTL time.Duration
	Issuer     string
	Audience   string
	Clock      domain.Clock
}

// NewMinter creates a new session token minter.
func NewMinter(cfg MinterConfig) *Minter {
	return &Minter{
		keyStore:   cfg.KeyStore,
		sessionTTL: cfg.SessionTTL,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		clock:      cfg.Clock,
	}
}

// MintSessionToken creates a signed RS256 session token carrying the given
// account attributes. Returns the signed token string, JTI, and expiration.
func (m *Minter) MintSessionToken(p MintParams) (MintResult, error) {
	privateKey, keyID, err := m.keyStore.SigningKey()
	if err != nil {
		return MintResult{}, fmt.Errorf("get signing key: %w", err)
	}

	now := m.clock.Now().UTC()
	jti := uuid.NewString()
	expiresAt := now.Add(m.sessionTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti,
		},
		SessionID:     p.SessionID,
		EmailVerified: p.EmailVerified,
		AccountStatus: p.AccountStatus,
		MFARequired:   p.MFARequired,
		Roles:         p.Roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, &claims)
	token.Header["kid"] = keyID

	signed, err := token.SignedString(privateKey)
	if err != nil {
		return MintResult{}, fmt.Errorf("sign session token: %w", err)
	}

	return MintResult{
		Token:     signed,
		JTI:       jti,
		ExpiresAt: expiresAt,
	}, nil
}
