package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/edge-gateway/internal/auth"
	"github.com/slotwise/edge-gateway/internal/domain"
	"github.com/slotwise/edge-gateway/internal/edge/app"
	"github.com/slotwise/edge-gateway/internal/policy"
)

type fakeValidator struct {
	claims *auth.Claims
	err    error
}

func (f *fakeValidator) ValidateSessionToken(string) (*auth.Claims, error) {
	return f.claims, f.err
}

type fakeRevocations struct {
	revoked bool
	err     error
	calls   int
}

func (f *fakeRevocations) IsRevoked(context.Context, string) (bool, error) {
	f.calls++
	if f.err != nil {
		return true, f.err
	}
	return f.revoked, nil
}

func validClaims() *auth.Claims {
	return &auth.Claims{
		SessionID:     "11111111-1111-1111-1111-111111111111",
		EmailVerified: true,
		AccountStatus: "normal",
		Roles:         []auth.RoleClaim{{Type: "member", Name: "member"}},
	}
}

func newResolver(v *fakeValidator, rev *fakeRevocations) *app.SessionResolver {
	return app.NewSessionResolver(app.SessionResolverConfig{
		Validator:   v,
		Revocations: rev,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestResolveValidToken(t *testing.T) {
	rev := &fakeRevocations{}
	r := newResolver(&fakeValidator{claims: validClaims()}, rev)

	got := r.Resolve(context.Background(), "token")
	require.NotNil(t, got)
	assert.True(t, got.EmailVerified)
	assert.Equal(t, policy.AccountStatusNormal, got.AccountStatus)
	assert.Equal(t, 1, rev.calls)
}

func TestResolveEmptyTokenIsAnonymous(t *testing.T) {
	rev := &fakeRevocations{}
	r := newResolver(&fakeValidator{claims: validClaims()}, rev)

	assert.Nil(t, r.Resolve(context.Background(), ""))
	assert.Zero(t, rev.calls, "revocation store must not be consulted for empty tokens")
}

func TestResolveInvalidTokenIsAnonymous(t *testing.T) {
	r := newResolver(&fakeValidator{err: domain.ErrInvalidToken}, &fakeRevocations{})
	assert.Nil(t, r.Resolve(context.Background(), "garbage"))
}

func TestResolveExpiredTokenIsAnonymous(t *testing.T) {
	r := newResolver(&fakeValidator{err: auth.ErrTokenExpired}, &fakeRevocations{})
	assert.Nil(t, r.Resolve(context.Background(), "expired"))
}

func TestResolveRevokedSessionIsAnonymous(t *testing.T) {
	r := newResolver(&fakeValidator{claims: validClaims()}, &fakeRevocations{revoked: true})
	assert.Nil(t, r.Resolve(context.Background(), "token"))
}

func TestResolveRevocationStoreFailureIsAnonymous(t *testing.T) {
	// Fail closed: a session that cannot be checked is not trusted.
	r := newResolver(&fakeValidator{claims: validClaims()}, &fakeRevocations{err: errors.New("redis down")})
	assert.Nil(t, r.Resolve(context.Background(), "token"))
}
