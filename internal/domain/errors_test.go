package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slotwise/edge-gateway/internal/domain"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ErrUnavailable", domain.ErrUnavailable, true},
		{"ErrUpstreamFailure", domain.ErrUpstreamFailure, true},
		{"ErrUnauthorized", domain.ErrUnauthorized, false},
		{"ErrInvalidToken", domain.ErrInvalidToken, false},
		{"wrapped ErrUnavailable", fmt.Errorf("context: %w", domain.ErrUnavailable), true},
		{"random error", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.IsRetryable(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ErrInvalidInput", domain.ErrInvalidInput, true},
		{"ErrForbidden", domain.ErrForbidden, true},
		{"ErrUnauthorized", domain.ErrUnauthorized, true},
		{"ErrEmptyID", domain.ErrEmptyID, true},
		{"ErrInvalidID", domain.ErrInvalidID, true},
		{"ErrInvalidToken", domain.ErrInvalidToken, true},
		{"ErrTokenExpired", domain.ErrTokenExpired, true},
		{"ErrSessionRevoked", domain.ErrSessionRevoked, true},
		{"ErrUnavailable", domain.ErrUnavailable, false},
		{"ErrConfigRequired", domain.ErrConfigRequired, false},
		{"wrapped ErrForbidden", fmt.Errorf("context: %w", domain.ErrForbidden), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.IsClientError(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPermissionDenied(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ErrForbidden", domain.ErrForbidden, true},
		{"ErrUnauthorized", domain.ErrUnauthorized, true},
		{"ErrInvalidInput", domain.ErrInvalidInput, false},
		{"wrapped ErrForbidden", fmt.Errorf("user %s: %w", "123", domain.ErrForbidden), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.IsPermissionDenied(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAnonymous(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ErrInvalidToken", domain.ErrInvalidToken, true},
		{"ErrTokenExpired", domain.ErrTokenExpired, true},
		{"ErrSessionRevoked", domain.ErrSessionRevoked, true},
		{"ErrForbidden", domain.ErrForbidden, false},
		{"wrapped ErrSessionRevoked", fmt.Errorf("sid %s: %w", "abc", domain.ErrSessionRevoked), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.IsAnonymous(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}
