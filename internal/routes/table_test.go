package routes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/edge-gateway/internal/domain"
	"github.com/slotwise/edge-gateway/internal/routes"
)

func testConfig() routes.Config {
	return routes.Config{
		PublicPrefixes: []string{
			"/home", "/auth/login", "/auth/register", "/auth/verify-email",
			"/auth/password-reset", "/auth/sso", "/error",
			"/api/auth", "/api/backend",
		},
		AuthPrefixes:      []string{"/auth/login", "/auth/register", "/auth/sso"},
		ProtectedPrefixes: []string{"/dashboard", "/event-types", "/bookings", "/availability", "/integrations", "/workflows", "/notifications", "/contacts", "/analytics", "/settings", "/profile"},
		AdminPrefixes:     []string{"/admin", "/user-management", "/system"},
		ExcludedPrefixes:  []string{"/static/", "/assets/", "/_image", "/favicon.ico", "/manifest.webmanifest"},
		ExcludedExtensions: []string{
			".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp",
		},
	}
}

func newTestTable(t *testing.T) *routes.Table {
	t.Helper()
	table, err := routes.NewTable(testConfig())
	require.NoError(t, err)
	return table
}

func TestNewTable(t *testing.T) {
	t.Run("valid config succeeds", func(t *testing.T) {
		_, err := routes.NewTable(testConfig())
		require.NoError(t, err)
	})

	t.Run("empty public prefixes fails", func(t *testing.T) {
		cfg := testConfig()
		cfg.PublicPrefixes = nil
		_, err := routes.NewTable(cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigRequired)
	})

	t.Run("relative prefix fails", func(t *testing.T) {
		cfg := testConfig()
		cfg.ProtectedPrefixes = append(cfg.ProtectedPrefixes, "dashboard")
		_, err := routes.NewTable(cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigInvalid)
	})

	t.Run("auth prefix outside public table fails", func(t *testing.T) {
		cfg := testConfig()
		cfg.AuthPrefixes = append(cfg.AuthPrefixes, "/secret-login")
		_, err := routes.NewTable(cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigInvalid)
	})

	t.Run("extension without dot fails", func(t *testing.T) {
		cfg := testConfig()
		cfg.ExcludedExtensions = append(cfg.ExcludedExtensions, "png")
		_, err := routes.NewTable(cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigInvalid)
	})
}

func TestClassify(t *testing.T) {
	table := newTestTable(t)

	tests := []struct {
		name string
		path string
		want routes.Categories
	}{
		{"root is public", "/", routes.Categories{Public: true}},
		{"home is public", "/home", routes.Categories{Public: true}},
		{"login is public and auth", "/auth/login", routes.Categories{Public: true, Auth: true}},
		{"register is public and auth", "/auth/register", routes.Categories{Public: true, Auth: true}},
		{"sso callback is public and auth", "/auth/sso/callback", routes.Categories{Public: true, Auth: true}},
		{"verify-email is public only", "/auth/verify-email", routes.Categories{Public: true}},
		{"password reset is public", "/auth/password-reset/confirm", routes.Categories{Public: true}},
		{"auth proxy API is public", "/api/auth/session", routes.Categories{Public: true}},
		{"backend proxy API is public", "/api/backend/event-types", routes.Categories{Public: true}},
		{"dashboard is protected", "/dashboard", routes.Categories{Protected: true}},
		{"nested dashboard is protected", "/dashboard/upcoming", routes.Categories{Protected: true}},
		{"workflows is protected", "/workflows/42/edit", routes.Categories{Protected: true}},
		{"settings is protected", "/settings/security", routes.Categories{Protected: true}},
		{"admin is admin", "/admin", routes.Categories{Admin: true}},
		{"admin users is admin", "/admin/users", routes.Categories{Admin: true}},
		{"user management is admin", "/user-management", routes.Categories{Admin: true}},
		{"system is admin", "/system/flags", routes.Categories{Admin: true}},

		// Booking-link heuristic
		{"single slug is booking link", "/jane-doe", routes.Categories{BookingLink: true}},
		{"slug plus event type is booking link", "/jane-doe/intro-call", routes.Categories{BookingLink: true}},
		{"numeric slug is booking link", "/team42", routes.Categories{BookingLink: true}},
		{"trailing slash still matches", "/jane-doe/", routes.Categories{BookingLink: true}},
		{"three segments is not a booking link", "/jane-doe/intro-call/extra", routes.Categories{}},
		{"uppercase slug is not a booking link", "/JaneDoe", routes.Categories{}},
		{"underscore slug is not a booking link", "/jane_doe", routes.Categories{}},

		// Precedence: reserved routes never classify as booking links
		{"dashboard never a booking link", "/dashboard", routes.Categories{Protected: true}},
		{"admin never a booking link", "/admin", routes.Categories{Admin: true}},
		{"home never a booking link", "/home", routes.Categories{Public: true}},

		{"unmatched path has all flags false", "/%41weird", routes.Categories{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Classify(tt.path))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	table := newTestTable(t)

	// Same input, same output - classification holds no state.
	first := table.Classify("/jane-doe/intro-call")
	second := table.Classify("/jane-doe/intro-call")
	assert.Equal(t, first, second)
}

func TestApplies(t *testing.T) {
	table := newTestTable(t)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"page request applies", "/dashboard", true},
		{"booking link applies", "/jane-doe", true},
		{"root applies", "/", true},
		{"static asset excluded", "/static/css/app.css", false},
		{"bundled asset excluded", "/assets/chunk-1a2b.js", false},
		{"image optimizer excluded", "/_image?url=%2Fbanner.png", false},
		{"favicon excluded", "/favicon.ico", false},
		{"manifest excluded", "/manifest.webmanifest", false},
		{"png excluded by extension", "/logos/acme.png", false},
		{"svg excluded by extension", "/icons/close.svg", false},
		{"path merely containing extension applies", "/jane-doe/png-workshop", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Applies(tt.path))
		})
	}
}
