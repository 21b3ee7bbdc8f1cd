// Package routes classifies request paths into access-control categories.
// The table is immutable after construction; classification is a pure
// function and may be called concurrently without coordination.
package routes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slotwise/edge-gateway/internal/domain"
)

// Categories holds the independent classification flags for a request path.
// BookingLink is mutually exclusive with Public, Protected, and Admin:
// a booking slug can never shadow a reserved route.
type Categories struct {
	Public      bool
	Auth        bool
	Protected   bool
	Admin       bool
	BookingLink bool
}

// Config holds the prefix tables the classifier is built from. All prefixes
// must be absolute paths. Auth prefixes must be covered by a public prefix:
// the auth flag exists to detect already-authenticated users visiting a
// login/registration page, which is only meaningful on public routes.
type Config struct {
	PublicPrefixes    []string
	AuthPrefixes      []string
	ProtectedPrefixes []string
	AdminPrefixes     []string

	// ExcludedPrefixes and ExcludedExtensions define the paths that the
	// policy engine never sees at all: static assets, image optimization
	// endpoints, favicon, manifest.
	ExcludedPrefixes   []string
	ExcludedExtensions []string
}

// Table is the immutable route classification table.
type Table struct {
	public      []string
	auth        []string
	protected   []string
	admin       []string
	excluded    []string
	excludedExt []string
}

// bookingSlug matches an organizer slug segment: one or more lowercase
// letters, digits, or hyphens.
var bookingSlug = regexp.MustCompile(`^[a-z0-9-]+$`)

// NewTable validates cfg and builds an immutable Table.
func NewTable(cfg Config) (*Table, error) {
	for _, group := range []struct {
		name     string
		prefixes []string
	}{
		{"public", cfg.PublicPrefixes},
		{"auth", cfg.AuthPrefixes},
		{"protected", cfg.ProtectedPrefixes},
		{"admin", cfg.AdminPrefixes},
		{"excluded", cfg.ExcludedPrefixes},
	} {
		if len(group.prefixes) == 0 && group.name != "excluded" {
			return nil, fmt.Errorf("%w: routes.%s_prefixes is empty", domain.ErrConfigRequired, group.name)
		}
		for _, p := range group.prefixes {
			if !strings.HasPrefix(p, "/") {
				return nil, fmt.Errorf("%w: routes.%s prefix %q is not absolute", domain.ErrConfigInvalid, group.name, p)
			}
		}
	}

	// Auth prefixes must be a subset of the public table, otherwise an
	// anonymous user could be locked out of the login page itself.
	for _, a := range cfg.AuthPrefixes {
		if !hasAnyPrefix(a, cfg.PublicPrefixes) {
			return nil, fmt.Errorf("%w: auth prefix %q is not covered by any public prefix", domain.ErrConfigInvalid, a)
		}
	}

	for _, ext := range cfg.ExcludedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return nil, fmt.Errorf("%w: excluded extension %q must start with a dot", domain.ErrConfigInvalid, ext)
		}
	}

	return &Table{
		public:      append([]string(nil), cfg.PublicPrefixes...),
		auth:        append([]string(nil), cfg.AuthPrefixes...),
		protected:   append([]string(nil), cfg.ProtectedPrefixes...),
		admin:       append([]string(nil), cfg.AdminPrefixes...),
		excluded:    append([]string(nil), cfg.ExcludedPrefixes...),
		excludedExt: append([]string(nil), cfg.ExcludedExtensions...),
	}, nil
}

// Classify determines which categories path belongs to. It is total over
// all string inputs: unmatched paths simply have all flags false.
func (t *Table) Classify(path string) Categories {
	c := Categories{
		Public:    path == "/" || hasAnyPrefix(path, t.public),
		Auth:      hasAnyPrefix(path, t.auth),
		Protected: hasAnyPrefix(path, t.protected),
		Admin:     hasAnyPrefix(path, t.admin),
	}

	// Static categories take precedence over the booking-link heuristic.
	if !c.Public && !c.Protected && !c.Admin {
		c.BookingLink = isBookingLink(path)
	}

	return c
}

// Applies reports whether the policy engine handles path at all. Static
// assets, image optimization endpoints, favicon, manifest, and image
// files bypass the engine entirely.
func (t *Table) Applies(path string) bool {
	if hasAnyPrefix(path, t.excluded) {
		return false
	}
	for _, ext := range t.excludedExt {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}
	return true
}

// isBookingLink applies the public organizer-booking URL heuristic:
// /{slug} or /{slug}/{eventTypeSlug} where slug is lowercase alphanumeric
// plus hyphens. Best effort only - a matching slug that does not exist is
// expected to 404 downstream, not be rejected here.
func isBookingLink(path string) bool {
	if len(path) > domain.MaxPathLength {
		return false
	}
	segments := splitSegments(path)
	if len(segments) < 1 || len(segments) > 2 {
		return false
	}
	return bookingSlug.MatchString(segments[0])
}

func splitSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
