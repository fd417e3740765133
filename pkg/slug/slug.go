// Package slug turns display names into URL-safe identifiers.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// MaxAttempts bounds the suffix search in Unique.
const MaxAttempts = 1000

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases s, spells out "&" and collapses every other run of
// non [a-z0-9] characters into a single dash.
func Make(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", " and ")
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// EscapeRegex quotes every regex metacharacter in s.
func EscapeRegex(s string) string {
	return regexp.QuoteMeta(s)
}

// ExistsFunc reports whether a slug is already taken in the caller's scope.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns the first free slug among base, base-2, base-3, ...
// base falls back to source when empty. An empty normalized base yields "".
func Unique(ctx context.Context, source, base string, exists ExistsFunc) (string, error) {
	if strings.TrimSpace(base) == "" {
		base = source
	}
	normalized := Make(base)
	if normalized == "" {
		return "", nil
	}

	candidate := normalized
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if attempt > 1 {
			candidate = fmt.Sprintf("%s-%d", normalized, attempt)
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", normalized, MaxAttempts)
}
