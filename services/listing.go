package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/pkg/slug"
	"github.com/Narayandwivedi/abcdmarket/repository"
)

// Public listing windows.
const (
	CategoryListDefault    = 30
	CategoryListMax        = 100
	SubCategoryListDefault = 100
	SubCategoryListMax     = 200
	HeroListDefault        = 4
	HeroListMax            = 20

	DefaultPriority = 1
)

// clampLimit applies def when limit is nil, then bounds it to [1, max].
func clampLimit(limit *int, def, max int) int {
	n := def
	if limit != nil {
		n = *limit
	}
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

// trimmed returns the trimmed value of an optional string field.
func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// normalizedSlug applies slug.Make to an optional client slug.
func normalizedSlug(v *string) string {
	if v == nil {
		return ""
	}
	return slug.Make(*v)
}

func resolvedSlug(stored, name string) string {
	if stored != "" {
		return stored
	}
	return slug.Make(name)
}

// writeError maps store failures of admin writes onto the error taxonomy.
func writeError(op string, err error, duplicateMsg string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.BadRequest(duplicateMsg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func validatePriority(p *int) error {
	if p != nil && *p < 0 {
		return apperrors.BadRequest("priority cannot be negative")
	}
	return nil
}
