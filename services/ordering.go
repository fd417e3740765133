package services

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseOrderedIDs checks a reorder request: non-empty, every id well formed,
// no duplicates. Checks run in that order and stop at the first failure.
func ParseOrderedIDs(raw []string) ([]primitive.ObjectID, error) {
	if len(raw) == 0 {
		return nil, apperrors.BadRequest("orderedIds must be a non-empty array")
	}

	ids := make([]primitive.ObjectID, len(raw))
	for i, s := range raw {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
		if err != nil {
			return nil, apperrors.BadRequest("orderedIds contains invalid id values")
		}
		ids[i] = id
	}

	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, apperrors.BadRequest("orderedIds contains duplicate ids")
		}
		seen[id] = true
	}
	return ids, nil
}

// Reorder assigns priority = position+1 to ids after confirming that every
// id exists and, when parentID is set, shares that parent. Nothing is
// written unless every check passes.
func Reorder(ctx context.Context, store repository.PriorityStore, ids []primitive.ObjectID, parentID *primitive.ObjectID, notFoundMsg string) error {
	found, err := store.FindOrderable(ctx, ids)
	if err != nil {
		return fmt.Errorf("load records to reorder: %w", err)
	}
	if len(found) != len(ids) {
		return apperrors.NotFound(notFoundMsg)
	}

	if parentID != nil {
		for _, o := range found {
			if o.ParentID == nil || *o.ParentID != *parentID {
				return apperrors.BadRequest("orderedIds must belong to the provided category")
			}
		}
	}

	if err := store.ApplyPriorities(ctx, ids); err != nil {
		return fmt.Errorf("apply priorities: %w", err)
	}
	return nil
}
