package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/pkg/slug"
	"github.com/Narayandwivedi/abcdmarket/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgCategoryNotFound = "Shop category not found"

// CategoryInput carries the fields of a create or partial update. Nil
// fields are left untouched.
type CategoryInput struct {
	Name        *string
	Slug        *string
	ImageURL    *string
	RedirectURL *string
	Priority    *int
	IsActive    *bool
}

type CategoryService struct {
	repo     repository.CategoryRepo
	ordering repository.PriorityStore
}

func NewCategoryService(repo repository.CategoryRepo, ordering repository.PriorityStore) *CategoryService {
	return &CategoryService{repo: repo, ordering: ordering}
}

// ListPublic returns active categories in display order.
func (s *CategoryService) ListPublic(ctx context.Context, limit *int) ([]models.Category, error) {
	return s.list(ctx, repository.ListFilter{
		ActiveOnly: true,
		Limit:      clampLimit(limit, CategoryListDefault, CategoryListMax),
	})
}

func (s *CategoryService) ListAll(ctx context.Context) ([]models.Category, error) {
	return s.list(ctx, repository.ListFilter{})
}

func (s *CategoryService) list(ctx context.Context, f repository.ListFilter) ([]models.Category, error) {
	categories, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	for i := range categories {
		categories[i].Slug = resolvedSlug(categories[i].Slug, categories[i].Name)
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name, imageURL := trimmed(in.Name), trimmed(in.ImageURL)
	if name == "" {
		return nil, apperrors.BadRequest("name is required")
	}
	if imageURL == "" {
		return nil, apperrors.BadRequest("imageUrl is required")
	}
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}

	unique, err := slug.Unique(ctx, name, normalizedSlug(in.Slug), s.slugTaken(nil))
	if err != nil {
		return nil, fmt.Errorf("generate category slug: %w", err)
	}

	category := &models.Category{
		Name:        name,
		Slug:        unique,
		ImageURL:    imageURL,
		RedirectURL: trimmed(in.RedirectURL),
		Priority:    DefaultPriority,
		IsActive:    true,
	}
	if in.Priority != nil {
		category.Priority = *in.Priority
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, writeError("create category", err, "Shop category already exists")
	}
	return category, nil
}

// Update applies in to the category. A new slug is generated, excluding the
// category itself, whenever the name or slug changes.
func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, in CategoryInput) (*models.Category, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgCategoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}

	set := bson.M{}
	name := trimmed(in.Name)
	if in.Name != nil {
		if name == "" {
			return nil, apperrors.BadRequest("name cannot be empty")
		}
		set[models.FieldName] = name
	}
	if in.ImageURL != nil {
		if trimmed(in.ImageURL) == "" {
			return nil, apperrors.BadRequest("imageUrl cannot be empty")
		}
		set[models.FieldImageURL] = trimmed(in.ImageURL)
	}
	if in.RedirectURL != nil {
		set[models.FieldRedirectURL] = trimmed(in.RedirectURL)
	}
	if in.Priority != nil {
		set[models.FieldPriority] = *in.Priority
	}
	if in.IsActive != nil {
		set[models.FieldIsActive] = *in.IsActive
	}

	if in.Name != nil || in.Slug != nil {
		base := firstNonEmpty(normalizedSlug(in.Slug), name, existing.Slug, existing.Name)
		unique, err := slug.Unique(ctx, firstNonEmpty(name, existing.Name), base, s.slugTaken(&existing.ID))
		if err != nil {
			return nil, fmt.Errorf("generate category slug: %w", err)
		}
		set[models.FieldSlug] = unique
	}

	updated, err := s.repo.Update(ctx, id, set)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgCategoryNotFound)
	}
	if err != nil {
		return nil, writeError("update category", err, "Shop category already exists")
	}
	updated.Slug = resolvedSlug(updated.Slug, updated.Name)
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if !deleted {
		return apperrors.NotFound(msgCategoryNotFound)
	}
	return nil
}

// Reorder sets category priorities from orderedIDs and returns every
// category in the new order.
func (s *CategoryService) Reorder(ctx context.Context, orderedIDs []string) ([]models.Category, error) {
	ids, err := ParseOrderedIDs(orderedIDs)
	if err != nil {
		return nil, err
	}
	if err := Reorder(ctx, s.ordering, ids, nil, "One or more categories were not found"); err != nil {
		return nil, err
	}
	return s.ListAll(ctx)
}

func (s *CategoryService) slugTaken(excludeID *primitive.ObjectID) slug.ExistsFunc {
	return func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate, excludeID)
	}
}
