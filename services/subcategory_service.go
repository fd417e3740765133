package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/pkg/slug"
	"github.com/Narayandwivedi/abcdmarket/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgSubCategoryNotFound = "Sub category not found"
	msgParentNotFound      = "Category not found"
	msgInvalidCategoryID   = "Invalid category id"
)

// SubCategoryInput mirrors CategoryInput plus the parent category id.
type SubCategoryInput struct {
	CategoryID  *string
	Name        *string
	Slug        *string
	ImageURL    *string
	RedirectURL *string
	Priority    *int
	IsActive    *bool
}

type SubCategoryService struct {
	repo       repository.SubCategoryRepo
	categories repository.CategoryReader
	ordering   repository.PriorityStore
}

func NewSubCategoryService(repo repository.SubCategoryRepo, categories repository.CategoryReader, ordering repository.PriorityStore) *SubCategoryService {
	return &SubCategoryService{repo: repo, categories: categories, ordering: ordering}
}

// ListPublic returns active sub-categories, optionally of one category,
// with their parent expanded.
func (s *SubCategoryService) ListPublic(ctx context.Context, categoryID string, limit *int) ([]models.SubCategoryView, error) {
	parent, err := optionalCategoryID(categoryID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ListFilter{
		ActiveOnly: true,
		ParentID:   parent,
		Limit:      clampLimit(limit, SubCategoryListDefault, SubCategoryListMax),
	}, false)
}

// ListAll is the admin listing; parents include their priority.
func (s *SubCategoryService) ListAll(ctx context.Context, categoryID string) ([]models.SubCategoryView, error) {
	parent, err := optionalCategoryID(categoryID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ListFilter{ParentID: parent}, true)
}

func (s *SubCategoryService) Create(ctx context.Context, in SubCategoryInput) (*models.SubCategoryView, error) {
	if trimmed(in.CategoryID) == "" {
		return nil, apperrors.BadRequest("category is required")
	}
	parent, err := s.requireCategory(ctx, trimmed(in.CategoryID))
	if err != nil {
		return nil, err
	}

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

	unique, err := slug.Unique(ctx, name, normalizedSlug(in.Slug), s.slugTaken(parent.ID, nil))
	if err != nil {
		return nil, fmt.Errorf("generate sub category slug: %w", err)
	}

	sub := &models.SubCategory{
		CategoryID:  parent.ID,
		Name:        name,
		Slug:        unique,
		ImageURL:    imageURL,
		RedirectURL: trimmed(in.RedirectURL),
		Priority:    DefaultPriority,
		IsActive:    true,
	}
	if in.Priority != nil {
		sub.Priority = *in.Priority
	}
	if in.IsActive != nil {
		sub.IsActive = *in.IsActive
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, writeError("create sub category", err, "Sub category already exists in this category")
	}
	return &models.SubCategoryView{
		SubCategory: *sub,
		Category:    &models.CategoryRef{ID: parent.ID, Name: parent.Name},
	}, nil
}

// Update applies in. Moving to another category or renaming regenerates
// the slug within the resulting parent.
func (s *SubCategoryService) Update(ctx context.Context, id primitive.ObjectID, in SubCategoryInput) (*models.SubCategoryView, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgSubCategoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find sub category: %w", err)
	}

	set := bson.M{}
	parentID := existing.CategoryID
	if in.CategoryID != nil {
		parent, err := s.requireCategory(ctx, trimmed(in.CategoryID))
		if err != nil {
			return nil, err
		}
		parentID = parent.ID
		set[models.FieldCategory] = parentID
	}
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}

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

	if in.Name != nil || in.Slug != nil || in.CategoryID != nil {
		base := firstNonEmpty(normalizedSlug(in.Slug), name, existing.Slug, existing.Name)
		unique, err := slug.Unique(ctx, firstNonEmpty(name, existing.Name), base, s.slugTaken(parentID, &existing.ID))
		if err != nil {
			return nil, fmt.Errorf("generate sub category slug: %w", err)
		}
		set[models.FieldSlug] = unique
	}

	updated, err := s.repo.Update(ctx, id, set)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgSubCategoryNotFound)
	}
	if err != nil {
		return nil, writeError("update sub category", err, "Sub category already exists in this category")
	}

	views, err := s.expand(ctx, []models.SubCategory{*updated}, false)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *SubCategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete sub category: %w", err)
	}
	if !deleted {
		return apperrors.NotFound(msgSubCategoryNotFound)
	}
	return nil
}

// Reorder sets priorities from orderedIDs. With categoryID every id must
// belong to that category, and only its sub-categories are returned.
func (s *SubCategoryService) Reorder(ctx context.Context, orderedIDs []string, categoryID string) ([]models.SubCategoryView, error) {
	ids, err := ParseOrderedIDs(orderedIDs)
	if err != nil {
		return nil, err
	}

	var parent *primitive.ObjectID
	if strings.TrimSpace(categoryID) != "" {
		category, err := s.requireCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		parent = &category.ID
	}

	if err := Reorder(ctx, s.ordering, ids, parent, "One or more sub categories were not found"); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ListFilter{ParentID: parent}, true)
}

func (s *SubCategoryService) list(ctx context.Context, f repository.ListFilter, withPriority bool) ([]models.SubCategoryView, error) {
	subs, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list sub categories: %w", err)
	}
	return s.expand(ctx, subs, withPriority)
}

// expand attaches each parent category's identity. Sub-categories whose
// parent is gone keep a nil category.
func (s *SubCategoryService) expand(ctx context.Context, subs []models.SubCategory, withPriority bool) ([]models.SubCategoryView, error) {
	views := make([]models.SubCategoryView, 0, len(subs))
	if len(subs) == 0 {
		return views, nil
	}

	categories, err := s.categories.List(ctx, repository.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("load parent categories: %w", err)
	}
	parents := make(map[primitive.ObjectID]models.Category, len(categories))
	for _, c := range categories {
		parents[c.ID] = c
	}

	for _, sub := range subs {
		sub.Slug = resolvedSlug(sub.Slug, sub.Name)
		view := models.SubCategoryView{SubCategory: sub}
		if c, ok := parents[sub.CategoryID]; ok {
			ref := &models.CategoryRef{ID: c.ID, Name: c.Name}
			if withPriority {
				p := c.Priority
				ref.Priority = &p
			}
			view.Category = ref
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *SubCategoryService) requireCategory(ctx context.Context, raw string) (*models.Category, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return nil, apperrors.BadRequest(msgInvalidCategoryID)
	}
	category, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgParentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

func (s *SubCategoryService) slugTaken(categoryID primitive.ObjectID, excludeID *primitive.ObjectID) slug.ExistsFunc {
	return func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, categoryID, candidate, excludeID)
	}
}

func optionalCategoryID(raw string) (*primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, apperrors.BadRequest(msgInvalidCategoryID)
	}
	return &id, nil
}
