package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgHeroNotFound = "Hero not found"

type HeroInput struct {
	ImageURL *string
	LinkURL  *string
	Title    *string
	Priority *int
	IsActive *bool
}

type HeroService struct {
	repo     repository.HeroRepo
	ordering repository.PriorityStore
}

func NewHeroService(repo repository.HeroRepo, ordering repository.PriorityStore) *HeroService {
	return &HeroService{repo: repo, ordering: ordering}
}

func (s *HeroService) ListPublic(ctx context.Context, limit *int) ([]models.Hero, error) {
	heroes, err := s.repo.List(ctx, repository.ListFilter{
		ActiveOnly: true,
		Limit:      clampLimit(limit, HeroListDefault, HeroListMax),
	})
	if err != nil {
		return nil, fmt.Errorf("list heroes: %w", err)
	}
	return heroes, nil
}

func (s *HeroService) ListAll(ctx context.Context) ([]models.Hero, error) {
	heroes, err := s.repo.List(ctx, repository.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list heroes: %w", err)
	}
	return heroes, nil
}

// Create stores a banner. Priority defaults to 1 and the banner is active
// unless told otherwise.
func (s *HeroService) Create(ctx context.Context, in HeroInput) (*models.Hero, error) {
	imageURL := trimmed(in.ImageURL)
	if imageURL == "" {
		return nil, apperrors.BadRequest("imageUrl is required")
	}
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}

	hero := &models.Hero{
		ImageURL: imageURL,
		LinkURL:  trimmed(in.LinkURL),
		Title:    trimmed(in.Title),
		Priority: DefaultPriority,
		IsActive: true,
	}
	if in.Priority != nil {
		hero.Priority = *in.Priority
	}
	if in.IsActive != nil {
		hero.IsActive = *in.IsActive
	}

	if err := s.repo.Create(ctx, hero); err != nil {
		return nil, fmt.Errorf("create hero: %w", err)
	}
	return hero, nil
}

func (s *HeroService) Update(ctx context.Context, id primitive.ObjectID, in HeroInput) (*models.Hero, error) {
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}

	set := bson.M{}
	if in.ImageURL != nil {
		if trimmed(in.ImageURL) == "" {
			return nil, apperrors.BadRequest("imageUrl cannot be empty")
		}
		set[models.FieldImageURL] = trimmed(in.ImageURL)
	}
	if in.LinkURL != nil {
		set[models.FieldLinkURL] = trimmed(in.LinkURL)
	}
	if in.Title != nil {
		set[models.FieldTitle] = trimmed(in.Title)
	}
	if in.Priority != nil {
		set[models.FieldPriority] = *in.Priority
	}
	if in.IsActive != nil {
		set[models.FieldIsActive] = *in.IsActive
	}

	hero, err := s.repo.Update(ctx, id, set)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgHeroNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update hero: %w", err)
	}
	return hero, nil
}

func (s *HeroService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete hero: %w", err)
	}
	if !deleted {
		return apperrors.NotFound(msgHeroNotFound)
	}
	return nil
}

func (s *HeroService) Reorder(ctx context.Context, orderedIDs []string) ([]models.Hero, error) {
	ids, err := ParseOrderedIDs(orderedIDs)
	if err != nil {
		return nil, err
	}
	if err := Reorder(ctx, s.ordering, ids, nil, "One or more heroes were not found"); err != nil {
		return nil, err
	}
	return s.ListAll(ctx)
}
