package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/pkg/slug"
	"github.com/Narayandwivedi/abcdmarket/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// SearchResult is one page of a catalog query.
type SearchResult struct {
	Products   []models.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
	Facets     Facets
}

// CategorySlugParams scope a listing to a category, and optionally one of
// its sub-categories, addressed by URL slug.
type CategorySlugParams struct {
	CategorySlug    string
	SubCategorySlug string
	Brand           string
	MinPrice        *float64
	MaxPrice        *float64
	Sort            string
	Page            int
	Limit           int
}

type CategoryListing struct {
	SearchResult
	Category    models.CategoryRef
	SubCategory *models.CategoryRef
}

type CatalogService struct {
	products      repository.ProductSearcher
	categories    repository.CategoryReader
	subCategories repository.SubCategoryReader
}

func NewCatalogService(products repository.ProductSearcher, categories repository.CategoryReader, subCategories repository.SubCategoryReader) *CatalogService {
	return &CatalogService{
		products:      products,
		categories:    categories,
		subCategories: subCategories,
	}
}

// Search runs a free-text catalog query with facets over brand, category
// and sub-category.
func (s *CatalogService) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	page, limit := NormalizePage(p.Page, p.Limit, DefaultSearchLimit)
	return s.query(ctx, BuildSearchFilter(p), p.Sort, page, limit,
		models.FieldBrand, models.FieldCategory, models.FieldSubCategory)
}

// ListByCategorySlug resolves the slugs and lists the active products whose
// category (and sub-category) names match exactly, ignoring case.
func (s *CatalogService) ListByCategorySlug(ctx context.Context, p CategorySlugParams) (*CategoryListing, error) {
	category, err := s.ResolveCategorySlug(ctx, p.CategorySlug)
	if err != nil {
		return nil, err
	}

	filter := BuildSearchFilter(SearchParams{Brand: p.Brand, MinPrice: p.MinPrice, MaxPrice: p.MaxPrice})
	filter[models.FieldCategory] = exactName(category.Name)
	facetFields := []string{models.FieldBrand, models.FieldSubCategory}

	listing := &CategoryListing{Category: refOf(category.ID, category.Name, category.Slug)}

	if strings.TrimSpace(p.SubCategorySlug) != "" {
		sub, err := s.ResolveSubCategorySlug(ctx, category.ID, p.SubCategorySlug)
		if err != nil {
			return nil, err
		}
		filter[models.FieldSubCategory] = exactName(sub.Name)
		facetFields = []string{models.FieldBrand}
		ref := refOf(sub.ID, sub.Name, sub.Slug)
		listing.SubCategory = &ref
	}

	page, limit := NormalizePage(p.Page, p.Limit, DefaultCategoryLimit)
	result, err := s.query(ctx, filter, p.Sort, page, limit, facetFields...)
	if err != nil {
		return nil, err
	}
	listing.SearchResult = *result
	return listing, nil
}

// CategoryNameParams address a legacy listing by the stored category and
// sub-category names.
type CategoryNameParams struct {
	Category    string
	SubCategory string
	Brand       string
	MinPrice    *float64
	MaxPrice    *float64
	Page        int
	Limit       int
}

// ListByCategoryName lists active products whose category (and optional
// sub-category) equals the given names exactly, newest first, without facets.
func (s *CatalogService) ListByCategoryName(ctx context.Context, p CategoryNameParams) (*SearchResult, error) {
	filter := BuildSearchFilter(SearchParams{Brand: p.Brand, MinPrice: p.MinPrice, MaxPrice: p.MaxPrice})
	filter[models.FieldCategory] = strings.TrimSpace(p.Category)
	if sub := strings.TrimSpace(p.SubCategory); sub != "" {
		filter[models.FieldSubCategory] = sub
	}
	page, limit := NormalizePage(p.Page, p.Limit, DefaultSearchLimit)
	return s.query(ctx, filter, SortNewest, page, limit)
}

// ResolveCategorySlug finds the active category for a URL slug: first by
// stored slug, then by recomputing each active candidate's slug.
func (s *CatalogService) ResolveCategorySlug(ctx context.Context, raw string) (*models.Category, error) {
	want := slug.Make(decodeSlug(raw))
	if want == "" {
		return nil, apperrors.NotFound("Category not found")
	}

	category, err := s.categories.FindActiveBySlug(ctx, want)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}

	candidates, err := s.categories.List(ctx, repository.ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	for i := range candidates {
		if slug.Make(firstNonEmpty(candidates[i].Slug, candidates[i].Name)) == want {
			return &candidates[i], nil
		}
	}
	return nil, apperrors.NotFound("Category not found")
}

// ResolveSubCategorySlug is ResolveCategorySlug scoped to one parent.
func (s *CatalogService) ResolveSubCategorySlug(ctx context.Context, categoryID primitive.ObjectID, raw string) (*models.SubCategory, error) {
	want := slug.Make(decodeSlug(raw))
	if want == "" {
		return nil, apperrors.NotFound("Sub category not found")
	}

	sub, err := s.subCategories.FindActiveBySlug(ctx, categoryID, want)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find sub category by slug: %w", err)
	}

	candidates, err := s.subCategories.List(ctx, repository.ListFilter{ActiveOnly: true, ParentID: &categoryID})
	if err != nil {
		return nil, fmt.Errorf("list sub categories: %w", err)
	}
	for i := range candidates {
		if slug.Make(firstNonEmpty(candidates[i].Slug, candidates[i].Name)) == want {
			return &candidates[i], nil
		}
	}
	return nil, apperrors.NotFound("Sub category not found")
}

// query fetches the page and the total concurrently, then the facets when
// anything matched.
func (s *CatalogService) query(ctx context.Context, filter bson.M, sortMode string, page, limit int, facetFields ...string) (*SearchResult, error) {
	var (
		products []models.Product
		total    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.Find(gctx, filter, repository.FindOptions{
			Sort:  BuildSort(sortMode),
			Skip:  Skip(page, limit),
			Limit: int64(limit),
		})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.products.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	if products == nil {
		products = []models.Product{}
	}
	result := &SearchResult{
		Products:   products,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
	if total == 0 || len(facetFields) == 0 {
		return result, nil
	}

	values, err := s.products.Facets(ctx, filter, facetFields...)
	if err != nil {
		return nil, fmt.Errorf("aggregate facets: %w", err)
	}
	result.Facets = Facets{
		Brands:        NormalizeFacetValues(values[models.FieldBrand]),
		Categories:    NormalizeFacetValues(values[models.FieldCategory]),
		SubCategories: NormalizeFacetValues(values[models.FieldSubCategory]),
	}
	return result, nil
}

func refOf(id primitive.ObjectID, name, storedSlug string) models.CategoryRef {
	return models.CategoryRef{ID: id, Name: name, Slug: firstNonEmpty(storedSlug, slug.Make(name))}
}

func decodeSlug(raw string) string {
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
