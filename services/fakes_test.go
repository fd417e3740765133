package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStore = errors.New("store unavailable")

// fakeProductSearcher returns canned results and records what it was asked.
type fakeProductSearcher struct {
	mu          sync.Mutex
	products    []models.Product
	total       int64
	facets      map[string][]string
	findErr     error
	lastFilter  bson.M
	lastOpts    repository.FindOptions
	facetFields []string
	facetCalls  int
}

func (f *fakeProductSearcher) Find(_ context.Context, filter bson.M, opts repository.FindOptions) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter, f.lastOpts = filter, opts
	return f.products, f.findErr
}

func (f *fakeProductSearcher) Count(_ context.Context, _ bson.M) (int64, error) {
	return f.total, nil
}

func (f *fakeProductSearcher) Facets(_ context.Context, _ bson.M, fields ...string) (map[string][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.facetCalls++
	f.facetFields = fields
	return f.facets, nil
}

type fakeCategoryRepo struct {
	items   []models.Category
	listErr error
}

func (f *fakeCategoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			c := f.items[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCategoryRepo) FindActiveBySlug(_ context.Context, slug string) (*models.Category, error) {
	for i := range f.items {
		if f.items[i].IsActive && f.items[i].Slug == slug {
			c := f.items[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCategoryRepo) List(_ context.Context, lf repository.ListFilter) ([]models.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Category{}
	for _, c := range f.items {
		if lf.ActiveOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if lf.Limit > 0 && len(out) > lf.Limit {
		out = out[:lf.Limit]
	}
	return out, nil
}

func (f *fakeCategoryRepo) SlugExists(_ context.Context, slug string, excludeID *primitive.ObjectID) (bool, error) {
	for _, c := range f.items {
		if c.Slug == slug && (excludeID == nil || c.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

// Create enforces the unique slug index the real collection carries.
func (f *fakeCategoryRepo) Create(_ context.Context, c *models.Category) error {
	for _, existing := range f.items {
		if c.Slug != "" && existing.Slug == c.Slug {
			return repository.ErrDuplicate
		}
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.items = append(f.items, *c)
	return nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error) {
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		c := &f.items[i]
		for k, v := range set {
			switch k {
			case models.FieldName:
				c.Name = v.(string)
			case models.FieldSlug:
				c.Slug = v.(string)
			case models.FieldImageURL:
				c.ImageURL = v.(string)
			case models.FieldRedirectURL:
				c.RedirectURL = v.(string)
			case models.FieldPriority:
				c.Priority = v.(int)
			case models.FieldIsActive:
				c.IsActive = v.(bool)
			}
		}
		out := *c
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeSubCategoryRepo struct {
	items []models.SubCategory
}

func (f *fakeSubCategoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.SubCategory, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			s := f.items[i]
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSubCategoryRepo) FindActiveBySlug(_ context.Context, categoryID primitive.ObjectID, slug string) (*models.SubCategory, error) {
	for i := range f.items {
		s := f.items[i]
		if s.IsActive && s.CategoryID == categoryID && s.Slug == slug {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSubCategoryRepo) List(_ context.Context, lf repository.ListFilter) ([]models.SubCategory, error) {
	out := []models.SubCategory{}
	for _, s := range f.items {
		if lf.ActiveOnly && !s.IsActive {
			continue
		}
		if lf.ParentID != nil && s.CategoryID != *lf.ParentID {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if lf.Limit > 0 && len(out) > lf.Limit {
		out = out[:lf.Limit]
	}
	return out, nil
}

func (f *fakeSubCategoryRepo) SlugExists(_ context.Context, categoryID primitive.ObjectID, slug string, excludeID *primitive.ObjectID) (bool, error) {
	for _, s := range f.items {
		if s.CategoryID == categoryID && s.Slug == slug && (excludeID == nil || s.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubCategoryRepo) Create(_ context.Context, s *models.SubCategory) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	f.items = append(f.items, *s)
	return nil
}

func (f *fakeSubCategoryRepo) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.SubCategory, error) {
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		s := &f.items[i]
		for k, v := range set {
			switch k {
			case models.FieldName:
				s.Name = v.(string)
			case models.FieldSlug:
				s.Slug = v.(string)
			case models.FieldCategory:
				s.CategoryID = v.(primitive.ObjectID)
			case models.FieldPriority:
				s.Priority = v.(int)
			case models.FieldIsActive:
				s.IsActive = v.(bool)
			}
		}
		out := *s
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSubCategoryRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
