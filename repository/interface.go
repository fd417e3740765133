package repository

import (
	"context"
	"errors"

	"github.com/Narayandwivedi/abcdmarket/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned by single-document lookups that match nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

// FindOptions is the sort and pagination window of a product query.
type FindOptions struct {
	Sort  bson.D
	Skip  int64
	Limit int64
}

// ListFilter scopes category, sub-category and hero listings. Results are
// always ordered by priority, then creation time.
type ListFilter struct {
	ActiveOnly bool
	Limit      int
	// ParentID restricts sub-category listings to one category.
	ParentID *primitive.ObjectID
}

// ProductSearcher runs catalog queries built by the services package.
type ProductSearcher interface {
	Find(ctx context.Context, filter bson.M, opts FindOptions) ([]models.Product, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	// Facets returns the distinct values of each field over filter.
	Facets(ctx context.Context, filter bson.M, fields ...string) (map[string][]string, error)
}

// ProductLookup answers the existence checks the cart needs.
type ProductLookup interface {
	ExistsByID(ctx context.Context, id primitive.ObjectID) (bool, error)
	// FindActiveIDs returns the subset of ids that exist and are active.
	FindActiveIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

// ProductRepo is the full product store.
type ProductRepo interface {
	ProductSearcher
	ProductLookup
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	InsertMany(ctx context.Context, products []models.Product) (int, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error)
	UpdateForSeller(ctx context.Context, id, sellerID primitive.ObjectID, set bson.M, unset []string) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	DeleteForSeller(ctx context.Context, id, sellerID primitive.ObjectID) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// CategoryReader resolves categories for scoped catalog listings.
type CategoryReader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindActiveBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, f ListFilter) ([]models.Category, error)
}

type CategoryRepo interface {
	CategoryReader
	SlugExists(ctx context.Context, slug string, excludeID *primitive.ObjectID) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// SubCategoryReader resolves sub-categories within a parent category.
type SubCategoryReader interface {
	FindActiveBySlug(ctx context.Context, categoryID primitive.ObjectID, slug string) (*models.SubCategory, error)
	List(ctx context.Context, f ListFilter) ([]models.SubCategory, error)
}

type SubCategoryRepo interface {
	SubCategoryReader
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SubCategory, error)
	SlugExists(ctx context.Context, categoryID primitive.ObjectID, slug string, excludeID *primitive.ObjectID) (bool, error)
	Create(ctx context.Context, sub *models.SubCategory) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.SubCategory, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type HeroRepo interface {
	List(ctx context.Context, f ListFilter) ([]models.Hero, error)
	Create(ctx context.Context, hero *models.Hero) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Hero, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Orderable is the part of a sibling record the reorder operation checks.
type Orderable struct {
	ID       primitive.ObjectID
	ParentID *primitive.ObjectID
}

// PriorityStore assigns display order across one collection of siblings.
type PriorityStore interface {
	FindOrderable(ctx context.Context, ids []primitive.ObjectID) ([]Orderable, error)
	// ApplyPriorities sets priority = position+1 for every id.
	ApplyPriorities(ctx context.Context, ids []primitive.ObjectID) error
}

type UserRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	SaveCart(ctx context.Context, id primitive.ObjectID, cart models.Cart) error
}
