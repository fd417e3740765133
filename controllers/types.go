package controllers

import (
	"context"
	"time"

	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default configuration values
const (
	DefaultCacheTTL = 10 * time.Minute
)

// CacheInvalidator drops cached catalog listings after a write that can
// change them. *CacheManager implements it.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// CatalogServiceAPI defines the read-side catalog operations.
type CatalogServiceAPI interface {
	Search(ctx context.Context, p services.SearchParams) (*services.SearchResult, error)
	ListByCategorySlug(ctx context.Context, p services.CategorySlugParams) (*services.CategoryListing, error)
	ListByCategoryName(ctx context.Context, p services.CategoryNameParams) (*services.SearchResult, error)
}

// ProductServiceAPI defines seller and admin product operations.
type ProductServiceAPI interface {
	AddProduct(ctx context.Context, sellerID primitive.ObjectID, in services.NewProduct) (*models.Product, error)
	SellerProducts(ctx context.Context, sellerID primitive.ObjectID, page, limit int) (*services.SellerPage, error)
	UpdateSellerPrice(ctx context.Context, sellerID, id primitive.ObjectID, in services.PriceUpdate) (*models.Product, error)
	DeleteSellerProduct(ctx context.Context, sellerID, id primitive.ObjectID) error
	EditProduct(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	GetProduct(ctx context.Context, idOrSlug string) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
}

type CartServiceAPI interface {
	GetCart(ctx context.Context, userID primitive.ObjectID) (*services.CartView, error)
	AddToCart(ctx context.Context, userID primitive.ObjectID, in services.CartInput) (*services.CartView, error)
	UpdateQuantity(ctx context.Context, userID primitive.ObjectID, in services.CartInput) (*services.CartView, error)
	RemoveFromCart(ctx context.Context, userID primitive.ObjectID, productID string) (*services.CartView, error)
	ClearCart(ctx context.Context, userID primitive.ObjectID) (*services.CartView, error)
	SyncCart(ctx context.Context, userID primitive.ObjectID, lines []services.CartInput) (int, *services.CartView, error)
}

type CategoryServiceAPI interface {
	ListPublic(ctx context.Context, limit *int) ([]models.Category, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, in services.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, in services.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Reorder(ctx context.Context, orderedIDs []string) ([]models.Category, error)
}

type SubCategoryServiceAPI interface {
	ListPublic(ctx context.Context, categoryID string, limit *int) ([]models.SubCategoryView, error)
	ListAll(ctx context.Context, categoryID string) ([]models.SubCategoryView, error)
	Create(ctx context.Context, in services.SubCategoryInput) (*models.SubCategoryView, error)
	Update(ctx context.Context, id primitive.ObjectID, in services.SubCategoryInput) (*models.SubCategoryView, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Reorder(ctx context.Context, orderedIDs []string, categoryID string) ([]models.SubCategoryView, error)
}

type HeroServiceAPI interface {
	ListPublic(ctx context.Context, limit *int) ([]models.Hero, error)
	ListAll(ctx context.Context) ([]models.Hero, error)
	Create(ctx context.Context, in services.HeroInput) (*models.Hero, error)
	Update(ctx context.Context, id primitive.ObjectID, in services.HeroInput) (*models.Hero, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Reorder(ctx context.Context, orderedIDs []string) ([]models.Hero, error)
}
