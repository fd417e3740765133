package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/pkg/slug"
	"github.com/Narayandwivedi/abcdmarket/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultSellerListLimit = 50
	DefaultWarrantyYears   = 1.0

	msgSellerProductNotFound = "Product not found for this seller"
	msgProductSlugTaken      = "Product slug already exists"
)

// NewProduct is a seller submission. The optional flags distinguish an
// explicit false or zero from an omitted field.
type NewProduct struct {
	Product    models.Product
	Warranty   *float64
	IsActive   *bool
	IsFeatured *bool
}

// PriceUpdate changes a seller's product price. When OriginalPriceSet is
// true a nil OriginalPrice clears the stored value.
type PriceUpdate struct {
	Price            *float64
	OriginalPrice    *float64
	OriginalPriceSet bool
}

// SellerPage is one page of a seller's own products.
type SellerPage struct {
	Products   []models.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// editableFields are the product fields an admin edit may set, mapped to
// how their JSON value is checked.
var editableFields = map[string]fieldKind{
	models.FieldSlug:           kindSlug,
	models.FieldSEOTitle:       kindRequiredText,
	models.FieldDescription:    kindText,
	models.FieldCategory:       kindText,
	models.FieldSubCategory:    kindText,
	models.FieldBrand:          kindText,
	models.FieldModel:          kindText,
	"sku":                      kindText,
	models.FieldPrice:          kindNonNegative,
	"originalPrice":            kindNonNegative,
	"weight":                   kindNonNegative,
	"stockQuantity":            kindCount,
	"warranty":                 kindNonNegative,
	"dimensions":               kindAny,
	"images":                   kindAny,
	models.FieldSpecifications: kindAny,
	"features":                 kindAny,
	"metaTitle":                kindText,
	"metaDescription":          kindText,
	models.FieldKeywords:       kindAny,
	"serviceOptions":           kindAny,
	models.FieldIsActive:       kindBool,
	"isFeatured":               kindBool,
	"availability":             kindText,
}

type fieldKind int

const (
	kindAny fieldKind = iota
	kindText
	kindRequiredText
	kindSlug
	kindNonNegative
	kindCount
	kindBool
)

// sellerAliases are the payload keys older admin clients used to carry the
// owning seller.
var sellerAliases = []string{models.FieldSellerID, "seller", "sellerInfo", "vendor"}

type ProductService struct {
	repo repository.ProductRepo
}

func NewProductService(repo repository.ProductRepo) *ProductService {
	return &ProductService{repo: repo}
}

// AddProduct stores a seller's product. The authenticated seller always
// becomes the owner regardless of the payload.
func (s *ProductService) AddProduct(ctx context.Context, sellerID primitive.ObjectID, in NewProduct) (*models.Product, error) {
	p := in.Product
	p.ID = primitive.NilObjectID
	p.SEOTitle = strings.TrimSpace(p.SEOTitle)
	if p.SEOTitle == "" {
		return nil, apperrors.BadRequest("Product title (seoTitle) is required")
	}
	if p.Price < 0 || math.IsNaN(p.Price) {
		return nil, apperrors.BadRequest("Valid price is required")
	}
	p.Slug = slug.Make(p.Slug)

	owner := sellerID
	p.SellerID = &owner
	p.Warranty = DefaultWarrantyYears
	if in.Warranty != nil {
		p.Warranty = *in.Warranty
	}
	p.IsActive = in.IsActive == nil || *in.IsActive
	p.IsFeatured = in.IsFeatured != nil && *in.IsFeatured

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, writeError("create product", err, msgProductSlugTaken)
	}
	return &p, nil
}

// SellerProducts lists the seller's products, newest first.
func (s *ProductService) SellerProducts(ctx context.Context, sellerID primitive.ObjectID, page, limit int) (*SellerPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultSellerListLimit
	}
	filter := bson.M{models.FieldSellerID: sellerID}

	products, err := s.repo.Find(ctx, filter, repository.FindOptions{
		Sort:  BuildSort(SortNewest),
		Skip:  Skip(page, limit),
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count seller products: %w", err)
	}
	return &SellerPage{
		Products:   products,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}, nil
}

func (s *ProductService) UpdateSellerPrice(ctx context.Context, sellerID, id primitive.ObjectID, in PriceUpdate) (*models.Product, error) {
	if in.Price == nil || *in.Price < 0 || math.IsNaN(*in.Price) {
		return nil, apperrors.BadRequest("Valid price is required")
	}
	set := bson.M{models.FieldPrice: *in.Price}
	var unset []string
	if in.OriginalPriceSet {
		switch {
		case in.OriginalPrice == nil:
			unset = append(unset, "originalPrice")
		case *in.OriginalPrice < 0 || math.IsNaN(*in.OriginalPrice):
			return nil, apperrors.BadRequest("Invalid original price")
		default:
			set["originalPrice"] = *in.OriginalPrice
		}
	}

	product, err := s.repo.UpdateForSeller(ctx, id, sellerID, set, unset)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgSellerProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update seller price: %w", err)
	}
	return product, nil
}

func (s *ProductService) DeleteSellerProduct(ctx context.Context, sellerID, id primitive.ObjectID) error {
	deleted, err := s.repo.DeleteForSeller(ctx, id, sellerID)
	if err != nil {
		return fmt.Errorf("delete seller product: %w", err)
	}
	if !deleted {
		return apperrors.NotFound(msgSellerProductNotFound)
	}
	return nil
}

// EditProduct applies an admin partial update. Unknown keys are ignored;
// the owning seller may be given under any of the legacy alias keys.
func (s *ProductService) EditProduct(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	set, err := editSet(updates)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.Update(ctx, id, set)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgProductNotFound)
	}
	if err != nil {
		return nil, writeError("edit product", err, msgProductSlugTaken)
	}
	return product, nil
}

func editSet(updates map[string]interface{}) (bson.M, error) {
	set := bson.M{}
	for field, kind := range editableFields {
		v, ok := updates[field]
		if !ok {
			continue
		}
		switch kind {
		case kindText, kindRequiredText, kindSlug:
			str, isStr := v.(string)
			if !isStr && v != nil {
				return nil, apperrors.BadRequest(field + " must be a string")
			}
			str = strings.TrimSpace(str)
			if kind == kindRequiredText && str == "" {
				return nil, apperrors.BadRequest(field + " cannot be empty")
			}
			if kind == kindSlug {
				// An empty slug would collide under the unique index.
				if str = slug.Make(str); str == "" {
					continue
				}
			}
			set[field] = str
		case kindNonNegative:
			n, isNum := v.(float64)
			if !isNum || n < 0 || math.IsNaN(n) {
				return nil, apperrors.BadRequest(field + " must be a non-negative number")
			}
			set[field] = n
		case kindCount:
			n, isNum := v.(float64)
			if !isNum || n < 0 || n != math.Trunc(n) {
				return nil, apperrors.BadRequest(field + " must be a non-negative integer")
			}
			set[field] = int(n)
		case kindBool:
			b, isBool := v.(bool)
			if !isBool {
				return nil, apperrors.BadRequest(field + " must be a boolean")
			}
			set[field] = b
		default:
			set[field] = v
		}
	}

	for _, alias := range sellerAliases {
		if raw := sellerIDFrom(updates[alias]); raw != "" {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return nil, apperrors.BadRequest("Invalid seller id")
			}
			set[models.FieldSellerID] = id
			break
		}
	}
	return set, nil
}

// sellerIDFrom accepts a bare id or an object carrying sellerId, id or _id.
func sellerIDFrom(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]interface{}:
		for _, k := range []string{"sellerId", "id", "_id"} {
			if s, ok := t[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func (s *ProductService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !deleted {
		return apperrors.NotFound(msgProductNotFound)
	}
	return nil
}

// GetProduct looks up by slug first, then by id when idOrSlug is a
// well-formed ObjectID.
func (s *ProductService) GetProduct(ctx context.Context, idOrSlug string) (*models.Product, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, apperrors.NotFound(msgProductNotFound)
	}

	product, err := s.repo.FindBySlug(ctx, idOrSlug)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find product by slug: %w", err)
	}

	id, err := primitive.ObjectIDFromHex(idOrSlug)
	if err != nil {
		return nil, apperrors.NotFound(msgProductNotFound)
	}
	product, err = s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

// ListAll returns every product, active or not, newest first.
func (s *ProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.Find(ctx, bson.M{}, repository.FindOptions{Sort: BuildSort(SortNewest)})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}
