package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Dimensions struct {
	Length float64 `json:"length,omitempty" bson:"length,omitempty"`
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`
}

type ServiceOptions struct {
	FreeDelivery     bool `json:"freeDelivery" bson:"freeDelivery"`
	ReplacementDays  int  `json:"replacementDays" bson:"replacementDays"`
	CashOnDelivery   bool `json:"cashOnDelivery" bson:"cashOnDelivery"`
	WarrantyService  bool `json:"warrantyService" bson:"warrantyService"`
	FreeInstallation bool `json:"freeInstallation" bson:"freeInstallation"`
}

// Product is a catalog entry. Category and SubCategory hold the canonical
// names used for search and filtering; the *ID fields are advisory links.
type Product struct {
	ID              primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Slug            string              `json:"slug,omitempty" bson:"slug,omitempty"`
	SEOTitle        string              `json:"seoTitle" bson:"seoTitle"`
	Description     string              `json:"description" bson:"description"`
	Category        string              `json:"category" bson:"category"`
	CategoryID      *primitive.ObjectID `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	SubCategory     string              `json:"subCategory" bson:"subCategory"`
	SubCategoryID   *primitive.ObjectID `json:"subCategoryId,omitempty" bson:"subCategoryId,omitempty"`
	SellerID        *primitive.ObjectID `json:"sellerId,omitempty" bson:"sellerId,omitempty"`
	Brand           string              `json:"brand" bson:"brand"`
	Model           string              `json:"model,omitempty" bson:"model,omitempty"`
	SKU             string              `json:"sku,omitempty" bson:"sku,omitempty"`
	Price           float64             `json:"price" bson:"price"`
	OriginalPrice   *float64            `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	Weight          *float64            `json:"weight,omitempty" bson:"weight,omitempty"`
	Dimensions      *Dimensions         `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	StockQuantity   int                 `json:"stockQuantity" bson:"stockQuantity"`
	Images          []string            `json:"images" bson:"images"`
	Specifications  map[string]string   `json:"specifications" bson:"specifications"`
	Features        []string            `json:"features" bson:"features"`
	MetaTitle       string              `json:"metaTitle,omitempty" bson:"metaTitle,omitempty"`
	MetaDescription string              `json:"metaDescription,omitempty" bson:"metaDescription,omitempty"`
	Keywords        []string            `json:"keywords" bson:"keywords"`
	Warranty        float64             `json:"warranty" bson:"warranty"`
	ServiceOptions  *ServiceOptions     `json:"serviceOptions,omitempty" bson:"serviceOptions,omitempty"`
	IsActive        bool                `json:"isActive" bson:"isActive"`
	IsFeatured      bool                `json:"isFeatured" bson:"isFeatured"`
	Availability    string              `json:"availability,omitempty" bson:"availability,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Field names as stored, shared by the query builder and repositories.
const (
	FieldID             = "_id"
	FieldSlug           = "slug"
	FieldSEOTitle       = "seoTitle"
	FieldDescription    = "description"
	FieldCategory       = "category"
	FieldSubCategory    = "subCategory"
	FieldBrand          = "brand"
	FieldModel          = "model"
	FieldKeywords       = "keywords"
	FieldSpecifications = "specifications"
	FieldPrice          = "price"
	FieldIsActive       = "isActive"
	FieldSellerID       = "sellerId"
	FieldCreatedAt      = "createdAt"
	FieldUpdatedAt      = "updatedAt"
	FieldPriority       = "priority"
	FieldName           = "name"
	FieldCategoryID     = "categoryId"
	FieldSubCategoryID  = "subCategoryId"
	FieldCart           = "cart"
	FieldImageURL       = "imageUrl"
	FieldRedirectURL    = "redirectUrl"
	FieldLinkURL        = "linkUrl"
	FieldTitle          = "title"
)
