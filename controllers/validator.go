package controllers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CategoryRequest is the body of a shop category create or update.
type CategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Slug        *string `json:"slug" validate:"omitempty,max=200"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,max=2048"`
	RedirectURL *string `json:"redirectUrl" validate:"omitempty,max=2048"`
	Priority    *int    `json:"priority"`
	IsActive    *bool   `json:"isActive"`
}

func (r CategoryRequest) input() services.CategoryInput {
	return services.CategoryInput{
		Name:        r.Name,
		Slug:        r.Slug,
		ImageURL:    r.ImageURL,
		RedirectURL: r.RedirectURL,
		Priority:    r.Priority,
		IsActive:    r.IsActive,
	}
}

type SubCategoryRequest struct {
	CategoryRequest
	Category *string `json:"category" validate:"omitempty,max=64"`
}

func (r SubCategoryRequest) input() services.SubCategoryInput {
	return services.SubCategoryInput{
		CategoryID:  r.Category,
		Name:        r.Name,
		Slug:        r.Slug,
		ImageURL:    r.ImageURL,
		RedirectURL: r.RedirectURL,
		Priority:    r.Priority,
		IsActive:    r.IsActive,
	}
}

type HeroRequest struct {
	ImageURL *string `json:"imageUrl" validate:"omitempty,max=2048"`
	LinkURL  *string `json:"linkUrl" validate:"omitempty,max=2048"`
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Priority *int    `json:"priority"`
	IsActive *bool   `json:"isActive"`
}

func (r HeroRequest) input() services.HeroInput {
	return services.HeroInput{
		ImageURL: r.ImageURL,
		LinkURL:  r.LinkURL,
		Title:    r.Title,
		Priority: r.Priority,
		IsActive: r.IsActive,
	}
}

// ReorderRequest carries the full desired order of a sibling set.
type ReorderRequest struct {
	OrderedIDs []string `json:"orderedIds"`
	CategoryID string   `json:"categoryId" validate:"omitempty,max=64"`
}

// flexNumber accepts a JSON number or a numeric string. Anything else
// decodes to NaN so callers can apply their own fallback.
type flexNumber struct {
	value float64
	set   bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	n.set = true
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		n.value = f
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			n.value = f
			return nil
		}
	}
	n.value = math.NaN()
	return nil
}

func (n flexNumber) orDefault(def float64) float64 {
	if !n.set {
		return def
	}
	return n.value
}

// CartLineRequest is one cart line as the storefront sends it. Product and
// demo fields have several historical spellings.
type CartLineRequest struct {
	ProductID    string     `json:"productId" validate:"max=64"`
	LegacyID     string     `json:"_id" validate:"max=64"`
	ID           string     `json:"id" validate:"max=64"`
	Quantity     flexNumber `json:"quantity"`
	IsDemo       bool       `json:"isDemo"`
	ProductName  string     `json:"productName" validate:"max=200"`
	Name         string     `json:"name" validate:"max=200"`
	ProductBrand string     `json:"productBrand" validate:"max=200"`
	Brand        string     `json:"brand" validate:"max=200"`
	Category     string     `json:"category" validate:"max=200"`
	ProductPrice flexNumber `json:"productPrice"`
	Price        flexNumber `json:"price"`
	ImageURL     string     `json:"imageUrl" validate:"max=2048"`
	Image        string     `json:"image" validate:"max=2048"`
	Images       []string   `json:"images"`
}

func (r CartLineRequest) input() services.CartInput {
	price := r.ProductPrice
	if !price.set {
		price = r.Price
	}
	var firstImage string
	if len(r.Images) > 0 {
		firstImage = r.Images[0]
	}
	return services.CartInput{
		ProductID: firstNonBlank(r.ProductID, r.LegacyID, r.ID),
		Quantity:  r.Quantity.orDefault(1),
		IsDemo:    r.IsDemo,
		Demo: services.DemoPayload{
			Name:     firstNonBlank(r.ProductName, r.Name),
			Brand:    firstNonBlank(r.ProductBrand, r.Brand, r.Category),
			Price:    price.orDefault(0),
			ImageURL: firstNonBlank(r.ImageURL, r.Image, firstImage),
		},
	}
}

// SyncCartRequest is the guest cart sent at login. Lines are decoded one by
// one so a malformed line is dropped without failing the rest.
type SyncCartRequest struct {
	LocalCart []json.RawMessage `json:"localCart" validate:"required,max=500"`
}

// lines returns the inputs of every line that decodes and validates.
func (r SyncCartRequest) lines(v *validator.Validate) []services.CartInput {
	out := make([]services.CartInput, 0, len(r.LocalCart))
	for _, raw := range r.LocalCart {
		var line CartLineRequest
		if err := json.Unmarshal(raw, &line); err != nil {
			continue
		}
		if err := v.Struct(line); err != nil {
			continue
		}
		out = append(out, line.input())
	}
	return out
}

// PriceRequest is a seller price change. originalPrice may be omitted,
// null or "" (clear), or a number.
type PriceRequest struct {
	Price         flexNumber      `json:"price"`
	OriginalPrice json.RawMessage `json:"originalPrice"`
}

func (r PriceRequest) update() (services.PriceUpdate, error) {
	var out services.PriceUpdate
	if r.Price.set {
		p := r.Price.value
		out.Price = &p
	}
	raw := bytes.TrimSpace(r.OriginalPrice)
	if len(raw) == 0 {
		return out, nil
	}
	out.OriginalPriceSet = true
	if bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte(`""`)) {
		return out, nil
	}
	var n flexNumber
	if err := n.UnmarshalJSON(raw); err != nil || math.IsNaN(n.value) {
		return out, apperrors.BadRequest("Invalid original price")
	}
	out.OriginalPrice = &n.value
	return out, nil
}

// ProductRequest is a seller's new product.
type ProductRequest struct {
	SEOTitle        string                 `json:"seoTitle" validate:"max=300"`
	Slug            string                 `json:"slug" validate:"max=300"`
	Description     string                 `json:"description"`
	Category        string                 `json:"category" validate:"max=200"`
	SubCategory     string                 `json:"subCategory" validate:"max=200"`
	Brand           string                 `json:"brand" validate:"max=200"`
	Model           string                 `json:"model" validate:"max=200"`
	SKU             string                 `json:"sku" validate:"max=100"`
	Price           float64                `json:"price" validate:"gte=0"`
	OriginalPrice   *float64               `json:"originalPrice" validate:"omitempty,gte=0"`
	Weight          *float64               `json:"weight" validate:"omitempty,gte=0"`
	Dimensions      *dimensionsRequest     `json:"dimensions"`
	StockQuantity   int                    `json:"stockQuantity" validate:"gte=0"`
	Images          []string               `json:"images" validate:"max=20,dive,max=2048"`
	Specifications  map[string]string      `json:"specifications"`
	Features        []string               `json:"features"`
	MetaTitle       string                 `json:"metaTitle" validate:"max=300"`
	MetaDescription string                 `json:"metaDescription"`
	Keywords        []string               `json:"keywords"`
	Warranty        *float64               `json:"warranty" validate:"omitempty,gte=0"`
	ServiceOptions  *serviceOptionsRequest `json:"serviceOptions"`
	IsActive        *bool                  `json:"isActive"`
	IsFeatured      *bool                  `json:"isFeatured"`
	Availability    string                 `json:"availability" validate:"max=100"`
}

func (r ProductRequest) newProduct() services.NewProduct {
	p := models.Product{
		SEOTitle:        r.SEOTitle,
		Slug:            r.Slug,
		Description:     r.Description,
		Category:        strings.TrimSpace(r.Category),
		SubCategory:     strings.TrimSpace(r.SubCategory),
		Brand:           strings.TrimSpace(r.Brand),
		Model:           strings.TrimSpace(r.Model),
		SKU:             strings.TrimSpace(r.SKU),
		Price:           r.Price,
		OriginalPrice:   r.OriginalPrice,
		Weight:          r.Weight,
		StockQuantity:   r.StockQuantity,
		Images:          r.Images,
		Specifications:  r.Specifications,
		Features:        r.Features,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		Keywords:        r.Keywords,
		Availability:    r.Availability,
	}
	if r.Dimensions != nil {
		p.Dimensions = &models.Dimensions{Length: r.Dimensions.Length, Width: r.Dimensions.Width, Height: r.Dimensions.Height}
	}
	if r.ServiceOptions != nil {
		o := models.ServiceOptions(*r.ServiceOptions)
		p.ServiceOptions = &o
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	return services.NewProduct{
		Product:    p,
		Warranty:   r.Warranty,
		IsActive:   r.IsActive,
		IsFeatured: r.IsFeatured,
	}
}

type dimensionsRequest struct {
	Length float64 `json:"length" validate:"gte=0"`
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

type serviceOptionsRequest struct {
	FreeDelivery     bool `json:"freeDelivery"`
	ReplacementDays  int  `json:"replacementDays" validate:"gte=0"`
	CashOnDelivery   bool `json:"cashOnDelivery"`
	WarrantyService  bool `json:"warrantyService"`
	FreeInstallation bool `json:"freeInstallation"`
}

// RequestValidator handles all input validation
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// BindJSON decodes the body into dst and runs its struct tags. Failures
// are 400s.
func (rv *RequestValidator) BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if err := rv.validate.Struct(dst); err != nil {
		return apperrors.BadRequest("Validation failed: " + err.Error())
	}
	return nil
}

// ParseSearchParams reads the catalog query string. Unparseable numbers
// fall back to their defaults, as the storefront has always sent loose
// values.
func (rv *RequestValidator) ParseSearchParams(c *gin.Context) services.SearchParams {
	return services.SearchParams{
		Query:       strings.TrimSpace(c.Query("q")),
		Category:    strings.TrimSpace(c.Query("category")),
		SubCategory: strings.TrimSpace(c.Query("subCategory")),
		Brand:       strings.TrimSpace(c.Query("brand")),
		MinPrice:    parsePrice(c.Query("minPrice")),
		MaxPrice:    parsePrice(c.Query("maxPrice")),
		Sort:        strings.TrimSpace(c.Query("sort")),
		Page:        parsePositiveInt(c.Query("page")),
		Limit:       parsePositiveInt(c.Query("limit")),
	}
}

// ParseListLimit returns the requested listing limit, or nil when the
// parameter is absent or not a number.
func (rv *RequestValidator) ParseListLimit(c *gin.Context) *int {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Trunc(f))
	return &n
}

// parsePrice returns nil for empty or non-numeric bounds.
func parsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parsePositiveInt returns 0 (meaning default) for anything that is not a
// positive number.
func parsePositiveInt(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f < 1 || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
