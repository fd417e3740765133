package controllers

import (
	"net/http"
	"strings"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/common/logger"
	"github.com/Narayandwivedi/abcdmarket/common/middleware"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const msgInvalidProductID = "Invalid product id"

type ProductController struct {
	catalog   CatalogServiceAPI
	products  ProductServiceAPI
	cache     *CacheManager
	validator *RequestValidator
}

func NewProductController(catalog CatalogServiceAPI, products ProductServiceAPI, cache *CacheManager) *ProductController {
	return &ProductController{
		catalog:   catalog,
		products:  products,
		cache:     cache,
		validator: NewRequestValidator(),
	}
}

// SearchProducts handles GET /api/products/search.
func (ctrl *ProductController) SearchProducts(c *gin.Context) {
	params := ctrl.validator.ParseSearchParams(c)
	key := SearchCacheKey(params)
	if cached, ok := ctrl.cache.Get(c.Request.Context(), key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	result, err := ctrl.catalog.Search(c.Request.Context(), params)
	if err != nil {
		apperrors.Respond(c, err, "Failed to search products")
		return
	}

	response := pageResponse(result)
	response["query"] = params.Query
	response["facets"] = result.Facets
	ctrl.cache.SetAsync(key, response)
	c.JSON(http.StatusOK, response)
}

// ListByCategorySlug handles both the category and category/sub-category
// slug routes.
func (ctrl *ProductController) ListByCategorySlug(c *gin.Context) {
	search := ctrl.validator.ParseSearchParams(c)
	params := services.CategorySlugParams{
		CategorySlug:    c.Param("categorySlug"),
		SubCategorySlug: c.Param("subCategorySlug"),
		Brand:           search.Brand,
		MinPrice:        search.MinPrice,
		MaxPrice:        search.MaxPrice,
		Sort:            search.Sort,
		Page:            search.Page,
		Limit:           search.Limit,
	}
	key := CategorySlugCacheKey(params)
	if cached, ok := ctrl.cache.Get(c.Request.Context(), key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	listing, err := ctrl.catalog.ListByCategorySlug(c.Request.Context(), params)
	if err != nil {
		apperrors.Respond(c, err, "Failed to fetch category products")
		return
	}

	response := pageResponse(&listing.SearchResult)
	response["facets"] = listing.Facets
	response["category"] = listing.Category
	if listing.SubCategory != nil {
		response["subCategory"] = listing.SubCategory
	}
	ctrl.cache.SetAsync(key, response)
	c.JSON(http.StatusOK, response)
}

// ListByCategoryName serves the legacy name-addressed listings. The
// sub-category comes from the path when present, else the query string.
func (ctrl *ProductController) ListByCategoryName(c *gin.Context) {
	search := ctrl.validator.ParseSearchParams(c)
	sub := c.Param("subCategory")
	if sub == "" {
		sub = search.SubCategory
	}

	result, err := ctrl.catalog.ListByCategoryName(c.Request.Context(), services.CategoryNameParams{
		Category:    c.Param("category"),
		SubCategory: sub,
		Brand:       search.Brand,
		MinPrice:    search.MinPrice,
		MaxPrice:    search.MaxPrice,
		Page:        search.Page,
		Limit:       search.Limit,
	})
	if err != nil {
		apperrors.Respond(c, err, "Failed to fetch category products")
		return
	}
	c.JSON(http.StatusOK, pageResponse(result))
}

// AddProduct handles POST /api/products/add for the authenticated seller.
func (ctrl *ProductController) AddProduct(c *gin.Context) {
	sellerID, ok := sellerFrom(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Failed to add product")
		return
	}

	product, err := ctrl.products.AddProduct(c.Request.Context(), sellerID, req.newProduct())
	if err != nil {
		apperrors.Respond(c, err, "Failed to add product")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())

	logger.Info(c.Request.Context(), "Product added",
		zap.String("product_id", product.ID.Hex()),
		zap.String("seller_id", sellerID.Hex()),
	)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product added successfully",
		"data":    product,
	})
}

func (ctrl *ProductController) SellerProducts(c *gin.Context) {
	sellerID, ok := sellerFrom(c)
	if !ok {
		return
	}

	page, err := ctrl.products.SellerProducts(c.Request.Context(), sellerID,
		parsePositiveInt(c.Query("page")), parsePositiveInt(c.Query("limit")))
	if err != nil {
		apperrors.Respond(c, err, "Failed to fetch seller products")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(page.Products),
		"total":      page.Total,
		"page":       page.Page,
		"totalPages": page.TotalPages,
		"data":       page.Products,
	})
}

func (ctrl *ProductController) UpdateSellerPrice(c *gin.Context) {
	sellerID, ok := sellerFrom(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", msgInvalidProductID)
	if !ok {
		return
	}

	var req PriceRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Failed to update price")
		return
	}
	update, err := req.update()
	if err != nil {
		apperrors.Respond(c, err, "Failed to update price")
		return
	}

	product, err := ctrl.products.UpdateSellerPrice(c.Request.Context(), sellerID, id, update)
	if err != nil {
		apperrors.Respond(c, err, "Failed to update price")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product price updated successfully",
		"data":    product,
	})
}

func (ctrl *ProductController) DeleteSellerProduct(c *gin.Context) {
	sellerID, ok := sellerFrom(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", msgInvalidProductID)
	if !ok {
		return
	}

	if err := ctrl.products.DeleteSellerProduct(c.Request.Context(), sellerID, id); err != nil {
		apperrors.Respond(c, err, "Failed to delete product")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
}

// EditProduct handles the admin PUT /api/products/edit/:id.
func (ctrl *ProductController) EditProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id", msgInvalidProductID)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		apperrors.Respond(c, apperrors.BadRequest("Invalid request body"), "Failed to update product")
		return
	}

	product, err := ctrl.products.EditProduct(c.Request.Context(), id, updates)
	if err != nil {
		apperrors.Respond(c, err, "Failed to update product")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated successfully",
		"data":    product,
	})
}

// GetProduct accepts a slug or an id.
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	product, err := ctrl.products.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

func (ctrl *ProductController) ListProducts(c *gin.Context) {
	products, err := ctrl.products.ListAll(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(products), "data": products})
}

func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id", msgInvalidProductID)
	if !ok {
		return
	}
	if err := ctrl.products.DeleteProduct(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err, "Failed to delete product")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
}

func pageResponse(r *services.SearchResult) gin.H {
	products := r.Products
	if products == nil {
		products = []models.Product{}
	}
	return gin.H{
		"success":    true,
		"count":      len(products),
		"total":      r.Total,
		"page":       r.Page,
		"totalPages": r.TotalPages,
		"data":       products,
	}
}

// sellerFrom returns the seller set by middleware.SellerAuth, answering 401
// itself when it is missing.
func sellerFrom(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(middleware.GetSellerID(c))
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Seller authentication required"), "")
		return primitive.NilObjectID, false
	}
	return id, true
}

// objectIDParam parses a path id, answering 400 with msg when malformed.
func objectIDParam(c *gin.Context, name, msg string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param(name)))
	if err != nil {
		apperrors.Respond(c, apperrors.BadRequest(msg), "")
		return primitive.NilObjectID, false
	}
	return id, true
}
