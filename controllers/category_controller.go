package controllers

import (
	"net/http"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CategoryController serves the shop categories shown on the storefront
// home page.
type CategoryController struct {
	service   CategoryServiceAPI
	cache     CacheInvalidator
	validator *RequestValidator
}

// NewCategoryController takes the catalog cache so slug listings forget
// renamed or removed categories.
func NewCategoryController(s CategoryServiceAPI, cache CacheInvalidator) *CategoryController {
	return &CategoryController{service: s, cache: cache, validator: NewRequestValidator()}
}

func (ctrl *CategoryController) ListPublic(c *gin.Context) {
	categories, err := ctrl.service.ListPublic(c.Request.Context(), ctrl.validator.ParseListLimit(c))
	if err != nil {
		apperrors.Respond(c, err, "Failed to fetch shop categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(categories), "data": categories})
}

func (ctrl *CategoryController) ListAll(c *gin.Context) {
	categories, err := ctrl.service.ListAll(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err, "Failed to fetch shop categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(categories), "data": categories})
}

func (ctrl *CategoryController) Create(c *gin.Context) {
	var req CategoryRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Failed to create shop category")
		return
	}
	category, err := ctrl.service.Create(c.Request.Context(), req.input())
	if err != nil {
		apperrors.Respond(c, err, "Failed to create shop category")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	zap.L().Info("Shop category created", zap.String("id", category.ID.Hex()), zap.String("slug", category.Slug))
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Shop category created successfully", "data": category})
}

func (ctrl *CategoryController) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "Invalid category id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Failed to update shop category")
		return
	}
	category, err := ctrl.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		apperrors.Respond(c, err, "Failed to update shop category")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Shop category updated successfully", "data": category})
}

func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "Invalid category id")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err, "Failed to delete shop category")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Shop category deleted successfully"})
}

func (ctrl *CategoryController) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Failed to reorder shop categories")
		return
	}
	categories, err := ctrl.service.Reorder(c.Request.Context(), req.OrderedIDs)
	if err != nil {
		apperrors.Respond(c, err, "Failed to reorder shop categories")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Shop category priority order updated successfully",
		"count":   len(categories),
		"data":    categories,
	})
}
