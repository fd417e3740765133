package controllers

import (
	"net/http"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"

	"github.com/gin-gonic/gin"
)

type SubCategoryController struct {
	service   SubCategoryServiceAPI
	cache     CacheInvalidator
	validator *RequestValidator
}

func NewSubCategoryController(s SubCategoryServiceAPI, cache CacheInvalidator) *SubCategoryController {
	return &SubCategoryController{service: s, cache: cache, validator: NewRequestValidator()}
}

// ListPublic takes an optional categoryId query parameter.
func (ctrl *SubCategoryController) ListPublic(c *gin.Context) {
	subs, err := ctrl.service.ListPublic(c.Request.Context(), c.Query("categoryId"), ctrl.validator.ParseListLimit(c))
	if err != nil {
		apperrors.Respond(c, err, "Failed to fetch sub categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(subs), "data": subs})
}

func (ctrl *SubCategoryController) ListAll(c *gin.Context) {
	subs, err := ctrl.service.ListAll(c.Request.Context(), c.Query("categoryId"))
	if err != nil {
		apperrors.Respond(c, err, "Failed to fetch sub categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(subs), "data": subs})
}

func (ctrl *SubCategoryController) Create(c *gin.Context) {
	var req SubCategoryRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Failed to create sub category")
		return
	}
	sub, err := ctrl.service.Create(c.Request.Context(), req.input())
	if err != nil {
		apperrors.Respond(c, err, "Failed to create sub category")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Sub category created successfully", "data": sub})
}

func (ctrl *SubCategoryController) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "Invalid sub category id")
	if !ok {
		return
	}
	var req SubCategoryRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Failed to update sub category")
		return
	}
	sub, err := ctrl.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		apperrors.Respond(c, err, "Failed to update sub category")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Sub category updated successfully", "data": sub})
}

func (ctrl *SubCategoryController) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "Invalid sub category id")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err, "Failed to delete sub category")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Sub category deleted successfully"})
}

// Reorder accepts an optional categoryId that every id must belong to.
func (ctrl *SubCategoryController) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Failed to reorder sub categories")
		return
	}
	subs, err := ctrl.service.Reorder(c.Request.Context(), req.OrderedIDs, req.CategoryID)
	if err != nil {
		apperrors.Respond(c, err, "Failed to reorder sub categories")
		return
	}
	ctrl.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sub category priority order updated successfully",
		"count":   len(subs),
		"data":    subs,
	})
}
