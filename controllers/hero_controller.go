package controllers

import (
	"net/http"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"

	"github.com/gin-gonic/gin"
)

type HeroController struct {
	service   HeroServiceAPI
	validator *RequestValidator
}

func NewHeroController(s HeroServiceAPI) *HeroController {
	return &HeroController{service: s, validator: NewRequestValidator()}
}

func (ctrl *HeroController) ListPublic(c *gin.Context) {
	heroes, err := ctrl.service.ListPublic(c.Request.Context(), ctrl.validator.ParseListLimit(c))
	if err != nil {
		apperrors.Respond(c, err, "Failed to fetch heroes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(heroes), "data": heroes})
}

func (ctrl *HeroController) ListAll(c *gin.Context) {
	heroes, err := ctrl.service.ListAll(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err, "Failed to fetch heroes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(heroes), "data": heroes})
}

func (ctrl *HeroController) Create(c *gin.Context) {
	var req HeroRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Failed to create hero")
		return
	}
	hero, err := ctrl.service.Create(c.Request.Context(), req.input())
	if err != nil {
		apperrors.Respond(c, err, "Failed to create hero")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Hero created successfully", "data": hero})
}

func (ctrl *HeroController) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "Invalid hero id")
	if !ok {
		return
	}
	var req HeroRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Failed to update hero")
		return
	}
	hero, err := ctrl.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		apperrors.Respond(c, err, "Failed to update hero")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Hero updated successfully", "data": hero})
}

func (ctrl *HeroController) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "Invalid hero id")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err, "Failed to delete hero")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Hero deleted successfully"})
}

func (ctrl *HeroController) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Failed to reorder heroes")
		return
	}
	heroes, err := ctrl.service.Reorder(c.Request.Context(), req.OrderedIDs)
	if err != nil {
		apperrors.Respond(c, err, "Failed to reorder heroes")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Hero priority order updated successfully",
		"count":   len(heroes),
		"data":    heroes,
	})
}
