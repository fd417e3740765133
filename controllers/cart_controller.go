package controllers

import (
	"net/http"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/common/middleware"
	"github.com/Narayandwivedi/abcdmarket/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartController struct {
	service   CartServiceAPI
	validator *RequestValidator
}

func NewCartController(s CartServiceAPI) *CartController {
	return &CartController{service: s, validator: NewRequestValidator()}
}

func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := customerFrom(c)
	if !ok {
		return
	}
	view, err := ctrl.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err, "Server error while fetching cart")
		return
	}
	c.JSON(http.StatusOK, cartResponse(view, ""))
}

// AddToCart increments the line; see UpdateQuantity for overwrite.
func (ctrl *CartController) AddToCart(c *gin.Context) {
	userID, ok := customerFrom(c)
	if !ok {
		return
	}
	var req CartLineRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Server error while adding to cart")
		return
	}

	view, err := ctrl.service.AddToCart(c.Request.Context(), userID, req.input())
	if err != nil {
		apperrors.Respond(c, err, "Server error while adding to cart")
		return
	}
	c.JSON(http.StatusOK, cartResponse(view, "Item added to cart successfully"))
}

// UpdateQuantity sets the quantity of the line in the path. Demo lines
// that are not yet in the cart may carry their display fields in the body.
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	userID, ok := customerFrom(c)
	if !ok {
		return
	}
	var req CartLineRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "Server error while updating cart")
		return
	}
	if !req.Quantity.set {
		apperrors.Respond(c, apperrors.BadRequest("Product ID and quantity are required"), "")
		return
	}

	in := req.input()
	in.ProductID = c.Param("productId")
	view, err := ctrl.service.UpdateQuantity(c.Request.Context(), userID, in)
	if err != nil {
		apperrors.Respond(c, err, "Server error while updating cart")
		return
	}
	c.JSON(http.StatusOK, cartResponse(view, "Cart updated successfully"))
}

func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := customerFrom(c)
	if !ok {
		return
	}
	view, err := ctrl.service.RemoveFromCart(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		apperrors.Respond(c, err, "Server error while removing from cart")
		return
	}
	c.JSON(http.StatusOK, cartResponse(view, "Item removed from cart successfully"))
}

func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, ok := customerFrom(c)
	if !ok {
		return
	}
	view, err := ctrl.service.ClearCart(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err, "Server error while clearing cart")
		return
	}
	c.JSON(http.StatusOK, cartResponse(view, "Cart cleared successfully"))
}

// SyncCart merges the guest cart sent at login.
func (ctrl *CartController) SyncCart(c *gin.Context) {
	userID, ok := customerFrom(c)
	if !ok {
		return
	}
	var req SyncCartRequest
	if err := ctrl.validator.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, apperrors.BadRequest("Invalid cart data"), "")
		return
	}

	merged, view, err := ctrl.service.SyncCart(c.Request.Context(), userID, req.lines(ctrl.validator.validate))
	if err != nil {
		apperrors.Respond(c, err, "Server error while syncing cart")
		return
	}

	response := cartResponse(view, "Cart synced successfully")
	response["mergedItems"] = merged
	c.JSON(http.StatusOK, response)
}

func cartResponse(view *services.CartView, message string) gin.H {
	items := view.Items
	if items == nil {
		items = []services.CartLineView{}
	}
	response := gin.H{
		"success":   true,
		"cart":      items,
		"itemCount": view.ItemCount,
		"total":     view.Total,
	}
	if message != "" {
		response["message"] = message
	}
	return response
}

// customerFrom returns the user set by middleware.CustomerAuth.
func customerFrom(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Not authorized, please login"), "")
		return primitive.NilObjectID, false
	}
	return id, true
}
