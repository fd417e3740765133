package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/common/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCartRouter(cart *fakeCartService, userID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewCartController(cart)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if !userID.IsZero() {
			c.Set(middleware.UserContextKey, userID.Hex())
		}
		c.Next()
	})
	router.GET("/cart", controller.GetCart)
	router.POST("/cart/add", controller.AddToCart)
	router.PUT("/cart/update/:productId", controller.UpdateQuantity)
	router.DELETE("/cart/remove/:productId", controller.RemoveFromCart)
	router.DELETE("/cart/clear", controller.ClearCart)
	router.POST("/cart/sync", controller.SyncCart)
	return router
}

func TestCartRequiresCustomer(t *testing.T) {
	router := newCartRouter(&fakeCartService{}, primitive.NilObjectID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, please login", decodeBody(t, rec)["message"])
}

func TestGetCartEnvelope(t *testing.T) {
	userID := primitive.NewObjectID()
	cart := &fakeCartService{}
	router := newCartRouter(cart, userID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, cart.lastUser)
	body := decodeBody(t, rec)
	assert.Equal(t, []interface{}{}, body["cart"])
	assert.Equal(t, float64(2), body["itemCount"])
	assert.Equal(t, float64(30), body["total"])
	_, hasMessage := body["message"]
	assert.False(t, hasMessage)
}

func TestAddToCartAcceptsLegacyAliases(t *testing.T) {
	cart := &fakeCartService{}
	router := newCartRouter(cart, primitive.NewObjectID())

	body := `{"id":"demo-7","isDemo":true,"name":"Demo Mango","category":"Fruits","price":"45","images":["a.png","b.png"]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	in := cart.lastInput
	assert.Equal(t, "demo-7", in.ProductID)
	assert.Equal(t, 1.0, in.Quantity, "quantity defaults to one")
	assert.True(t, in.IsDemo)
	assert.Equal(t, "Demo Mango", in.Demo.Name)
	assert.Equal(t, "Fruits", in.Demo.Brand)
	assert.Equal(t, 45.0, in.Demo.Price)
	assert.Equal(t, "a.png", in.Demo.ImageURL)
	assert.Equal(t, "Item added to cart successfully", decodeBody(t, rec)["message"])
}

func TestAddToCartPassesServiceErrors(t *testing.T) {
	cart := &fakeCartService{err: apperrors.NotFound("Product not found")}
	router := newCartRouter(cart, primitive.NewObjectID())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(`{"productId":"x"}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decodeBody(t, rec)["message"])

	cart.err = errors.New("connection reset")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(`{"productId":"x"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error while adding to cart", decodeBody(t, rec)["message"])
}

func TestUpdateQuantityUsesPathID(t *testing.T) {
	cart := &fakeCartService{}
	router := newCartRouter(cart, primitive.NewObjectID())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/cart/update/abc123", strings.NewReader(`{"productId":"other","quantity":"3"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", cart.lastInput.ProductID)
	assert.Equal(t, 3.0, cart.lastInput.Quantity)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/cart/update/abc123", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product ID and quantity are required", decodeBody(t, rec)["message"])
}

func TestSyncCartReportsMergedItems(t *testing.T) {
	cart := &fakeCartService{}
	router := newCartRouter(cart, primitive.NewObjectID())

	body := `{"localCart":[{"_id":"p1","quantity":2},{"productId":"p2"}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/sync", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, cart.lastLines, 2)
	assert.Equal(t, "p1", cart.lastLines[0].ProductID)
	assert.Equal(t, 2.0, cart.lastLines[0].Quantity)
	assert.Equal(t, "p2", cart.lastLines[1].ProductID)

	resp := decodeBody(t, rec)
	assert.Equal(t, float64(2), resp["mergedItems"])
	assert.Equal(t, "Cart synced successfully", resp["message"])
}

func TestSyncCartSkipsBadLines(t *testing.T) {
	cart := &fakeCartService{}
	router := newCartRouter(cart, primitive.NewObjectID())

	body := `{"localCart":[
		{"productId":"demo-1","isDemo":true,"name":"Mango","price":50},
		{"productId":"` + strings.Repeat("a", 65) + `"},
		{"productId":"demo-2","isDemo":"true"},
		5,
		"p3"
	]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/sync", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, cart.lastLines, 1)
	assert.Equal(t, "demo-1", cart.lastLines[0].ProductID)
	assert.True(t, cart.lastLines[0].IsDemo)
	assert.Equal(t, 50.0, cart.lastLines[0].Demo.Price)
	assert.Equal(t, float64(1), decodeBody(t, rec)["mergedItems"])
}

func TestSyncCartRejectsNonArray(t *testing.T) {
	cart := &fakeCartService{}
	router := newCartRouter(cart, primitive.NewObjectID())

	for _, body := range []string{`{"localCart":"nope"}`, `{}`} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/sync", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid cart data", decodeBody(t, rec)["message"])
	}
	assert.Nil(t, cart.lastLines)
}

func TestRemoveFromCartPassesPathID(t *testing.T) {
	cart := &fakeCartService{}
	router := newCartRouter(cart, primitive.NewObjectID())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/cart/remove/demo-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "demo-1", cart.lastID)
}
