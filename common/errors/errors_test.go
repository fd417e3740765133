package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func respond(err error, fallback string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Respond(c, err, fallback)
	return rec
}

func TestRespondKeepsClientErrors(t *testing.T) {
	wrapped := fmt.Errorf("create category: %w", BadRequest("Category name is required"))
	rec := respond(wrapped, "Failed to create shop category")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Category name is required"}`, rec.Body.String())
}

func TestRespondHidesInternalDetail(t *testing.T) {
	for _, err := range []error{
		fmt.Errorf("query products: connection refused"),
		Internal("database exploded", fmt.Errorf("socket closed")),
	} {
		rec := respond(err, "Failed to search products")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Failed to search products"}`, rec.Body.String())
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFound("Hero not found"))
	assert.True(t, IsCode(err, http.StatusNotFound))
	assert.False(t, IsCode(err, http.StatusBadRequest))
	assert.False(t, IsCode(fmt.Errorf("plain"), http.StatusNotFound))
}
