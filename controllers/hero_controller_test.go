package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeroRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewHeroController(newMemHeroService())
	router := gin.New()
	router.GET("/heroes", controller.ListPublic)
	router.GET("/heroes/admin", controller.ListAll)
	router.POST("/heroes", controller.Create)
	router.PATCH("/heroes/reorder", controller.Reorder)
	router.PUT("/heroes/:id", controller.Update)
	router.DELETE("/heroes/:id", controller.Delete)
	return router
}

func createHero(t *testing.T, router *gin.Engine, body string) string {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/heroes", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	return data["_id"].(string)
}

func TestHeroCreateThenListAdmin(t *testing.T) {
	router := newHeroRouter()

	createHero(t, router, `{"imageUrl":"a.png"}`)
	createHero(t, router, `{"imageUrl":"b.png","priority":0,"isActive":false}`)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/heroes/admin", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
	data := body["data"].([]interface{})
	first := data[0].(map[string]interface{})
	assert.Equal(t, "b.png", first["imageUrl"])
	assert.Equal(t, false, first["isActive"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/heroes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["count"])
}

func TestHeroCreateRequiresImage(t *testing.T) {
	router := newHeroRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/heroes", strings.NewReader(`{"title":"Sale"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}

func TestHeroReorder(t *testing.T) {
	router := newHeroRouter()
	a := createHero(t, router, `{"imageUrl":"a.png","priority":1}`)
	b := createHero(t, router, `{"imageUrl":"b.png","priority":2}`)

	payload, _ := json.Marshal(ReorderRequest{OrderedIDs: []string{b, a}})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/heroes/reorder", strings.NewReader(string(payload))))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Hero priority order updated successfully", body["message"])
	data := body["data"].([]interface{})
	assert.Equal(t, b, data[0].(map[string]interface{})["_id"])
	assert.Equal(t, float64(1), data[0].(map[string]interface{})["priority"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/heroes/reorder", strings.NewReader(`{"orderedIds":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "orderedIds must be a non-empty array", decodeBody(t, rec)["message"])
}

func TestHeroIDErrors(t *testing.T) {
	router := newHeroRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/heroes/xyz", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid hero id", decodeBody(t, rec)["message"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/heroes/"+strings.Repeat("a", 24), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Hero not found", decodeBody(t, rec)["message"])
}
