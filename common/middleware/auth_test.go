package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Narayandwivedi/abcdmarket/common/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAuthRouter(h gin.HandlerFunc, key string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(key))
	})
	return r
}

func signed(t *testing.T, v *auth.TokenVerifier, claims jwt.MapClaims) string {
	t.Helper()
	token, err := v.Sign(claims, time.Hour)
	require.NoError(t, err)
	return token
}

func TestCustomerAuth(t *testing.T) {
	verifier := auth.NewTokenVerifier("test-secret")
	userID := primitive.NewObjectID().Hex()
	router := newAuthRouter(CustomerAuth(verifier, false), UserContextKey)

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		wantCode int
	}{
		{
			name:     "untrusted gateway header",
			setup:    func(r *http.Request) { r.Header.Set(GatewayUserHeader, userID) },
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "bearer token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signed(t, verifier, jwt.MapClaims{"userId": userID}))
			},
			wantCode: http.StatusOK,
		},
		{
			name: "session cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: signed(t, verifier, jwt.MapClaims{"id": userID})})
			},
			wantCode: http.StatusOK,
		},
		{
			name: "token from another secret",
			setup: func(r *http.Request) {
				other := auth.NewTokenVerifier("other-secret")
				r.Header.Set("Authorization", "Bearer "+signed(t, other, jwt.MapClaims{"userId": userID}))
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "nothing",
			setup:    func(r *http.Request) {},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, userID, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), "Not authorized, please login")
			}
		})
	}
}

func TestCustomerAuthTrustedGateway(t *testing.T) {
	verifier := auth.NewTokenVerifier("test-secret")
	userID := primitive.NewObjectID().Hex()
	router := newAuthRouter(CustomerAuth(verifier, true), UserContextKey)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(GatewayUserHeader, userID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(GatewayUserHeader, "guest")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The header wins over a token for another user only behind the gateway.
	other := primitive.NewObjectID().Hex()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(GatewayUserHeader, userID)
	req.Header.Set("Authorization", "Bearer "+signed(t, verifier, jwt.MapClaims{"userId": other}))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, rec.Body.String())
}

func TestCustomerAuthIgnoresHeaderAlongsideToken(t *testing.T) {
	verifier := auth.NewTokenVerifier("test-secret")
	owner := primitive.NewObjectID().Hex()
	victim := primitive.NewObjectID().Hex()
	router := newAuthRouter(CustomerAuth(verifier, false), UserContextKey)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(GatewayUserHeader, victim)
	req.Header.Set("Authorization", "Bearer "+signed(t, verifier, jwt.MapClaims{"userId": owner}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, owner, rec.Body.String())
}

func TestCORSDoesNotAllowGatewayHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("http://shop.example"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", GatewayUserHeader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	allowed := strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, allowed, "authorization")
	assert.NotContains(t, allowed, strings.ToLower(GatewayUserHeader))
}

func TestSellerAuth(t *testing.T) {
	verifier := auth.NewTokenVerifier("test-secret")
	sellerID := primitive.NewObjectID().Hex()
	router := newAuthRouter(SellerAuth(verifier), SellerContextKey)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SellerCookieName, Value: signed(t, verifier, jwt.MapClaims{"sellerId": sellerID})})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sellerID, rec.Body.String())

	// A customer token does not identify a seller.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SellerCookieName, Value: signed(t, verifier, jwt.MapClaims{"userId": sellerID})})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Seller authentication required")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SellerCookieName, Value: signed(t, verifier, jwt.MapClaims{"sellerId": sellerID, "exp": time.Now().Add(-time.Minute).Unix()})})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "expired token")
}
