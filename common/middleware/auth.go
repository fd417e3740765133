package middleware

import (
	"net/http"
	"strings"

	"github.com/Narayandwivedi/abcdmarket/common/auth"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserContextKey   = "userID"
	SellerContextKey = "sellerID"

	SellerCookieName  = "sellerToken"
	SessionCookieName = "token"
)

// GatewayUserHeader carries the customer id when a trusted gateway has
// already authenticated the request.
const GatewayUserHeader = "X-User-ID"

// CustomerAuth resolves the customer identity from the session token
// (cookie or bearer), which must carry userId. GatewayUserHeader is honored
// only when trustGateway is set; otherwise it is ignored.
func CustomerAuth(verifier *auth.TokenVerifier, trustGateway bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID string
		if trustGateway {
			userID = strings.TrimSpace(c.GetHeader(GatewayUserHeader))
		}

		if userID == "" {
			token := bearerToken(c)
			if token == "" {
				if v, err := c.Cookie(SessionCookieName); err == nil {
					token = v
				}
			}
			if token != "" {
				if claims, err := verifier.ParseAndValidateToken(token); err == nil {
					userID = auth.StringClaim(claims, "userId", "id", "sub")
				}
			}
		}

		if userID == "" || !primitive.IsValidObjectID(userID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized, please login",
			})
			return
		}

		c.Set(UserContextKey, userID)
		c.Next()
	}
}

// SellerAuth requires a valid sellerToken cookie.
func SellerAuth(verifier *auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sellerID string
		if token, err := c.Cookie(SellerCookieName); err == nil && token != "" {
			if claims, err := verifier.ParseAndValidateToken(token); err == nil {
				sellerID = auth.StringClaim(claims, "sellerId")
			}
		}

		if sellerID == "" || !primitive.IsValidObjectID(sellerID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Seller authentication required",
			})
			return
		}

		c.Set(SellerContextKey, sellerID)
		c.Next()
	}
}

// GetUserID extracts the customer ID set by CustomerAuth.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserContextKey)
}

// GetSellerID extracts the seller ID set by SellerAuth.
func GetSellerID(c *gin.Context) string {
	return c.GetString(SellerContextKey)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
