package routes

import (
	"net/http"

	"github.com/Narayandwivedi/abcdmarket/common/auth"
	"github.com/Narayandwivedi/abcdmarket/common/middleware"
	"github.com/Narayandwivedi/abcdmarket/controllers"

	"github.com/gin-gonic/gin"
)

// Controllers groups everything RegisterRoutes mounts.
type Controllers struct {
	Product     *controllers.ProductController
	Cart        *controllers.CartController
	Category    *controllers.CategoryController
	SubCategory *controllers.SubCategoryController
	Hero        *controllers.HeroController
}

// AuthConfig controls how request identities are resolved.
type AuthConfig struct {
	Verifier *auth.TokenVerifier
	// TrustGatewayHeaders accepts middleware.GatewayUserHeader as the
	// customer id. Enable only behind a gateway that strips client copies.
	TrustGatewayHeaders bool
}

func RegisterRoutes(r *gin.Engine, authCfg AuthConfig, ctrl Controllers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "abcdmarket"})
	})

	api := r.Group("/api")
	registerProductRoutes(api, authCfg.Verifier, ctrl.Product)

	cart := api.Group("/cart", middleware.CustomerAuth(authCfg.Verifier, authCfg.TrustGatewayHeaders))
	{
		cart.GET("", ctrl.Cart.GetCart)
		cart.GET("/", ctrl.Cart.GetCart)
		cart.POST("/add", ctrl.Cart.AddToCart)
		cart.PUT("/update/:productId", ctrl.Cart.UpdateQuantity)
		cart.DELETE("/remove/:productId", ctrl.Cart.RemoveFromCart)
		cart.DELETE("/clear", ctrl.Cart.ClearCart)
		cart.POST("/sync", ctrl.Cart.SyncCart)
	}

	registerOrderedRoutes(api.Group("/heroes"), ctrl.Hero.ListPublic, ctrl.Hero.ListAll,
		ctrl.Hero.Create, ctrl.Hero.Reorder, ctrl.Hero.Update, ctrl.Hero.Delete)
	registerOrderedRoutes(api.Group("/shop-categories"), ctrl.Category.ListPublic, ctrl.Category.ListAll,
		ctrl.Category.Create, ctrl.Category.Reorder, ctrl.Category.Update, ctrl.Category.Delete)
	registerOrderedRoutes(api.Group("/sub-categories"), ctrl.SubCategory.ListPublic, ctrl.SubCategory.ListAll,
		ctrl.SubCategory.Create, ctrl.SubCategory.Reorder, ctrl.SubCategory.Update, ctrl.SubCategory.Delete)
}

func registerProductRoutes(api *gin.RouterGroup, verifier *auth.TokenVerifier, ctrl *controllers.ProductController) {
	products := api.Group("/products")

	seller := middleware.SellerAuth(verifier)
	products.POST("/add", seller, ctrl.AddProduct)
	products.GET("/seller/my", seller, ctrl.SellerProducts)
	products.PATCH("/seller/:id/price", seller, ctrl.UpdateSellerPrice)
	products.DELETE("/seller/:id", seller, ctrl.DeleteSellerProduct)

	products.PUT("/edit/:id", ctrl.EditProduct)
	products.GET("/search", ctrl.SearchProducts)
	products.GET("/category-slug/:categorySlug/subcategory/:subCategorySlug", ctrl.ListByCategorySlug)
	products.GET("/category-slug/:categorySlug", ctrl.ListByCategorySlug)
	products.GET("/category/:category/subcategory/:subCategory", ctrl.ListByCategoryName)
	products.GET("/category/:category", ctrl.ListByCategoryName)
	products.GET("/:id", ctrl.GetProduct)
	products.GET("", ctrl.ListProducts)
	products.GET("/", ctrl.ListProducts)
	products.DELETE("/:id", ctrl.DeleteProduct)
}

// registerOrderedRoutes mounts the shared layout of the priority-ordered
// collections. /reorder and /admin are registered before /:id.
func registerOrderedRoutes(g *gin.RouterGroup, listPublic, listAll, create, reorder, update, remove gin.HandlerFunc) {
	g.GET("", listPublic)
	g.GET("/", listPublic)
	g.GET("/admin", listAll)
	g.POST("", create)
	g.POST("/", create)
	g.PATCH("/reorder", reorder)
	g.PUT("/:id", update)
	g.DELETE("/:id", remove)
}
