package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Narayandwivedi/abcdmarket/common/auth"
	apperrors "github.com/Narayandwivedi/abcdmarket/common/errors"
	"github.com/Narayandwivedi/abcdmarket/common/logger"
	"github.com/Narayandwivedi/abcdmarket/common/middleware"
	"github.com/Narayandwivedi/abcdmarket/controllers"
	"github.com/Narayandwivedi/abcdmarket/database"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/repository"
	"github.com/Narayandwivedi/abcdmarket/routes"
	"github.com/Narayandwivedi/abcdmarket/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	log := logger.Initialize(os.Getenv("APP_ENV"))
	defer log.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- 1. Initialization ---
	mongoDB, err := database.Connect(ctx, cfg.MongoURL, cfg.MongoDBName)
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoDB.Close(); err != nil {
			zap.L().Error("Failed to close MongoDB", zap.Error(err))
		}
	}()

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		// The catalog and cart both work without Redis.
		zap.L().Warn("Redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}

	// --- 2. Dependency Injection ---
	productRepo := repository.NewProductRepository(mongoDB.DB)
	categoryRepo := repository.NewCategoryRepository(mongoDB.DB)
	subCategoryRepo := repository.NewSubCategoryRepository(mongoDB.DB)
	heroRepo := repository.NewHeroRepository(mongoDB.DB)
	userRepo := repository.NewUserRepository(mongoDB.DB)

	indexCtx, cancelIndexes := context.WithTimeout(ctx, 30*time.Second)
	for name, ensure := range map[string]func(context.Context) error{
		"products":       productRepo.EnsureIndexes,
		"categories":     categoryRepo.EnsureIndexes,
		"sub-categories": subCategoryRepo.EnsureIndexes,
		"heroes":         heroRepo.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			zap.L().Warn("Failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}
	cancelIndexes()

	var locker services.Locker
	if redisClient != nil {
		locker = services.NewRedisLocker(redisClient, cfg.CartLockTTL)
	}

	catalogService := services.NewCatalogService(productRepo, categoryRepo, subCategoryRepo)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(userRepo, productRepo, locker)
	categoryService := services.NewCategoryService(categoryRepo,
		repository.NewPriorityRepository(mongoDB.Client, categoryRepo.Collection(), ""))
	subCategoryService := services.NewSubCategoryService(subCategoryRepo, categoryRepo,
		repository.NewPriorityRepository(mongoDB.Client, subCategoryRepo.Collection(), models.FieldCategory))
	heroService := services.NewHeroService(heroRepo,
		repository.NewPriorityRepository(mongoDB.Client, heroRepo.Collection(), ""))

	cache := controllers.NewCacheManager(redisClient, cfg.SearchCacheTTL)
	handlers := routes.Controllers{
		Product:     controllers.NewProductController(catalogService, productService, cache),
		Cart:        controllers.NewCartController(cartService),
		Category:    controllers.NewCategoryController(categoryService, cache),
		SubCategory: controllers.NewSubCategoryController(subCategoryService, cache),
		Hero:        controllers.NewHeroController(heroService),
	}

	// --- 3. HTTP Server & Middleware ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(apperrors.ErrorMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(ctx, rate.Limit(20), 40, 10*time.Minute)))
	r.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// --- 4. Route Registration ---
	routes.RegisterRoutes(r, routes.AuthConfig{
		Verifier:            auth.NewTokenVerifier(cfg.JWTSecret),
		TrustGatewayHeaders: cfg.TrustGatewayHeaders,
	}, handlers)

	// --- 5. Graceful Shutdown ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Storefront API starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down storefront API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}
	zap.L().Info("Storefront API stopped gracefully")
}
