// Command seeder loads catalog products from a JSON file into MongoDB.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Narayandwivedi/abcdmarket/common/logger"
	"github.com/Narayandwivedi/abcdmarket/database"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/pkg/slug"
	"github.com/Narayandwivedi/abcdmarket/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// seedProduct mirrors models.Product but keeps omitted flags distinguishable
// from false.
type seedProduct struct {
	models.Product
	Warranty   *float64 `json:"warranty"`
	IsActive   *bool    `json:"isActive"`
	IsFeatured *bool    `json:"isFeatured"`
}

func main() {
	_ = godotenv.Load()
	logger.Initialize(os.Getenv("APP_ENV"))
	defer zap.L().Sync()

	file := pflag.StringP("file", "f", "", "path to a JSON array of products")
	clearFirst := pflag.Bool("clear", false, "delete every existing product first")
	mongoURL := pflag.String("mongo", envOr("MONGO_URL", "mongodb://localhost:27017"), "MongoDB URI")
	dbName := pflag.String("db", envOr("MONGO_DB_NAME", "abcdmarket"), "MongoDB database name")
	pflag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "--file flag: required")
		pflag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		zap.L().Fatal("Failed to read seed file", zap.String("file", *file), zap.Error(err))
	}
	var seeds []seedProduct
	if err := json.Unmarshal(raw, &seeds); err != nil {
		zap.L().Fatal("Seed file is not a JSON array of products", zap.Error(err))
	}
	products := prepare(seeds)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoDB, err := database.Connect(ctx, *mongoURL, *dbName)
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoDB.Close()

	repo := repository.NewProductRepository(mongoDB.DB)
	if err := repo.EnsureIndexes(ctx); err != nil {
		zap.L().Warn("Failed to ensure product indexes", zap.Error(err))
	}

	if *clearFirst {
		deleted, err := repo.DeleteAll(ctx)
		if err != nil {
			zap.L().Fatal("Failed to clear products", zap.Error(err))
		}
		zap.L().Info("Deleted existing products", zap.Int64("count", deleted))
	}

	inserted, err := repo.InsertMany(ctx, products)
	if err != nil {
		// Unordered inserts keep going past duplicates; report and exit non-zero.
		zap.L().Error("Some products were not inserted", zap.Int("inserted", inserted), zap.Error(err))
		os.Exit(1)
	}
	fmt.Printf("Seeding complete. inserted=%d\n", inserted)
}

// prepare applies the storefront defaults and gives every product a slug
// that is unique within the batch.
func prepare(seeds []seedProduct) []models.Product {
	used := make(map[string]bool, len(seeds))
	out := make([]models.Product, 0, len(seeds))
	for _, s := range seeds {
		p := s.Product
		p.ID = primitive.NilObjectID
		p.IsActive = s.IsActive == nil || *s.IsActive
		p.IsFeatured = s.IsFeatured != nil && *s.IsFeatured
		p.Warranty = 1
		if s.Warranty != nil {
			p.Warranty = *s.Warranty
		}
		if p.Images == nil {
			p.Images = []string{}
		}
		if p.Features == nil {
			p.Features = []string{}
		}
		if p.Keywords == nil {
			p.Keywords = []string{}
		}

		base := slug.Make(p.Slug)
		if base == "" {
			base = slug.Make(p.SEOTitle)
		}
		candidate := base
		for n := 2; candidate != "" && used[candidate]; n++ {
			candidate = base + "-" + strconv.Itoa(n)
		}
		if candidate != "" {
			used[candidate] = true
		}
		p.Slug = candidate
		out = append(out, p)
	}
	return out
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
