// Command backfill-category-refs links products to their category and
// sub-category documents by matching the canonical name strings.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Narayandwivedi/abcdmarket/common/logger"
	"github.com/Narayandwivedi/abcdmarket/database"
	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/pkg/slug"
	"github.com/Narayandwivedi/abcdmarket/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// index resolves category strings, compared by slug form, to ids.
type index struct {
	categories map[string]primitive.ObjectID
	subs       map[primitive.ObjectID]map[string]primitive.ObjectID
}

func newIndex(categories []models.Category, subs []models.SubCategory) *index {
	idx := &index{
		categories: make(map[string]primitive.ObjectID, len(categories)),
		subs:       make(map[primitive.ObjectID]map[string]primitive.ObjectID),
	}
	for _, c := range categories {
		for _, key := range []string{slug.Make(c.Slug), slug.Make(c.Name)} {
			if _, taken := idx.categories[key]; key != "" && !taken {
				idx.categories[key] = c.ID
			}
		}
	}
	for _, s := range subs {
		m := idx.subs[s.CategoryID]
		if m == nil {
			m = make(map[string]primitive.ObjectID)
			idx.subs[s.CategoryID] = m
		}
		for _, key := range []string{slug.Make(s.Slug), slug.Make(s.Name)} {
			if _, taken := m[key]; key != "" && !taken {
				m[key] = s.ID
			}
		}
	}
	return idx
}

// refs returns the $set document for p, or nil when nothing changes.
func (idx *index) refs(p models.Product) bson.M {
	catID, ok := idx.categories[slug.Make(p.Category)]
	if !ok {
		return nil
	}
	set := bson.M{}
	if p.CategoryID == nil || *p.CategoryID != catID {
		set[models.FieldCategoryID] = catID
	}
	if subID, ok := idx.subs[catID][slug.Make(p.SubCategory)]; ok {
		if p.SubCategoryID == nil || *p.SubCategoryID != subID {
			set[models.FieldSubCategoryID] = subID
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func main() {
	_ = godotenv.Load()
	logger.Initialize(os.Getenv("APP_ENV"))
	defer zap.L().Sync()

	dryRun := pflag.Bool("dry-run", false, "report changes without writing them")
	mongoURL := pflag.String("mongo", envOr("MONGO_URL", "mongodb://localhost:27017"), "MongoDB URI")
	dbName := pflag.String("db", envOr("MONGO_DB_NAME", "abcdmarket"), "MongoDB database name")
	pflag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	mongoDB, err := database.Connect(ctx, *mongoURL, *dbName)
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoDB.Close()

	categories, err := repository.NewCategoryRepository(mongoDB.DB).List(ctx, repository.ListFilter{})
	if err != nil {
		zap.L().Fatal("Failed to load categories", zap.Error(err))
	}
	subs, err := repository.NewSubCategoryRepository(mongoDB.DB).List(ctx, repository.ListFilter{})
	if err != nil {
		zap.L().Fatal("Failed to load sub categories", zap.Error(err))
	}
	idx := newIndex(categories, subs)

	products := repository.NewProductRepository(mongoDB.DB)
	all, err := products.Find(ctx, bson.M{}, repository.FindOptions{})
	if err != nil {
		zap.L().Fatal("Failed to load products", zap.Error(err))
	}

	var updated, unmatched int
	for _, p := range all {
		set := idx.refs(p)
		if set == nil {
			if _, ok := idx.categories[slug.Make(p.Category)]; !ok {
				unmatched++
			}
			continue
		}
		if *dryRun {
			zap.L().Info("Would update product", zap.String("id", p.ID.Hex()), zap.Any("set", set))
			updated++
			continue
		}
		if _, err := products.Update(ctx, p.ID, set); err != nil {
			zap.L().Error("Failed to update product", zap.String("id", p.ID.Hex()), zap.Error(err))
			continue
		}
		updated++
	}
	fmt.Printf("Backfill complete. scanned=%d updated=%d unmatched=%d dry_run=%t\n", len(all), updated, unmatched, *dryRun)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
