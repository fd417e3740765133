package repository

import (
	"context"

	"github.com/Narayandwivedi/abcdmarket/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		collection: db.Collection("categories"),
	}
}

// Collection exposes the underlying collection for priority updates.
func (r *CategoryRepository) Collection() *mongo.Collection { return r.collection }

// categoryIndexes leaves name non-unique: two categories may share a name
// and are told apart by their slugs.
func categoryIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: models.FieldSlug, Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: models.FieldIsActive, Value: 1}, {Key: models.FieldPriority, Value: 1}, {Key: models.FieldCreatedAt, Value: 1}}},
	}
}

func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, categoryIndexes())
	return err
}

func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return findOneDoc[models.Category](ctx, r.collection, bson.M{models.FieldID: id})
}

func (r *CategoryRepository) FindActiveBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return findOneDoc[models.Category](ctx, r.collection, bson.M{models.FieldSlug: slug, models.FieldIsActive: true})
}

func (r *CategoryRepository) List(ctx context.Context, f ListFilter) ([]models.Category, error) {
	filter := bson.M{}
	if f.ActiveOnly {
		filter[models.FieldIsActive] = true
	}
	return listOrdered[models.Category](ctx, r.collection, filter, f.Limit)
}

func (r *CategoryRepository) SlugExists(ctx context.Context, slug string, excludeID *primitive.ObjectID) (bool, error) {
	return slugTaken(ctx, r.collection, nil, slug, excludeID)
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	stampNew(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	_, err := r.collection.InsertOne(ctx, category)
	return duplicate(err)
}

func (r *CategoryRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error) {
	return updateByID[models.Category](ctx, r.collection, id, set)
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id)
}
