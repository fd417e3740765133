package repository

import (
	"context"

	"github.com/Narayandwivedi/abcdmarket/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// parentField is where a sub-category stores its category id.
const parentField = "category"

type SubCategoryRepository struct {
	collection *mongo.Collection
}

func NewSubCategoryRepository(db *mongo.Database) *SubCategoryRepository {
	return &SubCategoryRepository{
		collection: db.Collection("subcategories"),
	}
}

func (r *SubCategoryRepository) Collection() *mongo.Collection { return r.collection }

// EnsureIndexes scopes name and slug uniqueness to the parent category.
func (r *SubCategoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: parentField, Value: 1}, {Key: models.FieldName, Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: parentField, Value: 1}, {Key: models.FieldSlug, Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{
			{Key: parentField, Value: 1},
			{Key: models.FieldIsActive, Value: 1},
			{Key: models.FieldPriority, Value: 1},
			{Key: models.FieldCreatedAt, Value: 1},
		}},
	})
	return err
}

func (r *SubCategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SubCategory, error) {
	return findOneDoc[models.SubCategory](ctx, r.collection, bson.M{models.FieldID: id})
}

func (r *SubCategoryRepository) FindActiveBySlug(ctx context.Context, categoryID primitive.ObjectID, slug string) (*models.SubCategory, error) {
	return findOneDoc[models.SubCategory](ctx, r.collection, bson.M{
		parentField:          categoryID,
		models.FieldSlug:     slug,
		models.FieldIsActive: true,
	})
}

func (r *SubCategoryRepository) List(ctx context.Context, f ListFilter) ([]models.SubCategory, error) {
	filter := bson.M{}
	if f.ActiveOnly {
		filter[models.FieldIsActive] = true
	}
	if f.ParentID != nil {
		filter[parentField] = *f.ParentID
	}
	return listOrdered[models.SubCategory](ctx, r.collection, filter, f.Limit)
}

func (r *SubCategoryRepository) SlugExists(ctx context.Context, categoryID primitive.ObjectID, slug string, excludeID *primitive.ObjectID) (bool, error) {
	return slugTaken(ctx, r.collection, bson.M{parentField: categoryID}, slug, excludeID)
}

func (r *SubCategoryRepository) Create(ctx context.Context, sub *models.SubCategory) error {
	stampNew(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	_, err := r.collection.InsertOne(ctx, sub)
	return duplicate(err)
}

func (r *SubCategoryRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.SubCategory, error) {
	return updateByID[models.SubCategory](ctx, r.collection, id, set)
}

func (r *SubCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id)
}
