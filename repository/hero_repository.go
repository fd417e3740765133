package repository

import (
	"context"

	"github.com/Narayandwivedi/abcdmarket/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type HeroRepository struct {
	collection *mongo.Collection
}

func NewHeroRepository(db *mongo.Database) *HeroRepository {
	return &HeroRepository{
		collection: db.Collection("heroes"),
	}
}

func (r *HeroRepository) Collection() *mongo.Collection { return r.collection }

func (r *HeroRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: models.FieldIsActive, Value: 1}, {Key: models.FieldPriority, Value: 1}, {Key: models.FieldCreatedAt, Value: 1}},
	})
	return err
}

func (r *HeroRepository) List(ctx context.Context, f ListFilter) ([]models.Hero, error) {
	filter := bson.M{}
	if f.ActiveOnly {
		filter[models.FieldIsActive] = true
	}
	return listOrdered[models.Hero](ctx, r.collection, filter, f.Limit)
}

func (r *HeroRepository) Create(ctx context.Context, hero *models.Hero) error {
	stampNew(&hero.ID, &hero.CreatedAt, &hero.UpdatedAt)
	_, err := r.collection.InsertOne(ctx, hero)
	return duplicate(err)
}

func (r *HeroRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Hero, error) {
	return updateByID[models.Hero](ctx, r.collection, id, set)
}

func (r *HeroRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id)
}
