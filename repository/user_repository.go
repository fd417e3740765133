package repository

import (
	"context"
	"time"

	"github.com/Narayandwivedi/abcdmarket/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOneDoc[models.User](ctx, r.collection, bson.M{models.FieldID: id})
}

// SaveCart replaces the embedded cart wholesale.
func (r *UserRepository) SaveCart(ctx context.Context, id primitive.ObjectID, cart models.Cart) error {
	if cart == nil {
		cart = models.Cart{}
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{models.FieldID: id},
		bson.M{"$set": bson.M{models.FieldCart: cart, models.FieldUpdatedAt: time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
