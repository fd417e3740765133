package repository

import (
	"context"
	"time"

	"github.com/Narayandwivedi/abcdmarket/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// displayOrder is the listing order shared by every prioritized collection.
var displayOrder = bson.D{
	{Key: models.FieldPriority, Value: 1},
	{Key: models.FieldCreatedAt, Value: 1},
}

func listOrdered[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, limit int) ([]T, error) {
	opts := options.Find().SetSort(displayOrder)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findOneDoc[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return &doc, nil
}

func updateByID[T any](ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, set bson.M) (*T, error) {
	var doc T
	err := coll.FindOneAndUpdate(ctx, bson.M{models.FieldID: id}, updateDoc(set, nil),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	return &doc, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) (bool, error) {
	res, err := coll.DeleteOne(ctx, bson.M{models.FieldID: id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// slugTaken reports whether slug is used within scope by any document other
// than excludeID.
func slugTaken(ctx context.Context, coll *mongo.Collection, scope bson.M, slug string, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{models.FieldSlug: slug}
	for k, v := range scope {
		filter[k] = v
	}
	if excludeID != nil {
		filter[models.FieldID] = bson.M{"$ne": *excludeID}
	}
	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

func stampNew(id *primitive.ObjectID, createdAt, updatedAt *time.Time) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	*createdAt, *updatedAt = now, now
}
