package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Narayandwivedi/abcdmarket/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("products"),
	}
}

// EnsureIndexes creates the indexes the catalog queries rely on.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: models.FieldSlug, Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: models.FieldIsActive, Value: 1}, {Key: models.FieldCategory, Value: 1}, {Key: models.FieldSubCategory, Value: 1}}},
		{Keys: bson.D{{Key: models.FieldSellerID, Value: 1}, {Key: models.FieldCreatedAt, Value: -1}}},
		{Keys: bson.D{{Key: models.FieldPrice, Value: 1}}},
	})
	return err
}

func (r *ProductRepository) Find(ctx context.Context, filter bson.M, opts FindOptions) ([]models.Product, error) {
	findOptions := options.Find()
	if len(opts.Sort) > 0 {
		findOptions.SetSort(opts.Sort)
	}
	if opts.Skip > 0 {
		findOptions.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOptions.SetLimit(opts.Limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}

// Facets collects the distinct non-null values of fields across every
// document matching filter in a single $group pass.
func (r *ProductRepository) Facets(ctx context.Context, filter bson.M, fields ...string) (map[string][]string, error) {
	out := make(map[string][]string, len(fields))
	if len(fields) == 0 {
		return out, nil
	}

	group := bson.M{"_id": nil}
	for _, f := range fields {
		group[f] = bson.M{"$addToSet": "$" + f}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: group}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, f := range fields {
		out[f] = []string{}
	}
	if len(rows) == 0 {
		return out, nil
	}
	for _, f := range fields {
		values, _ := rows[0][f].(bson.A)
		for _, v := range values {
			if s, ok := v.(string); ok {
				out[f] = append(out[f], s)
			}
		}
	}
	return out, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return r.findOne(ctx, bson.M{models.FieldID: id})
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{models.FieldSlug: slug})
}

func (r *ProductRepository) ExistsByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{models.FieldID: id}, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *ProductRepository) FindActiveIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	found := make(map[primitive.ObjectID]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	cursor, err := r.collection.Find(ctx,
		bson.M{models.FieldID: bson.M{"$in": ids}, models.FieldIsActive: true},
		options.Find().SetProjection(bson.M{models.FieldID: 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		found[row.ID] = true
	}
	return found, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return r.Find(ctx, bson.M{models.FieldID: bson.M{"$in": ids}}, FindOptions{})
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	stampNew(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	_, err := r.collection.InsertOne(ctx, product)
	return duplicate(err)
}

// InsertMany writes products unordered so one duplicate slug does not
// abort the batch. It returns how many documents were inserted.
func (r *ProductRepository) InsertMany(ctx context.Context, products []models.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(products))
	for i := range products {
		stampNew(&products[i].ID, &products[i].CreatedAt, &products[i].UpdatedAt)
		docs[i] = products[i]
	}
	res, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if res != nil {
		return len(res.InsertedIDs), err
	}
	return 0, err
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	return r.findOneAndUpdate(ctx, bson.M{models.FieldID: id}, set, nil)
}

// UpdateForSeller applies set and unset only when the product is owned by
// sellerID.
func (r *ProductRepository) UpdateForSeller(ctx context.Context, id, sellerID primitive.ObjectID, set bson.M, unset []string) (*models.Product, error) {
	return r.findOneAndUpdate(ctx, bson.M{models.FieldID: id, models.FieldSellerID: sellerID}, set, unset)
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{models.FieldID: id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *ProductRepository) DeleteForSeller(ctx context.Context, id, sellerID primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{models.FieldID: id, models.FieldSellerID: sellerID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *ProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *ProductRepository) findOne(ctx context.Context, filter bson.M) (*models.Product, error) {
	var product models.Product
	if err := r.collection.FindOne(ctx, filter).Decode(&product); err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *ProductRepository) findOneAndUpdate(ctx context.Context, filter, set bson.M, unset []string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, updateDoc(set, unset),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// updateDoc builds a $set/$unset update that always stamps updatedAt.
func updateDoc(set bson.M, unset []string) bson.M {
	fields := bson.M{models.FieldUpdatedAt: time.Now().UTC()}
	for k, v := range set {
		fields[k] = v
	}
	update := bson.M{"$set": fields}
	if len(unset) > 0 {
		u := bson.M{}
		for _, f := range unset {
			u[f] = ""
		}
		update["$unset"] = u
	}
	return update
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return duplicate(err)
}

func duplicate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
