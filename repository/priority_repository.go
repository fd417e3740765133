package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Narayandwivedi/abcdmarket/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// illegalOperation is returned by standalone servers for transactional writes.
const illegalOperation = 20

// PriorityRepository reorders the documents of one collection. parentField
// names the field holding the parent id, or is empty for flat collections.
type PriorityRepository struct {
	client      *mongo.Client
	collection  *mongo.Collection
	parentField string
}

func NewPriorityRepository(client *mongo.Client, collection *mongo.Collection, parentField string) *PriorityRepository {
	return &PriorityRepository{client: client, collection: collection, parentField: parentField}
}

func (r *PriorityRepository) FindOrderable(ctx context.Context, ids []primitive.ObjectID) ([]Orderable, error) {
	if len(ids) == 0 {
		return []Orderable{}, nil
	}
	projection := bson.M{models.FieldID: 1}
	if r.parentField != "" {
		projection[r.parentField] = 1
	}
	cursor, err := r.collection.Find(ctx,
		bson.M{models.FieldID: bson.M{"$in": ids}},
		options.Find().SetProjection(projection),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]Orderable, 0, len(rows))
	for _, row := range rows {
		id, _ := row[models.FieldID].(primitive.ObjectID)
		o := Orderable{ID: id}
		if r.parentField != "" {
			if parent, ok := row[r.parentField].(primitive.ObjectID); ok {
				o.ParentID = &parent
			}
		}
		out = append(out, o)
	}
	return out, nil
}

// ApplyPriorities writes every priority inside one transaction. Deployments
// without transaction support get the same ordered bulk write without it;
// re-submitting the same ids is always safe.
func (r *PriorityRepository) ApplyPriorities(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, len(ids))
	for i, id := range ids {
		writes[i] = mongo.NewUpdateOneModel().
			SetFilter(bson.M{models.FieldID: id}).
			SetUpdate(bson.M{"$set": bson.M{models.FieldPriority: i + 1, models.FieldUpdatedAt: now}})
	}
	bulkOpts := options.BulkWrite().SetOrdered(true)

	if r.client != nil {
		err := r.inTransaction(ctx, func(sc mongo.SessionContext) error {
			_, err := r.collection.BulkWrite(sc, writes, bulkOpts)
			return err
		})
		if err == nil || !transactionsUnsupported(err) {
			return err
		}
		zap.L().Warn("Transactions unsupported, applying priorities without one",
			zap.String("collection", r.collection.Name()))
	}

	_, err := r.collection.BulkWrite(ctx, writes, bulkOpts)
	return err
}

func (r *PriorityRepository) inTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func transactionsUnsupported(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(illegalOperation)
}
