package repository

import (
	"errors"
	"testing"

	"github.com/Narayandwivedi/abcdmarket/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestUpdateDocStampsUpdatedAt(t *testing.T) {
	doc := updateDoc(bson.M{models.FieldPrice: 10.0}, nil)

	set := doc["$set"].(bson.M)
	assert.Equal(t, 10.0, set[models.FieldPrice])
	assert.Contains(t, set, models.FieldUpdatedAt)
	assert.NotContains(t, doc, "$unset")

	doc = updateDoc(bson.M{}, []string{"originalPrice"})
	assert.Equal(t, bson.M{"originalPrice": ""}, doc["$unset"])
}

func TestErrorMapping(t *testing.T) {
	assert.ErrorIs(t, notFound(mongo.ErrNoDocuments), ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, duplicate(dup), ErrDuplicate)
	assert.ErrorIs(t, notFound(dup), ErrDuplicate)

	other := errors.New("boom")
	assert.Equal(t, other, duplicate(other))
	assert.Nil(t, duplicate(nil))
}

func TestTransactionsUnsupported(t *testing.T) {
	assert.True(t, transactionsUnsupported(mongo.CommandError{Code: illegalOperation, Message: "Transaction numbers are only allowed on a replica set member or mongos"}))
	assert.False(t, transactionsUnsupported(mongo.CommandError{Code: 112, Message: "WriteConflict"}))
	assert.False(t, transactionsUnsupported(errors.New("network")))
}

func TestCategoryIndexesOnlySlugIsUnique(t *testing.T) {
	for _, idx := range categoryIndexes() {
		keys := idx.Keys.(bson.D)
		unique := idx.Options != nil && idx.Options.Unique != nil && *idx.Options.Unique
		if keys[0].Key == models.FieldName {
			t.Fatalf("category name must not be indexed uniquely")
		}
		if unique {
			assert.Equal(t, bson.D{{Key: models.FieldSlug, Value: 1}}, keys)
			assert.True(t, *idx.Options.Sparse)
		}
	}
}
