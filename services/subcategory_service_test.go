package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newSubCategoryFixture() (*SubCategoryService, *fakeSubCategoryRepo, models.Category, models.Category) {
	fruits := models.Category{ID: primitive.NewObjectID(), Name: "Fruits", Slug: "fruits", Priority: 3, IsActive: true}
	dairy := models.Category{ID: primitive.NewObjectID(), Name: "Dairy", Slug: "dairy", Priority: 1, IsActive: true}
	categories := &fakeCategoryRepo{items: []models.Category{fruits, dairy}}
	subs := &fakeSubCategoryRepo{}
	return NewSubCategoryService(subs, categories, nil), subs, fruits, dairy
}

func TestSubCategoryCreateValidationOrder(t *testing.T) {
	svc, _, fruits, _ := newSubCategoryFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   SubCategoryInput
		code int
		msg  string
	}{
		{"missing category", SubCategoryInput{Name: strPtr("Apples")}, http.StatusBadRequest, "category is required"},
		{"bad category", SubCategoryInput{CategoryID: strPtr("nope")}, http.StatusBadRequest, "Invalid category id"},
		{"unknown category", SubCategoryInput{CategoryID: strPtr(primitive.NewObjectID().Hex())}, http.StatusNotFound, "Category not found"},
		{"missing name", SubCategoryInput{CategoryID: strPtr(fruits.ID.Hex())}, http.StatusBadRequest, "name is required"},
		{"missing image", SubCategoryInput{CategoryID: strPtr(fruits.ID.Hex()), Name: strPtr("Apples")}, http.StatusBadRequest, "imageUrl is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			assertCode(t, err, tc.code)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestSubCategorySlugsAreScopedToParent(t *testing.T) {
	svc, _, fruits, dairy := newSubCategoryFixture()
	ctx := context.Background()

	create := func(parent models.Category) *models.SubCategoryView {
		v, err := svc.Create(ctx, SubCategoryInput{
			CategoryID: strPtr(parent.ID.Hex()),
			Name:       strPtr("Organic"),
			ImageURL:   strPtr("o.png"),
		})
		require.NoError(t, err)
		return v
	}

	a := create(fruits)
	b := create(fruits)
	c := create(dairy)

	assert.Equal(t, "organic", a.Slug)
	assert.Equal(t, "organic-2", b.Slug)
	assert.Equal(t, "organic", c.Slug)
	require.NotNil(t, a.Category)
	assert.Equal(t, "Fruits", a.Category.Name)
	assert.Equal(t, DefaultPriority, a.Priority)
	assert.True(t, a.IsActive)
}

func TestSubCategoryMoveRegeneratesSlugInNewParent(t *testing.T) {
	svc, _, fruits, dairy := newSubCategoryFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, SubCategoryInput{CategoryID: strPtr(dairy.ID.Hex()), Name: strPtr("Organic"), ImageURL: strPtr("o.png")})
	require.NoError(t, err)
	moving, err := svc.Create(ctx, SubCategoryInput{CategoryID: strPtr(fruits.ID.Hex()), Name: strPtr("Organic"), ImageURL: strPtr("o.png")})
	require.NoError(t, err)
	assert.Equal(t, "organic", moving.Slug)

	moved, err := svc.Update(ctx, moving.ID, SubCategoryInput{CategoryID: strPtr(dairy.ID.Hex())})
	require.NoError(t, err)
	assert.Equal(t, "organic-2", moved.Slug)
	require.NotNil(t, moved.Category)
	assert.Equal(t, dairy.ID, moved.Category.ID)

	_, err = svc.Update(ctx, primitive.NewObjectID(), SubCategoryInput{Name: strPtr("x")})
	assertCode(t, err, http.StatusNotFound)
}

func TestSubCategoryListsPopulateParent(t *testing.T) {
	svc, subs, fruits, dairy := newSubCategoryFixture()
	orphan := primitive.NewObjectID()
	subs.items = []models.SubCategory{
		{ID: primitive.NewObjectID(), CategoryID: fruits.ID, Name: "Apples", Slug: "apples", Priority: 1, IsActive: true},
		{ID: primitive.NewObjectID(), CategoryID: dairy.ID, Name: "Milk", Priority: 2, IsActive: true},
		{ID: primitive.NewObjectID(), CategoryID: orphan, Name: "Lost", Priority: 3, IsActive: false},
	}
	ctx := context.Background()

	public, err := svc.ListPublic(ctx, "", nil)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Nil(t, public[0].Category.Priority)
	assert.Equal(t, "milk", public[1].Slug)

	scoped, err := svc.ListPublic(ctx, fruits.ID.Hex(), nil)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Apples", scoped[0].Name)

	_, err = svc.ListPublic(ctx, "bad", nil)
	assertCode(t, err, http.StatusBadRequest)

	all, err := svc.ListAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.NotNil(t, all[0].Category.Priority)
	assert.Equal(t, 3, *all[0].Category.Priority)
	assert.Nil(t, all[2].Category)
}

func TestSubCategoryReorderChecksParent(t *testing.T) {
	fruits := models.Category{ID: primitive.NewObjectID(), Name: "Fruits"}
	dairy := models.Category{ID: primitive.NewObjectID(), Name: "Dairy"}
	store, ids := newFakePriorityStore(&fruits.ID, 2)
	subs := &fakeSubCategoryRepo{items: []models.SubCategory{
		{ID: ids[0], CategoryID: fruits.ID, Name: "A"},
		{ID: ids[1], CategoryID: fruits.ID, Name: "B"},
	}}
	svc := NewSubCategoryService(subs, &fakeCategoryRepo{items: []models.Category{fruits, dairy}}, store)
	ctx := context.Background()

	_, err := svc.Reorder(ctx, hexes(ids[1], ids[0]), "not-an-id")
	assertCode(t, err, http.StatusBadRequest)

	_, err = svc.Reorder(ctx, hexes(ids[1], ids[0]), primitive.NewObjectID().Hex())
	assertCode(t, err, http.StatusNotFound)

	_, err = svc.Reorder(ctx, hexes(ids[1], ids[0]), dairy.ID.Hex())
	assertCode(t, err, http.StatusBadRequest)
	assert.Zero(t, store.writes)

	views, err := svc.Reorder(ctx, hexes(ids[1], ids[0]), fruits.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, 1, store.priorities[ids[1]])
	assert.Equal(t, 2, store.priorities[ids[0]])
}
