package main

import (
	"testing"

	"github.com/Narayandwivedi/abcdmarket/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIndexRefs(t *testing.T) {
	parts := models.Category{ID: primitive.NewObjectID(), Name: "PC Parts", Slug: "pc-parts"}
	gpu := models.SubCategory{ID: primitive.NewObjectID(), CategoryID: parts.ID, Name: "Graphics Card", Slug: "graphics-card"}
	idx := newIndex([]models.Category{parts}, []models.SubCategory{gpu})

	set := idx.refs(models.Product{Category: "pc-parts", SubCategory: "Graphics Card"})
	assert.Equal(t, parts.ID, set[models.FieldCategoryID])
	assert.Equal(t, gpu.ID, set[models.FieldSubCategoryID])

	set = idx.refs(models.Product{Category: "PC Parts", SubCategory: "unknown"})
	assert.Equal(t, parts.ID, set[models.FieldCategoryID])
	assert.NotContains(t, set, models.FieldSubCategoryID)

	assert.Nil(t, idx.refs(models.Product{Category: "Groceries"}))

	linked := models.Product{Category: "pc-parts", CategoryID: &parts.ID, SubCategory: "graphics-card", SubCategoryID: &gpu.ID}
	assert.Nil(t, idx.refs(linked), "already linked products are left alone")
}
