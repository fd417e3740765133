package controllers

import (
	"context"
	"testing"

	"github.com/Narayandwivedi/abcdmarket/services"

	"github.com/stretchr/testify/assert"
)

func TestSearchCacheKeyNormalizes(t *testing.T) {
	minPrice := 10.0
	a := SearchCacheKey(services.SearchParams{Query: "Apple", Brand: "ACME", MinPrice: &minPrice, Sort: "bogus"})
	b := SearchCacheKey(services.SearchParams{Query: "Apple", Brand: "acme", MinPrice: &minPrice, Page: 1, Limit: services.DefaultSearchLimit})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, SearchCacheKey(services.SearchParams{Query: "apple", Brand: "acme", MinPrice: &minPrice}))
}

func TestSearchCacheKeySeparatesDelimitedValues(t *testing.T) {
	a := SearchCacheKey(services.SearchParams{Query: "a:c:", Category: "b"})
	b := SearchCacheKey(services.SearchParams{Query: "a", Category: ":c:b"})
	assert.NotEqual(t, a, b)

	c := CategorySlugCacheKey(services.CategorySlugParams{CategorySlug: "fruit:sc:", SubCategorySlug: "x"})
	d := CategorySlugCacheKey(services.CategorySlugParams{CategorySlug: "fruit", SubCategorySlug: ":sc:x"})
	assert.NotEqual(t, c, d)
}

func TestCategorySlugCacheKeyNormalizes(t *testing.T) {
	a := CategorySlugCacheKey(services.CategorySlugParams{CategorySlug: "Fruits", SubCategorySlug: "Apples"})
	b := CategorySlugCacheKey(services.CategorySlugParams{CategorySlug: "fruits", SubCategorySlug: "apples", Page: 1})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, SearchCacheKey(services.SearchParams{Category: "fruits", SubCategory: "apples"}))
}

func TestCacheManagerToleratesUnavailableRedis(t *testing.T) {
	cm := NewCacheManager(newTestRedisClient(), 0)

	_, ok := cm.Get(context.Background(), "k")
	assert.False(t, ok)
	cm.Invalidate(context.Background())

	var disabled *CacheManager
	_, ok = disabled.Get(context.Background(), "k")
	assert.False(t, ok)
	disabled.SetAsync("k", map[string]interface{}{"a": 1})
}
