package services

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Narayandwivedi/abcdmarket/models"
	"github.com/Narayandwivedi/abcdmarket/pkg/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// AllFilter disables a category, sub-category or brand filter.
	AllFilter = "all"

	DefaultSearchLimit   = 20
	DefaultCategoryLimit = 16
	MaxPageLimit         = 100

	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
	SortName      = "name"
)

// searchFields are matched against every expanded search pattern.
var searchFields = []string{
	models.FieldSEOTitle,
	models.FieldDescription,
	models.FieldBrand,
	models.FieldModel,
	models.FieldCategory,
	models.FieldSubCategory,
	models.FieldKeywords,
}

// SearchParams are the optional catalog filters. Nil price bounds are not
// applied.
type SearchParams struct {
	Query       string
	Category    string
	SubCategory string
	Brand       string
	MinPrice    *float64
	MaxPrice    *float64
	Sort        string
	Page        int
	Limit       int
}

// Facets are the distinct values present in a matching set.
type Facets struct {
	Brands        []string `json:"brands,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	SubCategories []string `json:"subCategories,omitempty"`
}

// ExpandSearchTerms turns a free-text query into its match terms: the
// literal term, its singular or plural toggle, and each word longer than two
// characters with the same toggle. Duplicates are dropped, order is kept.
func ExpandSearchTerms(q string) []string {
	term := strings.TrimSpace(q)
	if term == "" {
		return nil
	}

	var terms []string
	seen := make(map[string]bool)
	add := func(t string) {
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		terms = append(terms, t)
	}

	add(term)
	add(togglePlural(term))
	for _, word := range strings.Fields(term) {
		if utf8.RuneCountInString(word) > 2 {
			add(word)
			add(togglePlural(word))
		}
	}
	return terms
}

func togglePlural(word string) string {
	if strings.HasSuffix(word, "s") || strings.HasSuffix(word, "S") {
		return word[:len(word)-1]
	}
	return word + "s"
}

// BuildSearchFilter translates p into a product filter. Only active products
// are eligible; every regex is built from escaped input.
func BuildSearchFilter(p SearchParams) bson.M {
	filter := bson.M{models.FieldIsActive: true}

	if terms := ExpandSearchTerms(p.Query); len(terms) > 0 {
		filter["$or"] = textConditions(terms)
	}
	if isSet(p.Category) {
		filter[models.FieldCategory] = exactName(p.Category)
	}
	if isSet(p.SubCategory) {
		filter[models.FieldSubCategory] = exactName(p.SubCategory)
	}
	if isSet(p.Brand) {
		filter[models.FieldBrand] = contains(strings.TrimSpace(p.Brand))
	}
	if p.MinPrice != nil || p.MaxPrice != nil {
		price := bson.M{}
		if p.MinPrice != nil {
			price["$gte"] = *p.MinPrice
		}
		if p.MaxPrice != nil {
			price["$lte"] = *p.MaxPrice
		}
		filter[models.FieldPrice] = price
	}
	return filter
}

// textConditions ORs every field against every term. Specification keys and
// values are matched through one $expr over the map's entries.
func textConditions(terms []string) bson.A {
	patterns := make([]string, len(terms))
	for i, t := range terms {
		patterns[i] = slug.EscapeRegex(t)
	}

	conditions := make(bson.A, 0, len(patterns)*len(searchFields)+1)
	for _, pattern := range patterns {
		for _, field := range searchFields {
			conditions = append(conditions, bson.M{field: primitive.Regex{Pattern: pattern, Options: "i"}})
		}
	}
	conditions = append(conditions, specificationMatch(strings.Join(patterns, "|")))
	return conditions
}

func specificationMatch(pattern string) bson.M {
	regexMatch := func(input interface{}) bson.M {
		return bson.M{"$regexMatch": bson.M{"input": input, "regex": pattern, "options": "i"}}
	}
	entries := bson.M{"$objectToArray": bson.M{"$ifNull": bson.A{"$" + models.FieldSpecifications, bson.M{}}}}
	return bson.M{"$expr": bson.M{"$gt": bson.A{
		bson.M{"$size": bson.M{"$filter": bson.M{
			"input": entries,
			"as":    "spec",
			"cond": bson.M{"$or": bson.A{
				regexMatch("$$spec.k"),
				regexMatch(bson.M{"$toString": "$$spec.v"}),
			}},
		}}},
		0,
	}}}
}

func isSet(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, AllFilter)
}

func exactName(name string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + slug.EscapeRegex(strings.TrimSpace(name)) + "$", Options: "i"}
}

func contains(s string) primitive.Regex {
	return primitive.Regex{Pattern: slug.EscapeRegex(s), Options: "i"}
}

// NormalizeSort maps unknown sort modes to relevance.
func NormalizeSort(mode string) string {
	switch mode {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortName:
		return mode
	default:
		return SortRelevance
	}
}

// BuildSort returns the sort document for mode. Relevance is newest first.
// Every order ends on _id so equal keys paginate deterministically.
func BuildSort(mode string) bson.D {
	switch NormalizeSort(mode) {
	case SortPriceAsc:
		return bson.D{{Key: models.FieldPrice, Value: 1}, {Key: models.FieldID, Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: models.FieldPrice, Value: -1}, {Key: models.FieldID, Value: -1}}
	case SortName:
		return bson.D{{Key: models.FieldSEOTitle, Value: 1}, {Key: models.FieldID, Value: 1}}
	default:
		return bson.D{{Key: models.FieldCreatedAt, Value: -1}, {Key: models.FieldID, Value: -1}}
	}
}

// NormalizePage defaults page to 1 and limit to defaultLimit, capping limit
// at MaxPageLimit.
func NormalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Skip is the number of records before page.
func Skip(page, limit int) int64 {
	return int64(page-1) * int64(limit)
}

func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// NormalizeFacetValues drops empty values, deduplicates and sorts.
func NormalizeFacetValues(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
