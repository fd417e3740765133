package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a top-level shop category. Slug is unique across categories.
type Category struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug,omitempty"`
	ImageURL    string             `json:"imageUrl" bson:"imageUrl"`
	RedirectURL string             `json:"redirectUrl" bson:"redirectUrl"`
	Priority    int                `json:"priority" bson:"priority"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SubCategory belongs to exactly one Category. Slug is unique per parent.
type SubCategory struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	CategoryID  primitive.ObjectID `json:"-" bson:"category"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug,omitempty"`
	ImageURL    string             `json:"imageUrl" bson:"imageUrl"`
	RedirectURL string             `json:"redirectUrl" bson:"redirectUrl"`
	Priority    int                `json:"priority" bson:"priority"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CategoryRef is the identity block returned alongside scoped listings and
// embedded in sub-category responses.
type CategoryRef struct {
	ID       primitive.ObjectID `json:"_id"`
	Name     string             `json:"name"`
	Slug     string             `json:"slug,omitempty"`
	Priority *int               `json:"priority,omitempty"`
}

// SubCategoryView is a SubCategory with its parent expanded.
type SubCategoryView struct {
	SubCategory
	Category *CategoryRef `json:"category"`
}

// Hero is a promotional banner on the storefront home page.
type Hero struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ImageURL  string             `json:"imageUrl" bson:"imageUrl"`
	LinkURL   string             `json:"linkUrl" bson:"linkUrl"`
	Title     string             `json:"title" bson:"title"`
	Priority  int                `json:"priority" bson:"priority"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
