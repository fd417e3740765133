package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the customer document. Only the fields the storefront API reads
// are mapped; the cart is embedded and owned exclusively by the user.
type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	FullName  string             `json:"fullName" bson:"fullName"`
	Email     string             `json:"email" bson:"email"`
	Role      string             `json:"role" bson:"role"`
	Cart      Cart               `json:"cart" bson:"cart"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
