package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product categories form a fixed set; anything else is rejected at the API boundary.
const (
	CategoryEarrings    = "earrings"
	CategoryClips       = "clips"
	CategoryNecklaces   = "necklaces"
	CategoryBracelets   = "bracelets"
	CategoryAccessories = "accessories"
)

// Categories lists every valid product category.
var Categories = []string{
	CategoryEarrings,
	CategoryClips,
	CategoryNecklaces,
	CategoryBracelets,
	CategoryAccessories,
}

// ValidCategory reports whether c is a known product category.
func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// Ratings holds the aggregated review score of a product.
type Ratings struct {
	Average float64 `json:"average" bson:"average" validate:"gte=0,lte=5"`
	Count   int     `json:"count" bson:"count" validate:"gte=0"`
}

// Product represents a purchasable item in the catalog.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required,min=1,max=200"`
	Description string             `json:"description" bson:"description" validate:"required"`
	Price       float64            `json:"price" bson:"price" validate:"gte=0"`
	Category    string             `json:"category" bson:"category" validate:"required,oneof=earrings clips necklaces bracelets accessories"`
	Images      []string           `json:"images" bson:"images"`
	Stock       int                `json:"stock" bson:"stock" validate:"gte=0"`
	Featured    bool               `json:"featured" bson:"featured"`
	Ratings     Ratings            `json:"ratings" bson:"ratings"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}
