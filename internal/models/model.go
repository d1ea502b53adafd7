package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a marketplace account, keyed logically by email
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	PhotoURL  string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// Product represents an item listed for bidding
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email       string             `bson:"email" json:"email"`
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
	PriceMin    float64            `bson:"price_min,omitempty" json:"price_min,omitempty"`
	PriceMax    float64            `bson:"price_max,omitempty" json:"price_max,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Bid represents an offer on a product. Product holds the product's hex id
// as a plain string and is never validated against the products collection.
type Bid struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Product    string             `bson:"product" json:"product"`
	BuyerEmail string             `bson:"buyer_email" json:"buyer_email"`
	BidPrice   float64            `bson:"bid_price" json:"bid_price"`
	CreatedAt  time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// ProductUpdate carries the mutable product fields for a partial update.
// Nil fields are left untouched on the stored document.
type ProductUpdate struct {
	Name  *string
	Price *float64
}
