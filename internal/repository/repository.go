package repository

import (
	"context"

	model "smart-deals/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MarketStore defines the document storage interface for the marketplace.
// Listing filters are exact-match; empty filter strings mean "no filter".
type MarketStore interface {
	// EnsureUser inserts the user if no record with the same email exists.
	// It reports whether a new record was created. The insert-if-absent is
	// atomic; concurrent identical registrations yield exactly one record.
	EnsureUser(ctx context.Context, user model.User) (model.User, bool, error)

	ListProducts(ctx context.Context, ownerEmail string) ([]model.Product, error)
	LatestProducts(ctx context.Context, limit int64) ([]model.Product, error)
	GetProductByID(ctx context.Context, id primitive.ObjectID) (model.Product, error)
	InsertProduct(ctx context.Context, product model.Product) (primitive.ObjectID, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, update model.ProductUpdate) (matched, modified int64, err error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (int64, error)

	ListBids(ctx context.Context, buyerEmail string) ([]model.Bid, error)
	ListBidsByProduct(ctx context.Context, productID string) ([]model.Bid, error)
	InsertBid(ctx context.Context, bid model.Bid) (primitive.ObjectID, error)
	DeleteBid(ctx context.Context, id primitive.ObjectID) (int64, error)
}
