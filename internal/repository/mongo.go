package repository

import (
	"context"
	"errors"
	"fmt"

	"smart-deals/internal/marketerrors"
	model "smart-deals/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore is the MongoDB-backed implementation of MarketStore. It holds
// one collection handle per document type; the driver manages pooling on the
// shared client.
type MongoStore struct {
	users    *mongo.Collection
	products *mongo.Collection
	bids     *mongo.Collection
}

// Connect dials MongoDB with Server API v1 and verifies the deployment with
// a ping before returning the client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: failed to connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo: failed to ping deployment: %w", err)
	}

	return client, nil
}

// NewMongoStore creates a MarketStore over the named database.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		users:    db.Collection("users"),
		products: db.Collection("products"),
		bids:     db.Collection("bids"),
	}
}

// EnsureUser performs an atomic insert-if-absent keyed by email. $setOnInsert
// with upsert leaves an existing record untouched in a single round-trip, so
// concurrent identical registrations cannot produce duplicates.
func (s *MongoStore) EnsureUser(ctx context.Context, user model.User) (model.User, bool, error) {
	filter := bson.M{"email": user.Email}
	update := bson.M{"$setOnInsert": user}

	res, err := s.users.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return model.User{}, false, fmt.Errorf("mongo: failed to ensure user %s: %w", user.Email, err)
	}

	if res.UpsertedCount > 0 {
		if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
			user.ID = id
		}
		return user, true, nil
	}

	var existing model.User
	if err := s.users.FindOne(ctx, filter).Decode(&existing); err != nil {
		return model.User{}, false, fmt.Errorf("mongo: failed to load existing user %s: %w", user.Email, err)
	}
	return existing, false, nil
}

// ListProducts returns all products, or only those owned by ownerEmail when
// it is non-empty.
func (s *MongoStore) ListProducts(ctx context.Context, ownerEmail string) ([]model.Product, error) {
	filter := bson.M{}
	if ownerEmail != "" {
		filter["email"] = ownerEmail
	}

	cursor, err := s.products.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongo: failed to list products: %w", err)
	}

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("mongo: failed to decode products: %w", err)
	}
	return products, nil
}

// LatestProducts returns at most limit products, newest first.
func (s *MongoStore) LatestProducts(ctx context.Context, limit int64) ([]model.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: failed to list latest products: %w", err)
	}

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("mongo: failed to decode latest products: %w", err)
	}
	return products, nil
}

// GetProductByID returns the product with the given id.
func (s *MongoStore) GetProductByID(ctx context.Context, id primitive.ObjectID) (model.Product, error) {
	var product model.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Product{}, fmt.Errorf("mongo: get product %s: %w", id.Hex(), marketerrors.ErrProductNotFound)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("mongo: failed to get product %s: %w", id.Hex(), err)
	}
	return product, nil
}

// InsertProduct stores a new product and returns its generated id.
func (s *MongoStore) InsertProduct(ctx context.Context, product model.Product) (primitive.ObjectID, error) {
	res, err := s.products.InsertOne(ctx, product)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("mongo: failed to insert product: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// UpdateProduct applies a partial update to name and price. Nil fields are
// skipped; an update with no fields reports the match without a write.
func (s *MongoStore) UpdateProduct(ctx context.Context, id primitive.ObjectID, update model.ProductUpdate) (int64, int64, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}

	if len(set) == 0 {
		count, err := s.products.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return 0, 0, fmt.Errorf("mongo: failed to match product %s: %w", id.Hex(), err)
		}
		return count, 0, nil
	}

	res, err := s.products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, 0, fmt.Errorf("mongo: failed to update product %s: %w", id.Hex(), err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// DeleteProduct removes the product and returns the deleted count. Deleting
// a missing id is not an error.
func (s *MongoStore) DeleteProduct(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("mongo: failed to delete product %s: %w", id.Hex(), err)
	}
	return res.DeletedCount, nil
}

// ListBids returns bids sorted by bid_price descending, optionally filtered
// by buyer email.
func (s *MongoStore) ListBids(ctx context.Context, buyerEmail string) ([]model.Bid, error) {
	filter := bson.M{}
	if buyerEmail != "" {
		filter["buyer_email"] = buyerEmail
	}
	return s.findBids(ctx, filter)
}

// ListBidsByProduct returns bids referencing the product id, sorted by
// bid_price descending. The reference is a plain string and is not checked
// against the products collection.
func (s *MongoStore) ListBidsByProduct(ctx context.Context, productID string) ([]model.Bid, error) {
	return s.findBids(ctx, bson.M{"product": productID})
}

func (s *MongoStore) findBids(ctx context.Context, filter bson.M) ([]model.Bid, error) {
	opts := options.Find().SetSort(bson.D{{Key: "bid_price", Value: -1}})

	cursor, err := s.bids.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: failed to list bids: %w", err)
	}

	var bids []model.Bid
	if err := cursor.All(ctx, &bids); err != nil {
		return nil, fmt.Errorf("mongo: failed to decode bids: %w", err)
	}
	return bids, nil
}

// InsertBid stores a new bid and returns its generated id.
func (s *MongoStore) InsertBid(ctx context.Context, bid model.Bid) (primitive.ObjectID, error) {
	res, err := s.bids.InsertOne(ctx, bid)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("mongo: failed to insert bid: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// DeleteBid removes the bid and returns the deleted count.
func (s *MongoStore) DeleteBid(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.bids.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("mongo: failed to delete bid %s: %w", id.Hex(), err)
	}
	return res.DeletedCount, nil
}
