package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"smart-deals/internal/marketerrors"
	model "smart-deals/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is a concurrency-safe in-memory implementation of MarketStore.
// It backs local runs without a MongoDB deployment and the integration
// tests. Generated ids are ObjectIDs so handlers see the same id format as
// with MongoStore.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]model.User                // key: email
	products map[primitive.ObjectID]model.Product // key: product id
	bids     map[primitive.ObjectID]model.Bid     // key: bid id
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]model.User),
		products: make(map[primitive.ObjectID]model.Product),
		bids:     make(map[primitive.ObjectID]model.Bid),
	}
}

// EnsureUser inserts the user unless the email is already taken. The check
// and insert happen under one write lock, matching MongoStore's atomicity.
func (s *MemoryStore) EnsureUser(_ context.Context, user model.User) (model.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[user.Email]; ok {
		return existing, false, nil
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.Email] = user
	return user, true, nil
}

// ListProducts returns all products, or only those owned by ownerEmail.
func (s *MemoryStore) ListProducts(_ context.Context, ownerEmail string) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if ownerEmail != "" && p.Email != ownerEmail {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// LatestProducts returns at most limit products, newest first.
func (s *MemoryStore) LatestProducts(_ context.Context, limit int64) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}

	sort.Slice(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].ID.Hex() > products[j].ID.Hex()
	})

	if int64(len(products)) > limit {
		products = products[:limit]
	}
	return products, nil
}

// GetProductByID returns the product with the given id.
func (s *MemoryStore) GetProductByID(_ context.Context, id primitive.ObjectID) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return model.Product{}, fmt.Errorf("memory: get product %s: %w", id.Hex(), marketerrors.ErrProductNotFound)
	}
	return product, nil
}

// InsertProduct stores a new product and returns its generated id.
func (s *MemoryStore) InsertProduct(_ context.Context, product model.Product) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	s.products[product.ID] = product
	return product.ID, nil
}

// UpdateProduct applies a partial update to name and price; nil fields are
// left untouched.
func (s *MemoryStore) UpdateProduct(_ context.Context, id primitive.ObjectID, update model.ProductUpdate) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return 0, 0, nil
	}

	var modified int64
	if update.Name != nil && product.Name != *update.Name {
		product.Name = *update.Name
		modified = 1
	}
	if update.Price != nil && product.Price != *update.Price {
		product.Price = *update.Price
		modified = 1
	}

	s.products[id] = product
	return 1, modified, nil
}

// DeleteProduct removes the product; a missing id yields count 0, no error.
func (s *MemoryStore) DeleteProduct(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return 0, nil
	}
	delete(s.products, id)
	return 1, nil
}

// ListBids returns bids sorted by bid_price descending, optionally filtered
// by buyer email.
func (s *MemoryStore) ListBids(_ context.Context, buyerEmail string) ([]model.Bid, error) {
	return s.collectBids(func(b model.Bid) bool {
		return buyerEmail == "" || b.BuyerEmail == buyerEmail
	}), nil
}

// ListBidsByProduct returns bids referencing the product id, sorted by
// bid_price descending.
func (s *MemoryStore) ListBidsByProduct(_ context.Context, productID string) ([]model.Bid, error) {
	return s.collectBids(func(b model.Bid) bool {
		return b.Product == productID
	}), nil
}

func (s *MemoryStore) collectBids(keep func(model.Bid) bool) []model.Bid {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := make([]model.Bid, 0, len(s.bids))
	for _, b := range s.bids {
		if keep(b) {
			bids = append(bids, b)
		}
	}

	sort.Slice(bids, func(i, j int) bool {
		if bids[i].BidPrice != bids[j].BidPrice {
			return bids[i].BidPrice > bids[j].BidPrice
		}
		return bids[i].ID.Hex() > bids[j].ID.Hex()
	})
	return bids
}

// InsertBid stores a new bid and returns its generated id.
func (s *MemoryStore) InsertBid(_ context.Context, bid model.Bid) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bid.ID.IsZero() {
		bid.ID = primitive.NewObjectID()
	}
	s.bids[bid.ID] = bid
	return bid.ID, nil
}

// DeleteBid removes the bid; a missing id yields count 0, no error.
func (s *MemoryStore) DeleteBid(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bids[id]; !ok {
		return 0, nil
	}
	delete(s.bids, id)
	return 1, nil
}
