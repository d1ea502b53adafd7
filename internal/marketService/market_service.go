package market

import (
	"context"
	"fmt"
	"time"

	"smart-deals/internal/marketerrors"
	"smart-deals/internal/models"
	"smart-deals/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// latestProductsLimit caps the "latest products" listing.
const latestProductsLimit = 6

// MarketService holds the marketplace operations. Each call maps to a single
// store operation; there is no multi-step workflow and no local state.
type MarketService struct {
	store repository.MarketStore
}

// NewMarketService creates a new MarketService instance
func NewMarketService(store repository.MarketStore) *MarketService {
	return &MarketService{
		store: store,
	}
}

// RegisterUser stores a user record unless one already exists for the same
// email. It reports whether a record was created.
func (s *MarketService) RegisterUser(ctx context.Context, user models.User) (models.User, bool, error) {
	if user.Email == "" {
		return models.User{}, false, fmt.Errorf("service: %w - missing email", marketerrors.ErrInvalidUser)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	stored, created, err := s.store.EnsureUser(ctx, user)
	if err != nil {
		return models.User{}, false, fmt.Errorf("service: failed to register user %s: %w", user.Email, err)
	}
	return stored, created, nil
}

// ListProducts returns all products, or only those owned by ownerEmail when
// it is non-empty.
func (s *MarketService) ListProducts(ctx context.Context, ownerEmail string) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}
	return products, nil
}

// LatestProducts returns the most recently created products, newest first.
func (s *MarketService) LatestProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.LatestProducts(ctx, latestProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list latest products: %w", err)
	}
	return products, nil
}

// GetProduct returns the product for the given hex id.
func (s *MarketService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Product{}, err
	}

	product, err := s.store.GetProductByID(ctx, oid)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to get product %s: %w", id, err)
	}
	return product, nil
}

// CreateProduct stores a new product, assigning created_at when absent, and
// returns the stored record with its generated id.
func (s *MarketService) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	id, err := s.store.InsertProduct(ctx, product)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to create product: %w", err)
	}
	product.ID = id
	return product, nil
}

// UpdateProduct applies a partial update of name and price to the product
// with the given hex id. Fields absent from the update are left untouched.
func (s *MarketService) UpdateProduct(ctx context.Context, id string, update models.ProductUpdate) (int64, int64, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, 0, err
	}

	matched, modified, err := s.store.UpdateProduct(ctx, oid, update)
	if err != nil {
		return 0, 0, fmt.Errorf("service: failed to update product %s: %w", id, err)
	}
	return matched, modified, nil
}

// DeleteProduct removes the product with the given hex id and returns the
// deleted count. A missing id yields count 0 without error.
func (s *MarketService) DeleteProduct(ctx context.Context, id string) (int64, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteProduct(ctx, oid)
	if err != nil {
		return 0, fmt.Errorf("service: failed to delete product %s: %w", id, err)
	}
	return deleted, nil
}

// ListBids returns bids sorted by bid_price descending, optionally filtered
// by buyer email.
func (s *MarketService) ListBids(ctx context.Context, buyerEmail string) ([]models.Bid, error) {
	bids, err := s.store.ListBids(ctx, buyerEmail)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bids: %w", err)
	}
	return bids, nil
}

// ListBidsForProduct returns bids carrying the given product reference,
// sorted by bid_price descending. The reference is a weak one; it is not
// checked against the products collection.
func (s *MarketService) ListBidsForProduct(ctx context.Context, productID string) ([]models.Bid, error) {
	bids, err := s.store.ListBidsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bids for product %s: %w", productID, err)
	}
	return bids, nil
}

// CreateBid stores a new bid, assigning created_at when absent, and returns
// the stored record with its generated id.
func (s *MarketService) CreateBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	if bid.CreatedAt.IsZero() {
		bid.CreatedAt = time.Now().UTC()
	}

	id, err := s.store.InsertBid(ctx, bid)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to create bid: %w", err)
	}
	bid.ID = id
	return bid, nil
}

// DeleteBid removes the bid with the given hex id and returns the deleted
// count.
func (s *MarketService) DeleteBid(ctx context.Context, id string) (int64, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteBid(ctx, oid)
	if err != nil {
		return 0, fmt.Errorf("service: failed to delete bid %s: %w", id, err)
	}
	return deleted, nil
}

// parseID converts a hex path parameter into an ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("service: %w - %q", marketerrors.ErrInvalidID, id)
	}
	return oid, nil
}
