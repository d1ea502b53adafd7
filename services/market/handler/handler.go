package handler

import (
	"context"
	"net/http"

	model "smart-deals/internal/models"

	"github.com/gin-gonic/gin"
)

type MarketServiceInterface interface {
	RegisterUser(ctx context.Context, user model.User) (model.User, bool, error)
	ListProducts(ctx context.Context, ownerEmail string) ([]model.Product, error)
	LatestProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error)
	UpdateProduct(ctx context.Context, id string, update model.ProductUpdate) (int64, int64, error)
	DeleteProduct(ctx context.Context, id string) (int64, error)
	ListBids(ctx context.Context, buyerEmail string) ([]model.Bid, error)
	ListBidsForProduct(ctx context.Context, productID string) ([]model.Bid, error)
	CreateBid(ctx context.Context, bid model.Bid) (model.Bid, error)
	DeleteBid(ctx context.Context, id string) (int64, error)
}

type MarketHandler struct {
	service MarketServiceInterface
}

func NewMarketHandler(service MarketServiceInterface) *MarketHandler {
	return &MarketHandler{service: service}
}

// LivenessHandler handles GET /
func (h *MarketHandler) LivenessHandler(c *gin.Context) {
	c.String(http.StatusOK, "Smart server is running")
}
