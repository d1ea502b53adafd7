package handler

import (
	"fmt"
	"net/http"

	"smart-deals/internal/auth"
	model "smart-deals/internal/models"
	"smart-deals/services/market/helpers"
	"smart-deals/utils"

	"github.com/gin-gonic/gin"
)

// ListBidsHandler handles GET /bids (protected). A ?email= filter must match
// the verified caller's email claim; a mismatch is forbidden and performs no
// store operation.
func (h *MarketHandler) ListBidsHandler(c *gin.Context) {
	buyerEmail := c.Query("email")

	if buyerEmail != "" {
		tokenEmail := c.GetString(auth.ContextEmailKey)
		if buyerEmail != tokenEmail {
			c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			utils.Warn("ListBidsHandler: email filter does not match token claim", map[string]any{
				"email":       buyerEmail,
				"token_email": tokenEmail,
			})
			return
		}
	}

	bids, err := h.service.ListBids(c.Request.Context(), buyerEmail)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListBidsHandler: error retrieving bids", map[string]any{"email": buyerEmail, "error": err.Error()})
		return
	}

	if bids == nil {
		bids = []model.Bid{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
	helpers.LogSuccess("ListBidsHandler", "bids retrieved successfully", map[string]any{
		"email": buyerEmail,
		"count": len(bids),
	})
}

// ListBidsByProductHandler handles GET /products/bids/:productId (protected).
// There is no ownership check against the product; the reference is weak.
func (h *MarketHandler) ListBidsByProductHandler(c *gin.Context) {
	productID := c.Param("productId")

	bids, err := h.service.ListBidsForProduct(c.Request.Context(), productID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListBidsByProductHandler: error retrieving bids", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	if bids == nil {
		bids = []model.Bid{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
	helpers.LogSuccess("ListBidsByProductHandler", "bids retrieved successfully", map[string]any{
		"product_id": productID,
		"count":      len(bids),
	})
}

// CreateBidHandler handles POST /bids. The bid is stored as given: the
// product reference is not validated and buyer_email is not checked against
// any identity.
func (h *MarketHandler) CreateBidHandler(c *gin.Context) {
	var req helpers.CreateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateBidHandler", err)
		return
	}

	bid, err := h.service.CreateBid(c.Request.Context(), model.Bid{
		Product:    req.Product,
		BuyerEmail: req.BuyerEmail,
		BidPrice:   req.BidPrice,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateBidHandler: failed to create bid", map[string]any{
			"product":     req.Product,
			"buyer_email": req.BuyerEmail,
			"error":       err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, bid, "bid created successfully")
	helpers.LogSuccess("CreateBidHandler", "bid created successfully", map[string]any{
		"bid_id":      bid.ID.Hex(),
		"product":     bid.Product,
		"buyer_email": bid.BuyerEmail,
		"bid_price":   bid.BidPrice,
	})
}

// DeleteBidHandler handles DELETE /bids/:id
func (h *MarketHandler) DeleteBidHandler(c *gin.Context) {
	id := c.Param("id")

	deleted, err := h.service.DeleteBid(c.Request.Context(), id)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("DeleteBidHandler: failed to delete bid", map[string]any{"bid_id": id, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.DeleteResponse{DeletedCount: deleted}, "bid delete processed")
	helpers.LogSuccess("DeleteBidHandler", "bid delete processed", map[string]any{
		"bid_id":  id,
		"deleted": deleted,
	})
}
