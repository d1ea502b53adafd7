package handler

import (
	"fmt"
	"net/http"

	model "smart-deals/internal/models"
	"smart-deals/services/market/helpers"
	"smart-deals/utils"

	"github.com/gin-gonic/gin"
)

// ListProductsHandler handles GET /products. An optional ?email= query
// narrows the listing to one owner.
func (h *MarketHandler) ListProductsHandler(c *gin.Context) {
	ownerEmail := c.Query("email")

	products, err := h.service.ListProducts(c.Request.Context(), ownerEmail)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListProductsHandler: error retrieving products", map[string]any{"email": ownerEmail, "error": err.Error()})
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	utils.JSONResponse(c, http.StatusOK, products, "products retrieved successfully")
	helpers.LogSuccess("ListProductsHandler", "products retrieved successfully", map[string]any{
		"email": ownerEmail,
		"count": len(products),
	})
}

// LatestProductsHandler handles GET /latest-products
func (h *MarketHandler) LatestProductsHandler(c *gin.Context) {
	products, err := h.service.LatestProducts(c.Request.Context())
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("LatestProductsHandler: error retrieving latest products", map[string]any{"error": err.Error()})
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	utils.JSONResponse(c, http.StatusOK, products, "latest products retrieved successfully")
	helpers.LogSuccess("LatestProductsHandler", "latest products retrieved successfully", map[string]any{
		"count": len(products),
	})
}

// GetProductHandler handles GET /products/:id
func (h *MarketHandler) GetProductHandler(c *gin.Context) {
	id := c.Param("id")

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetProductHandler: error retrieving product", map[string]any{"product_id": id, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, product, "product retrieved successfully")
	helpers.LogSuccess("GetProductHandler", "product retrieved successfully", map[string]any{"product_id": id})
}

// CreateProductHandler handles POST /products. Fields are stored as given;
// there is no validation beyond JSON well-formedness.
func (h *MarketHandler) CreateProductHandler(c *gin.Context) {
	var req helpers.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateProductHandler", err)
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), model.Product{
		Email:       req.Email,
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		PriceMin:    req.PriceMin,
		PriceMax:    req.PriceMax,
		Image:       req.Image,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateProductHandler: failed to create product", map[string]any{"email": req.Email, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, product, "product created successfully")
	helpers.LogSuccess("CreateProductHandler", "product created successfully", map[string]any{
		"product_id": product.ID.Hex(),
		"email":      product.Email,
	})
}

// UpdateProductHandler handles PATCH /products/:id. Only name and price are
// mutable; fields absent from the request are left untouched.
func (h *MarketHandler) UpdateProductHandler(c *gin.Context) {
	id := c.Param("id")

	var req helpers.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateProductHandler", err)
		return
	}

	matched, modified, err := h.service.UpdateProduct(c.Request.Context(), id, model.ProductUpdate{
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("UpdateProductHandler: failed to update product", map[string]any{"product_id": id, "error": err.Error()})
		return
	}

	resp := helpers.UpdateResponse{
		MatchedCount:  matched,
		ModifiedCount: modified,
	}

	utils.JSONResponse(c, http.StatusOK, resp, "product updated successfully")
	helpers.LogSuccess("UpdateProductHandler", "product updated successfully", map[string]any{
		"product_id": id,
		"matched":    matched,
		"modified":   modified,
	})
}

// DeleteProductHandler handles DELETE /products/:id. Deleting a missing
// product succeeds with a zero count.
func (h *MarketHandler) DeleteProductHandler(c *gin.Context) {
	id := c.Param("id")

	deleted, err := h.service.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("DeleteProductHandler: failed to delete product", map[string]any{"product_id": id, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.DeleteResponse{DeletedCount: deleted}, "product delete processed")
	helpers.LogSuccess("DeleteProductHandler", "product delete processed", map[string]any{
		"product_id": id,
		"deleted":    deleted,
	})
}
