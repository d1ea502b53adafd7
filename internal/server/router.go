package server

import (
	"smart-deals/internal/auth"
	market "smart-deals/internal/marketService"
	handler "smart-deals/services/market/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(marketService *market.MarketService, verifier auth.TokenVerifier) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestIDMiddleware)     // per-request id
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(cors.Default())          // the service fronts a browser SPA

	marketHandler := handler.NewMarketHandler(marketService)
	requireAuth := RequireAuth(verifier)

	router.GET("/", marketHandler.LivenessHandler)
	router.POST("/users", marketHandler.RegisterUserHandler)
	router.GET("/latest-products", marketHandler.LatestProductsHandler)

	products := router.Group("/products")
	{
		products.GET("", marketHandler.ListProductsHandler)
		products.POST("", marketHandler.CreateProductHandler)
		products.GET("/:id", marketHandler.GetProductHandler)
		products.PATCH("/:id", marketHandler.UpdateProductHandler)
		products.DELETE("/:id", marketHandler.DeleteProductHandler)
		products.GET("/bids/:productId", requireAuth, marketHandler.ListBidsByProductHandler)
	}

	bids := router.Group("/bids")
	{
		bids.GET("", requireAuth, marketHandler.ListBidsHandler)
		bids.POST("", marketHandler.CreateBidHandler)
		bids.DELETE("/:id", marketHandler.DeleteBidHandler)
	}

	return router
}
