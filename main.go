package main

import (
	"context"
	"time"

	"smart-deals/internal/auth"
	"smart-deals/internal/config"
	market "smart-deals/internal/marketService"
	"smart-deals/internal/repository"
	"smart-deals/internal/server"
	"smart-deals/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}

	store, cleanup := buildStore(cfg)
	defer cleanup()

	verifier, err := auth.NewFirebaseVerifier(context.Background(), cfg.FirebaseCredentials)
	if err != nil {
		utils.Fatal("failed to initialize token verifier", map[string]any{"error": err.Error()})
	}

	marketService := market.NewMarketService(store)

	router := server.SetupRouter(marketService, verifier)

	utils.Info("starting smart deals server", map[string]any{"addr": cfg.Addr()})
	if err := router.Run(cfg.Addr()); err != nil {
		utils.Fatal("server stopped", map[string]any{"error": err.Error()})
	}
}

// buildStore returns the configured MarketStore: MongoDB when a URI is set,
// otherwise the in-memory store for local runs.
func buildStore(cfg config.Config) (repository.MarketStore, func()) {
	if cfg.MongoURI == "" {
		utils.Warn("MONGO_URI not set, using in-memory store", nil)
		return repository.NewMemoryStore(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		utils.Fatal("failed to connect to MongoDB", map[string]any{"error": err.Error()})
	}
	utils.Info("connected to MongoDB", map[string]any{"database": cfg.DatabaseName})

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			utils.Error("failed to disconnect from MongoDB", map[string]any{"error": err.Error()})
		}
	}
	return repository.NewMongoStore(client, cfg.DatabaseName), cleanup
}
