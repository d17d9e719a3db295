package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aisprintone/Sparrow-sub003/internal/api/handlers"
	"github.com/Aisprintone/Sparrow-sub003/internal/api/middleware"
	"github.com/Aisprintone/Sparrow-sub003/internal/config"
	"github.com/Aisprintone/Sparrow-sub003/internal/market"
	"github.com/Aisprintone/Sparrow-sub003/internal/simulate"
	"github.com/Aisprintone/Sparrow-sub003/internal/strategy"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/default.yaml"
	}

	// A malformed config (bad bracket table, missing constant) must stop
	// the process here, before it serves anything.
	store, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", configPath, err)
	}
	log.Printf("Loaded config %s (version %s)", configPath, store.Version())

	defaultSet, err := store.Set(config.DefaultSet)
	if err != nil {
		log.Fatalf("Config has no default parameter set: %v", err)
	}

	// The rate feed is optional: without a base URL the provider serves
	// config defaults, flagged stale.
	var source market.RateSource
	if base := os.Getenv("RATE_FEED_URL"); base != "" {
		source = market.NewFeedClient(os.Getenv("RATE_FEED_API_KEY"), base)
	} else {
		log.Printf("RATE_FEED_URL not set; serving configured default rates")
	}
	ttl := market.DefaultTTL
	if raw := os.Getenv("RATE_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			ttl = parsed
		}
	}
	provider := market.NewProvider(source, simulate.MarketDefaults(defaultSet), ttl)

	registry := strategy.DefaultRegistry()

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	simulationHandler := handlers.NewSimulationHandler(store, provider, registry)
	catalogHandler := handlers.NewCatalogHandler(registry)
	ratesHandler := handlers.NewRatesHandler(provider)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "config_version": store.Version()})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulationHandler.RunSimulation)
		api.GET("/strategies", catalogHandler.ListStrategies)
		api.GET("/scenarios", catalogHandler.ListScenarios)
		api.GET("/rates", ratesHandler.GetRates)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
