package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardwatch/cardwatch/internal/api/handlers"
	"github.com/cardwatch/cardwatch/internal/services"
	"github.com/cardwatch/cardwatch/internal/store"
)

// SetupRouter wires the HTTP surface for serve mode.
func SetupRouter(
	watchlist store.WatchlistStore,
	prices store.PriceStore,
	checker *services.Checker,
	notifier *services.WebhookNotifier,
	archive *services.SnapshotService,
	cardDB *services.CardDatabaseService,
	corsOrigins []string,
) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	if len(corsOrigins) > 0 {
		config.AllowOrigins = corsOrigins
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(config))

	watchlistHandler := handlers.NewWatchlistHandler(watchlist)
	priceHandler := handlers.NewPriceHandler(prices, archive)
	checkHandler := handlers.NewCheckHandler(checker, notifier)
	cardHandler := handlers.NewCardHandler(cardDB)

	api := router.Group("/api")
	{
		watchlistGroup := api.Group("/watchlist")
		{
			watchlistGroup.GET("", watchlistHandler.GetWatchlist)
			watchlistGroup.POST("", watchlistHandler.AddItem)
			watchlistGroup.DELETE("/:card", watchlistHandler.RemoveItem)
		}

		pricesGroup := api.Group("/prices")
		{
			pricesGroup.GET("", priceHandler.GetPrices)
			pricesGroup.GET("/:card/history", priceHandler.GetHistory)
		}

		api.POST("/check", checkHandler.RunCheck)
		api.GET("/cards/search", cardHandler.SearchCards)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
