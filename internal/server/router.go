package server

import (
	"net/http"

	handler "auction-bot/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures the liveness endpoint and the read-only query API
func SetupRouter(service handler.AuctionQueryService) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	// liveness probe
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "auction bot is running")
	})

	auctionHandler := handler.NewAuctionHandler(service)

	items := router.Group("/items")
	{
		items.GET("", auctionHandler.ListItemsHandler)
		items.GET("/:name/bids", auctionHandler.GetBidsByItemHandler)
		items.GET("/:name/winning", auctionHandler.GetWinningBidHandler)
	}

	return router
}
