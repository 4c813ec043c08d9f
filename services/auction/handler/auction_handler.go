package handler

import (
	"errors"
	"fmt"
	"net/http"

	"auction-bot/internal/auctionerrors"
	model "auction-bot/internal/models"
	"auction-bot/services/auction/helpers"
	"auction-bot/utils"

	"github.com/gin-gonic/gin"
)

// AuctionQueryService is the read-only slice of the auction service exposed
// over HTTP. All mutations go through the chat transport.
type AuctionQueryService interface {
	ListItems() ([]model.Item, error)
	GetBidsForItem(itemName string) ([]model.Bid, error)
	WinningBid(itemName string) (model.Bid, error)
}

type AuctionHandler struct {
	service AuctionQueryService
}

func NewAuctionHandler(service AuctionQueryService) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// ListItemsHandler handles GET /items
func (h *AuctionHandler) ListItemsHandler(c *gin.Context) {
	items, err := h.service.ListItems()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListItemsHandler: error retrieving items", map[string]any{"error": err.Error()})
		return
	}

	resp := make([]helpers.ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, helpers.ToItemResponse(item))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "items retrieved successfully")
	helpers.LogSuccess("ListItemsHandler", "items retrieved successfully", map[string]any{
		"count": len(resp),
	})
}

// GetBidsByItemHandler handles GET /items/:name/bids
func (h *AuctionHandler) GetBidsByItemHandler(c *gin.Context) {
	name := c.Param("name")
	bids, err := h.service.GetBidsForItem(name)
	if err != nil && !errors.Is(err, auctionerrors.ErrNoBids) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetBidsByItemHandler: error retrieving bids", map[string]any{"item": name, "error": err.Error()})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, helpers.ToBidResponse(bid))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByItemHandler", "bids retrieved successfully", map[string]any{
		"item":  name,
		"count": len(resp),
	})
}

// GetWinningBidHandler handles GET /items/:name/winning
func (h *AuctionHandler) GetWinningBidHandler(c *gin.Context) {
	name := c.Param("name")
	bid, err := h.service.WinningBid(name)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no winning bid found")
			utils.Info("GetWinningBidHandler: no winning bid found", map[string]any{"item": name})
			return
		}
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetWinningBidHandler: winning bid error", map[string]any{"item": name, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id": bid.BidID,
		"item":   name,
		"amount": bid.Amount,
	})
}
