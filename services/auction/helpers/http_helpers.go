package helpers

import (
	"errors"
	"net/http"
	"time"

	"auction-bot/internal/auctionerrors"
	model "auction-bot/internal/models"
	"auction-bot/utils"
)

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrItemNotFound):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for item"
	case errors.Is(err, auctionerrors.ErrInvalidBid), errors.Is(err, auctionerrors.ErrInvalidItem):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrAuctionEnded):
		return http.StatusConflict, "auction ended"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// ToBidResponse converts a bid model into its API representation
func ToBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		ItemName:  bid.ItemName,
		UserID:    bid.UserID,
		Amount:    bid.Amount,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToItemResponse converts an item model into its API representation
func ToItemResponse(item model.Item) ItemResponse {
	resp := ItemResponse{
		Name:       item.Name,
		LowAmount:  item.LowAmount,
		HighAmount: item.HighAmount,
		Direction:  string(item.Direction),
	}
	if item.EndTime != nil {
		resp.EndTime = item.EndTime.UTC().Format(time.RFC3339)
	}
	if item.HighestBid != nil {
		resp.HighestBid = item.HighestBid.Amount
		resp.HasBids = true
	}
	return resp
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
