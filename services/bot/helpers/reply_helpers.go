package helpers

import (
	"encoding/json"
	"errors"
	"fmt"

	"auction-bot/internal/auctionerrors"
)

// CallbackPayload is the JSON carried in inline-keyboard callback data
type CallbackPayload struct {
	Action    string `json:"action"`
	Item      string `json:"item"`
	Direction string `json:"direction,omitempty"`
}

// Encode marshals the payload for use as callback data
func (p CallbackPayload) Encode() string {
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeCallback parses callback data into a payload
func DecodeCallback(data string) (CallbackPayload, error) {
	var p CallbackPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return CallbackPayload{}, fmt.Errorf("invalid callback data: %w", err)
	}
	return p, nil
}

// MapErrorToReply maps domain/service errors to a single user-visible chat
// message. Infra failures collapse into a generic retry message so internals
// never leak into the chat.
func MapErrorToReply(err error) string {
	switch {
	case errors.Is(err, auctionerrors.ErrItemNotFound):
		return "Item not found."
	case errors.Is(err, auctionerrors.ErrItemExists):
		return "An item with that name already exists."
	case errors.Is(err, auctionerrors.ErrNoBids):
		return "No bids have been placed on this item yet."
	case errors.Is(err, auctionerrors.ErrAuctionEnded):
		return "This auction has already ended."
	case errors.Is(err, auctionerrors.ErrOutOfRange):
		return "Your bid is outside the allowed range for this item."
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return "Invalid bid. The amount must be a positive number."
	case errors.Is(err, auctionerrors.ErrInvalidItem):
		return "Invalid item details. Check the bid range, duration and direction."
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return "You are not registered yet. Send register first."
	default:
		return "Something went wrong, please try again later."
	}
}
