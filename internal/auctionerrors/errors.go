package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrItemExists        = errors.New("item already exists")
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrNoBids            = errors.New("no bids placed on item")
)

// business logic errors
var (
	ErrInvalidBid   = errors.New("invalid bid")
	ErrInvalidItem  = errors.New("invalid item")
	ErrOutOfRange   = errors.New("bid outside allowed range")
	ErrBidTooLow    = errors.New("bid amount too low")
	ErrAuctionEnded = errors.New("auction ended")
)
