package models

import "time"

// BidDirection constrains which end of the range bids must move toward.
type BidDirection string

const (
	DirectionNone BidDirection = ""
	DirectionLow  BidDirection = "low"
	DirectionHigh BidDirection = "high"
)

// ValidDirection reports whether d is one of the known bid directions.
func ValidDirection(d BidDirection) bool {
	return d == DirectionNone || d == DirectionLow || d == DirectionHigh
}

// User represents a registered auction participant
type User struct {
	UserID    int64     `json:"user_id" db:"user_id"`
	ChatID    int64     `json:"chat_id" db:"chat_id"`
	Username  string    `json:"username" db:"username"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Item represents an auction item with a bid range, optional deadline and direction
type Item struct {
	Name       string       `json:"name"`
	CreatorID  int64        `json:"creator_id"`
	LowAmount  float64      `json:"low_amount"`
	HighAmount float64      `json:"high_amount"`
	EndTime    *time.Time   `json:"end_time,omitempty"`
	Direction  BidDirection `json:"direction,omitempty"`
	HighestBid *Bid         `json:"highest_bid,omitempty"`
	Completed  bool         `json:"completed"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Expired reports whether the item's deadline has passed at the given instant.
// Items without a deadline never expire.
func (i Item) Expired(now time.Time) bool {
	return i.EndTime != nil && !now.Before(*i.EndTime)
}

// Bid represents a user's accepted bid on an item. Bids are append-only:
// once recorded they are never mutated or deleted.
type Bid struct {
	BidID     string    `json:"bid_id" db:"bid_id"`
	ItemName  string    `json:"item_name" db:"item_name"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Amount    float64   `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
