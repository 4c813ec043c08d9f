package helpers

// Response DTOs for the read-only query API
type BidResponse struct {
	BidID     string  `json:"bid_id"`
	ItemName  string  `json:"item_name"`
	UserID    int64   `json:"user_id"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

type ItemResponse struct {
	Name       string  `json:"name"`
	LowAmount  float64 `json:"low_amount"`
	HighAmount float64 `json:"high_amount"`
	Direction  string  `json:"direction,omitempty"`
	EndTime    string  `json:"end_time,omitempty"`
	HighestBid float64 `json:"highest_bid,omitempty"`
	HasBids    bool    `json:"has_bids"`
}
