package auction

import (
	"errors"
	"fmt"
	"time"

	"auction-bot/internal/auctionerrors"
	"auction-bot/internal/models"
	"auction-bot/internal/notifier"
	"auction-bot/internal/repository"
	"auction-bot/utils"
)

// AuctionService defines the business logic for the auction marketplace:
// registration, item creation, bid acceptance and queries.
type AuctionService struct {
	repo     repository.AuctionDB
	notifier notifier.Notifier
	now      func() time.Time
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.AuctionDB, n notifier.Notifier) *AuctionService {
	return &AuctionService{
		repo:     repo,
		notifier: n,
		now:      time.Now,
	}
}

// Register stores a user's external identity and contact chat. Registration
// is idempotent: a repeated call reports alreadyRegistered without error.
func (s *AuctionService) Register(userID, chatID int64, username string) (bool, error) {
	if userID == 0 || chatID == 0 {
		return false, fmt.Errorf("service: %w - missing user or chat identity", auctionerrors.ErrInvalidBid)
	}

	user := models.User{
		UserID:    userID,
		ChatID:    chatID,
		Username:  username,
		CreatedAt: s.now().UTC(),
	}
	err := s.repo.CreateUser(user)
	if errors.Is(err, auctionerrors.ErrAlreadyRegistered) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("service: failed to register user %d: %w", userID, err)
	}
	return false, nil
}

// CreateItem validates and stores a new auction item. duration <= 0 creates
// an open-ended item without a deadline.
func (s *AuctionService) CreateItem(name string, creatorID int64, low, high float64, duration time.Duration, direction models.BidDirection) (models.Item, error) {
	if name == "" || creatorID == 0 {
		return models.Item{}, fmt.Errorf("service: %w - missing name or creator", auctionerrors.ErrInvalidItem)
	}
	if low < 0 || low >= high {
		return models.Item{}, fmt.Errorf("service: %w - low amount must be below high amount", auctionerrors.ErrInvalidItem)
	}
	if !models.ValidDirection(direction) {
		return models.Item{}, fmt.Errorf("service: %w - direction must be low or high", auctionerrors.ErrInvalidItem)
	}

	item := models.Item{
		Name:       name,
		CreatorID:  creatorID,
		LowAmount:  low,
		HighAmount: high,
		Direction:  direction,
		CreatedAt:  s.now().UTC(),
	}
	if duration > 0 {
		end := s.now().UTC().Add(duration)
		item.EndTime = &end
	}

	if err := s.repo.CreateItem(item); err != nil {
		return models.Item{}, fmt.Errorf("service: failed to create item %q: %w", name, err)
	}
	return item, nil
}

// SetDirection updates the bid direction of an existing item
func (s *AuctionService) SetDirection(name string, direction models.BidDirection) error {
	if direction != models.DirectionLow && direction != models.DirectionHigh {
		return fmt.Errorf("service: %w - direction must be low or high", auctionerrors.ErrInvalidItem)
	}
	if err := s.repo.SetDirection(name, direction); err != nil {
		return fmt.Errorf("service: failed to set direction for item %q: %w", name, err)
	}
	return nil
}

// PlaceBid validates and atomically records a user's bid for an item.
// Preconditions are checked in order, first failure wins: positive amount,
// item exists, deadline not passed, amount within the range/direction rule,
// then the atomic commit which re-validates against the current highest bid.
func (s *AuctionService) PlaceBid(itemName string, bidderID int64, amount float64) (models.Bid, error) {
	if itemName == "" || bidderID == 0 {
		return models.Bid{}, fmt.Errorf("service: %w - missing item name or bidder", auctionerrors.ErrInvalidBid)
	}
	if amount <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	item, err := s.repo.GetItem(itemName)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: %w", err)
	}
	if item.Expired(s.now()) {
		return models.Bid{}, fmt.Errorf("service: %w - item %q", auctionerrors.ErrAuctionEnded, itemName)
	}
	if err := checkRange(item, amount); err != nil {
		return models.Bid{}, err
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		ItemName:  itemName,
		UserID:    bidderID,
		Amount:    amount,
		CreatedAt: s.now().UTC(),
	}

	// the commit re-checks the current highest bid atomically; the earlier
	// reads above are advisory only
	prev, err := s.repo.CommitBid(bid)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to commit bid for item %q by user %d: %w", itemName, bidderID, err)
	}

	if prev != nil && prev.UserID != bidderID {
		s.notifyOutbid(*prev, bid)
	}
	return bid, nil
}

// checkRange enforces the range/direction rule of the item
func checkRange(item models.Item, amount float64) error {
	switch item.Direction {
	case models.DirectionHigh:
		if amount <= item.LowAmount || amount > item.HighAmount {
			return fmt.Errorf("service: %w - amount must be above %.2f and at most %.2f",
				auctionerrors.ErrOutOfRange, item.LowAmount, item.HighAmount)
		}
	case models.DirectionLow:
		if amount >= item.HighAmount || amount < item.LowAmount {
			return fmt.Errorf("service: %w - amount must be below %.2f and at least %.2f",
				auctionerrors.ErrOutOfRange, item.HighAmount, item.LowAmount)
		}
	default:
		if amount < item.LowAmount || amount > item.HighAmount {
			return fmt.Errorf("service: %w - amount must be between %.2f and %.2f",
				auctionerrors.ErrOutOfRange, item.LowAmount, item.HighAmount)
		}
	}
	return nil
}

// notifyOutbid delivers a best-effort outbid notification to the displaced
// bidder. Failures are logged and never surfaced: the bid is already
// committed.
func (s *AuctionService) notifyOutbid(prev, current models.Bid) {
	user, err := s.repo.GetUser(prev.UserID)
	if err != nil {
		utils.Warn("outbid notification skipped, bidder unknown", map[string]any{
			"item":    current.ItemName,
			"user_id": prev.UserID,
			"error":   err.Error(),
		})
		return
	}
	text := fmt.Sprintf("You have been outbid on %q: the highest bid is now %.2f.", current.ItemName, current.Amount)
	if err := s.notifier.Notify(user.ChatID, text); err != nil {
		utils.Warn("outbid notification failed", map[string]any{
			"item":    current.ItemName,
			"user_id": prev.UserID,
			"error":   err.Error(),
		})
	}
}

// CurrentBid returns the current highest bid amount for an item.
// ErrNoBids is reported when the item has not received any bid yet.
func (s *AuctionService) CurrentBid(itemName string) (float64, error) {
	if itemName == "" {
		return 0, fmt.Errorf("service: %w - empty item name", auctionerrors.ErrInvalidBid)
	}
	item, err := s.repo.GetItem(itemName)
	if err != nil {
		return 0, fmt.Errorf("service: %w", err)
	}
	if item.HighestBid == nil {
		return 0, fmt.Errorf("service: item %q: %w", itemName, auctionerrors.ErrNoBids)
	}
	return item.HighestBid.Amount, nil
}

// WinningBid returns the full highest-bid snapshot for an item
func (s *AuctionService) WinningBid(itemName string) (models.Bid, error) {
	if itemName == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty item name", auctionerrors.ErrInvalidBid)
	}
	item, err := s.repo.GetItem(itemName)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: %w", err)
	}
	if item.HighestBid == nil {
		return models.Bid{}, fmt.Errorf("service: item %q: %w", itemName, auctionerrors.ErrNoBids)
	}
	return *item.HighestBid, nil
}

// ListItems returns all non-finalized items
func (s *AuctionService) ListItems() ([]models.Item, error) {
	items, err := s.repo.ListOpenItems()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list items: %w", err)
	}
	return items, nil
}

// ListBiddedItems returns all non-finalized items that have received a bid
func (s *AuctionService) ListBiddedItems() ([]models.Item, error) {
	items, err := s.repo.ListBiddedItems()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bidded items: %w", err)
	}
	return items, nil
}

// GetBidsForItem returns the raw bid log for an item
func (s *AuctionService) GetBidsForItem(itemName string) ([]models.Bid, error) {
	if itemName == "" {
		return nil, fmt.Errorf("service: %w - empty item name", auctionerrors.ErrInvalidBid)
	}
	bids, err := s.repo.GetBidsByItem(itemName)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for item %q: %w", itemName, err)
	}
	return bids, nil
}
