package repository

import (
	"fmt"
	"sync"
	"time"

	"auction-bot/internal/auctionerrors"
	model "auction-bot/internal/models"
)

// AuctionDB defines the persistence gateway for the auction system: users,
// items and the append-only bid log.
type AuctionDB interface {
	CreateUser(user model.User) error
	GetUser(userID int64) (model.User, error)

	CreateItem(item model.Item) error
	GetItem(name string) (model.Item, error)
	SetDirection(name string, direction model.BidDirection) error
	ListOpenItems() ([]model.Item, error)
	ListBiddedItems() ([]model.Item, error)
	ExpiredItems(now time.Time) ([]model.Item, error)
	MarkCompleted(name string) error
	DeleteItem(name string) error

	// CommitBid atomically re-validates the item (existence, completion,
	// deadline, amount above current highest), appends the bid to the log
	// and replaces the item's highest-bid snapshot. Returns the previous
	// highest bid, if any, so callers can notify the displaced bidder.
	CommitBid(bid model.Bid) (*model.Bid, error)
	GetBidsByItem(name string) ([]model.Bid, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[int64]model.User
	items map[string]*model.Item
	bids  map[string][]model.Bid // key: item name -> value: accepted bids in order

	now func() time.Time // injectable for deadline tests
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users: make(map[int64]model.User),
		items: make(map[string]*model.Item),
		bids:  make(map[string][]model.Bid),
		now:   time.Now,
	}
}

// CreateUser inserts a user record; registration is idempotent at the caller,
// a duplicate insert reports ErrAlreadyRegistered.
func (r *MemoryRepo) CreateUser(user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserID]; ok {
		return fmt.Errorf("create user %d: %w", user.UserID, auctionerrors.ErrAlreadyRegistered)
	}
	r.users[user.UserID] = user
	return nil
}

// GetUser returns the user with the given external identity
func (r *MemoryRepo) GetUser(userID int64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %d: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}

// CreateItem inserts a new auction item keyed by its unique name
func (r *MemoryRepo) CreateItem(item model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.Name]; ok {
		return fmt.Errorf("create item %q: %w", item.Name, auctionerrors.ErrItemExists)
	}
	stored := item
	r.items[item.Name] = &stored
	return nil
}

// GetItem returns a snapshot of the item with the given name
func (r *MemoryRepo) GetItem(name string) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[name]
	if !ok {
		return model.Item{}, fmt.Errorf("get item %q: %w", name, auctionerrors.ErrItemNotFound)
	}
	return copyItem(item), nil
}

// SetDirection updates the bid direction of an existing item
func (r *MemoryRepo) SetDirection(name string, direction model.BidDirection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[name]
	if !ok {
		return fmt.Errorf("set direction for item %q: %w", name, auctionerrors.ErrItemNotFound)
	}
	item.Direction = direction
	return nil
}

// ListOpenItems returns all items that have not been finalized
func (r *MemoryRepo) ListOpenItems() ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0, len(r.items))
	for _, item := range r.items {
		if !item.Completed {
			items = append(items, copyItem(item))
		}
	}
	return items, nil
}

// ListBiddedItems returns all non-finalized items that have received a bid
func (r *MemoryRepo) ListBiddedItems() ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []model.Item
	for _, item := range r.items {
		if !item.Completed && item.HighestBid != nil {
			items = append(items, copyItem(item))
		}
	}
	return items, nil
}

// ExpiredItems returns all items whose deadline has passed and that are not
// yet finalized.
func (r *MemoryRepo) ExpiredItems(now time.Time) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []model.Item
	for _, item := range r.items {
		if !item.Completed && item.Expired(now) {
			items = append(items, copyItem(item))
		}
	}
	return items, nil
}

// MarkCompleted flags an item as finalized, guarding against double
// notification when sweeps overlap.
func (r *MemoryRepo) MarkCompleted(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[name]
	if !ok {
		return fmt.Errorf("mark completed %q: %w", name, auctionerrors.ErrItemNotFound)
	}
	item.Completed = true
	return nil
}

// DeleteItem removes the item record. The bid log is retained as the durable
// source of truth.
func (r *MemoryRepo) DeleteItem(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[name]; !ok {
		return fmt.Errorf("delete item %q: %w", name, auctionerrors.ErrItemNotFound)
	}
	delete(r.items, name)
	return nil
}

// CommitBid performs the atomic read-check-write of bid acceptance. The whole
// sequence runs under the write lock so two racing bids serialize and only
// the strictly higher amount replaces the highest-bid snapshot.
func (r *MemoryRepo) CommitBid(bid model.Bid) (*model.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[bid.ItemName]
	if !ok {
		return nil, fmt.Errorf("commit bid for item %q: %w", bid.ItemName, auctionerrors.ErrItemNotFound)
	}
	// finalization takes precedence over late bids
	if item.Completed || item.Expired(r.now()) {
		return nil, fmt.Errorf("commit bid for item %q: %w", bid.ItemName, auctionerrors.ErrAuctionEnded)
	}
	var prev *model.Bid
	if item.HighestBid != nil {
		if bid.Amount <= item.HighestBid.Amount {
			return nil, fmt.Errorf("commit bid for item %q: %w - current highest bid is %.2f",
				bid.ItemName, auctionerrors.ErrBidTooLow, item.HighestBid.Amount)
		}
		prevCopy := *item.HighestBid
		prev = &prevCopy
	}

	r.bids[bid.ItemName] = append(r.bids[bid.ItemName], bid)
	stored := bid
	item.HighestBid = &stored
	return prev, nil
}

// GetBidsByItem returns all accepted bids for an item in acceptance order
func (r *MemoryRepo) GetBidsByItem(name string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[name]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bids for item %q: %w", name, auctionerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), bids...), nil
}

// SetClock overrides the repository clock. This method is intended for tests only.
func (r *MemoryRepo) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// copyItem returns a snapshot with its own highest-bid copy so callers never
// share pointers with the store.
func copyItem(item *model.Item) model.Item {
	out := *item
	if item.HighestBid != nil {
		bid := *item.HighestBid
		out.HighestBid = &bid
	}
	if item.EndTime != nil {
		end := *item.EndTime
		out.EndTime = &end
	}
	return out
}
