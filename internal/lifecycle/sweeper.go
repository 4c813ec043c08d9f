package lifecycle

import (
	"context"
	"fmt"
	"time"

	model "auction-bot/internal/models"
	"auction-bot/internal/notifier"
	"auction-bot/internal/repository"
	"auction-bot/utils"
)

// Sweeper periodically finalizes expired auctions: it marks the item
// completed, notifies the winner and the creator, then removes the item
// record. A failure on one item is logged and does not abort the tick.
type Sweeper struct {
	repo     repository.AuctionDB
	notifier notifier.Notifier
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a sweeper with the given cadence
func NewSweeper(repo repository.AuctionDB, n notifier.Notifier, interval time.Duration) *Sweeper {
	return &Sweeper{
		repo:     repo,
		notifier: n,
		interval: interval,
		now:      time.Now,
	}
}

// SetClock overrides the sweeper clock. This method is intended for tests only.
func (s *Sweeper) SetClock(now func() time.Time) {
	s.now = now
}

// Run sweeps on the configured interval until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep finalizes every expired, uncompleted item sequentially
func (s *Sweeper) Sweep() {
	items, err := s.repo.ExpiredItems(s.now())
	if err != nil {
		utils.Error("sweep: failed to query expired items", map[string]any{"error": err.Error()})
		return
	}

	for _, item := range items {
		if err := s.finalize(item); err != nil {
			utils.Error("sweep: failed to finalize item", map[string]any{
				"item":  item.Name,
				"error": err.Error(),
			})
		}
	}
}

// finalize runs the terminal transition for one expired item. The completed
// flag is set first so an overlapping sweep does not notify twice.
func (s *Sweeper) finalize(item model.Item) error {
	if item.Completed {
		return nil
	}
	if err := s.repo.MarkCompleted(item.Name); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}

	finalAmount := 0.0
	if item.HighestBid != nil {
		finalAmount = item.HighestBid.Amount
		s.notifyUser(item.HighestBid.UserID, item.Name,
			fmt.Sprintf("You won the auction for %q with a bid of %.2f.", item.Name, finalAmount))
	}
	s.notifyUser(item.CreatorID, item.Name,
		fmt.Sprintf("Your auction for %q has ended. Final amount: %.2f.", item.Name, finalAmount))

	if err := s.repo.DeleteItem(item.Name); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	utils.Info("auction finalized", map[string]any{
		"item":         item.Name,
		"final_amount": finalAmount,
	})
	return nil
}

// notifyUser resolves the user's contact chat and delivers a best-effort
// notification. Failures are logged only; finalization proceeds regardless.
func (s *Sweeper) notifyUser(userID int64, itemName, text string) {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		utils.Warn("finalization notice skipped, user unknown", map[string]any{
			"item":    itemName,
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}
	if err := s.notifier.Notify(user.ChatID, text); err != nil {
		utils.Warn("finalization notice failed", map[string]any{
			"item":    itemName,
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
