package lifecycle

import (
	"errors"
	"sync"
	"testing"
	"time"

	"auction-bot/internal/auctionerrors"
	model "auction-bot/internal/models"
	"auction-bot/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures notifications for assertions
type recordingNotifier struct {
	mu    sync.Mutex
	notes map[int64][]string
	fail  bool
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{notes: make(map[int64][]string)}
}

func (n *recordingNotifier) Notify(chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("transport down")
	}
	n.notes[chatID] = append(n.notes[chatID], text)
	return nil
}

func (n *recordingNotifier) forChat(chatID int64) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notes[chatID]...)
}

// seedAuction registers the creator and a bidder and creates a timed item
func seedAuction(t *testing.T, repo *repository.MemoryRepo, itemName string, end time.Time) {
	t.Helper()
	require.NoError(t, repo.CreateUser(model.User{UserID: 1, ChatID: 10}))
	require.NoError(t, repo.CreateUser(model.User{UserID: 2, ChatID: 20}))
	require.NoError(t, repo.CreateItem(model.Item{
		Name:       itemName,
		CreatorID:  1,
		LowAmount:  10,
		HighAmount: 20,
		EndTime:    &end,
		CreatedAt:  time.Now().UTC(),
	}))
}

// A bid of 15 on a 10-20 item with a one minute deadline: after the deadline
// the sweep removes the item and the bidder gets a won notice with amount 15.
func TestSweeper_FinalizesExpiredAuction(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	rec := newRecordingNotifier()

	end := time.Now().UTC().Add(time.Minute)
	seedAuction(t, repo, "lamp", end)

	_, err := repo.CommitBid(model.Bid{BidID: "bid1", ItemName: "lamp", UserID: 2, Amount: 15, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	sweeper := NewSweeper(repo, rec, time.Minute)
	sweeper.SetClock(func() time.Time { return end.Add(time.Second) })

	sweeper.Sweep()

	// the item record is gone
	_, err = repo.GetItem("lamp")
	require.True(t, errors.Is(err, auctionerrors.ErrItemNotFound))

	// the winner got a won notice containing the final amount
	winnerNotes := rec.forChat(20)
	require.Len(t, winnerNotes, 1)
	require.Contains(t, winnerNotes[0], "won")
	require.Contains(t, winnerNotes[0], "15.00")

	// the creator got a closing notice with the same amount
	creatorNotes := rec.forChat(10)
	require.Len(t, creatorNotes, 1)
	require.Contains(t, creatorNotes[0], "15.00")
}

// An expired auction without bids notifies only the creator, with amount 0
func TestSweeper_FinalizesAuctionWithoutBids(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	rec := newRecordingNotifier()

	end := time.Now().UTC().Add(time.Minute)
	seedAuction(t, repo, "lamp", end)

	sweeper := NewSweeper(repo, rec, time.Minute)
	sweeper.SetClock(func() time.Time { return end.Add(time.Second) })

	sweeper.Sweep()

	_, err := repo.GetItem("lamp")
	require.True(t, errors.Is(err, auctionerrors.ErrItemNotFound))

	require.Empty(t, rec.forChat(20))
	creatorNotes := rec.forChat(10)
	require.Len(t, creatorNotes, 1)
	require.Contains(t, creatorNotes[0], "0.00")
}

// Items without a deadline or before their deadline are left alone
func TestSweeper_IgnoresRunningAuctions(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	rec := newRecordingNotifier()

	require.NoError(t, repo.CreateUser(model.User{UserID: 1, ChatID: 10}))
	require.NoError(t, repo.CreateItem(model.Item{Name: "forever", CreatorID: 1, LowAmount: 1, HighAmount: 2}))
	end := time.Now().UTC().Add(time.Hour)
	require.NoError(t, repo.CreateItem(model.Item{Name: "running", CreatorID: 1, LowAmount: 1, HighAmount: 2, EndTime: &end}))

	sweeper := NewSweeper(repo, rec, time.Minute)
	sweeper.Sweep()

	_, err := repo.GetItem("forever")
	require.NoError(t, err)
	_, err = repo.GetItem("running")
	require.NoError(t, err)
	require.Empty(t, rec.forChat(10))
}

// Notification failures do not stop finalization
func TestSweeper_NotificationFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	rec := newRecordingNotifier()
	rec.fail = true

	end := time.Now().UTC().Add(time.Minute)
	seedAuction(t, repo, "lamp", end)

	sweeper := NewSweeper(repo, rec, time.Minute)
	sweeper.SetClock(func() time.Time { return end.Add(time.Second) })

	sweeper.Sweep()

	_, err := repo.GetItem("lamp")
	require.True(t, errors.Is(err, auctionerrors.ErrItemNotFound))
}

// A failure on one item does not abort the rest of the tick
func TestSweeper_FailureIsolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockAuctionDB(ctrl)
	rec := newRecordingNotifier()

	expired := []model.Item{
		{Name: "first", CreatorID: 1, LowAmount: 1, HighAmount: 2},
		{Name: "second", CreatorID: 1, LowAmount: 1, HighAmount: 2},
	}

	mockRepo.EXPECT().ExpiredItems(gomock.Any()).Return(expired, nil)
	mockRepo.EXPECT().MarkCompleted("first").Return(errors.New("db down"))
	mockRepo.EXPECT().MarkCompleted("second").Return(nil)
	mockRepo.EXPECT().GetUser(int64(1)).Return(model.User{UserID: 1, ChatID: 10}, nil)
	mockRepo.EXPECT().DeleteItem("second").Return(nil)

	sweeper := NewSweeper(mockRepo, rec, time.Minute)
	sweeper.Sweep()

	require.Len(t, rec.forChat(10), 1, "second item should still be finalized")
}

// Finalization is idempotent: a second sweep sees no work
func TestSweeper_Idempotent(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	rec := newRecordingNotifier()

	end := time.Now().UTC().Add(time.Minute)
	seedAuction(t, repo, "lamp", end)

	sweeper := NewSweeper(repo, rec, time.Minute)
	sweeper.SetClock(func() time.Time { return end.Add(time.Second) })

	sweeper.Sweep()
	sweeper.Sweep()

	require.Len(t, rec.forChat(10), 1, "creator must be notified exactly once")
}
