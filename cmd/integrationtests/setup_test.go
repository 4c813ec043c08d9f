package integrationtests

import (
	"sync"
	"time"

	auction "auction-bot/internal/auctionService"
	"auction-bot/internal/lifecycle"
	"auction-bot/internal/repository"
	bothandler "auction-bot/services/bot/handler"
)

// recordingNotifier captures notifications per chat for assertions
type recordingNotifier struct {
	mu    sync.Mutex
	notes map[int64][]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{notes: make(map[int64][]string)}
}

func (n *recordingNotifier) Notify(chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes[chatID] = append(n.notes[chatID], text)
	return nil
}

func (n *recordingNotifier) forChat(chatID int64) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notes[chatID]...)
}

// testStack wires the full interactive path over the in-memory repository
type testStack struct {
	repo     *repository.MemoryRepo
	service  *auction.AuctionService
	handler  *bothandler.CommandHandler
	sweeper  *lifecycle.Sweeper
	notifier *recordingNotifier
}

// setupStack builds a complete bot stack backed by in-memory storage
func setupStack() *testStack {
	repo := repository.NewMemoryRepo()
	rec := newRecordingNotifier()
	service := auction.NewAuctionService(repo, rec)
	return &testStack{
		repo:     repo,
		service:  service,
		handler:  bothandler.NewCommandHandler(service),
		sweeper:  lifecycle.NewSweeper(repo, rec, time.Minute),
		notifier: rec,
	}
}

// command sends one chat command through the bot handler and returns the reply
func (s *testStack) command(userID, chatID int64, username, text string) string {
	reply, _ := s.handler.HandleCommand(userID, chatID, username, text)
	return reply
}
