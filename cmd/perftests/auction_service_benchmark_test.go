package perftests

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	auction "auction-bot/internal/auctionService"
	model "auction-bot/internal/models"
	repository "auction-bot/internal/repository"
)

// Benchmark 1: PlaceBid - Isolated Items (Low Contention - Micro Benchmark)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	repo := repository.NewMemoryRepo()
	svc := auction.NewAuctionService(repo, noopNotifier{})

	for i := 0; i < b.N; i++ {
		item := model.Item{
			Name:       fmt.Sprintf("item_%d", i),
			CreatorID:  1,
			LowAmount:  50,
			HighAmount: 1_000_000,
		}
		if err := repo.CreateItem(item); err != nil {
			b.Fatalf("failed to seed item: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		itemName := fmt.Sprintf("item_%d", i)
		bidAmount := float64(50 + rand.Intn(100) + 1)
		if _, err := svc.PlaceBid(itemName, int64(i+2), bidAmount); err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: PlaceBid - Shared Item (High Contention - Concurrency Benchmark)

func Benchmark_PlaceBid_ConcurrentSharedItem(b *testing.B) {
	repo := repository.NewMemoryRepo()
	svc := auction.NewAuctionService(repo, noopNotifier{})

	item := model.Item{
		Name:       "shared_item_1",
		CreatorID:  1,
		LowAmount:  50,
		HighAmount: 100_000_000,
	}
	if err := repo.CreateItem(item); err != nil {
		b.Fatalf("failed to seed item: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 50

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			bidderID := rnd.Int63()

			nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
			_, _ = svc.PlaceBid(item.Name, bidderID, float64(nextBid))
		}
	})
}

// Benchmark 3: WinningBid - Single - Threaded (Low Contention)
func Benchmark_WinningBid_SingleThreaded(b *testing.B) {
	repo := repository.NewMemoryRepo()
	svc := auction.NewAuctionService(repo, noopNotifier{})

	for i := 0; i < b.N; i++ {
		item := model.Item{
			Name:       fmt.Sprintf("item_%d", i),
			CreatorID:  1,
			LowAmount:  50,
			HighAmount: 1_000_000,
		}
		if err := repo.CreateItem(item); err != nil {
			b.Fatalf("failed to seed item: %v", err)
		}

		for j := 0; j < 10; j++ {
			bidAmount := float64(51 + j*10)
			_, _ = svc.PlaceBid(item.Name, int64(j+2), bidAmount)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		itemName := fmt.Sprintf("item_%d", i)
		if _, err := svc.WinningBid(itemName); err != nil {
			b.Fatalf("failed to get winning bid: %v", err)
		}
	}
}

// Benchmark 4: WinningBid - Concurrent (High Contention)
func Benchmark_WinningBid_ConcurrentSharedItem(b *testing.B) {
	repo := repository.NewMemoryRepo()
	svc := auction.NewAuctionService(repo, noopNotifier{})

	item := model.Item{
		Name:       "shared_item_1",
		CreatorID:  1,
		LowAmount:  50,
		HighAmount: 1_000_000,
	}
	if err := repo.CreateItem(item); err != nil {
		b.Fatalf("failed to seed item: %v", err)
	}

	for j := 0; j < 100; j++ {
		bidAmount := float64(51 + j)
		_, _ = svc.PlaceBid(item.Name, int64(j+2), bidAmount)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var counter int64

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := svc.WinningBid(item.Name); err != nil {
				b.Fatalf("failed to get winning bid: %v", err)
			}
			atomic.AddInt64(&counter, 1)
		}
	})
}

// Benchmark 5: Mixed Workload (Readers + Writers concurrently)
func Benchmark_MixedWorkload_SharedItem(b *testing.B) {
	repo := repository.NewMemoryRepo()
	svc := auction.NewAuctionService(repo, noopNotifier{})

	item := model.Item{
		Name:       "shared_item_1",
		CreatorID:  1,
		LowAmount:  50,
		HighAmount: 100_000_000,
	}
	if err := repo.CreateItem(item); err != nil {
		b.Fatalf("failed to seed item: %v", err)
	}

	for j := 0; j < 50; j++ {
		bidAmount := float64(51 + j*2)
		_, _ = svc.PlaceBid(item.Name, int64(j+2), bidAmount)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 150
	var counter int64

	// Ratio: 70% readers, 30% writers
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			opType := rnd.Intn(10)
			switch {
			case opType < 3:
				// Writer: Place a new bid
				bidderID := rnd.Int63()
				nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
				_, _ = svc.PlaceBid(item.Name, bidderID, float64(nextBid))
			default:
				// Reader: Get winning bid
				_, _ = svc.WinningBid(item.Name)
			}
			atomic.AddInt64(&counter, 1)
		}
	})
}
