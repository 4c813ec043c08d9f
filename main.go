package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	auction "auction-bot/internal/auctionService"
	"auction-bot/internal/cache"
	"auction-bot/internal/config"
	"auction-bot/internal/lifecycle"
	"auction-bot/internal/notifier"
	"auction-bot/internal/repository"
	"auction-bot/internal/server"
	"auction-bot/internal/telegram"
	bothandler "auction-bot/services/bot/handler"
	"auction-bot/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	repo, cleanup, err := buildRepository(cfg)
	if err != nil {
		utils.Fatal("failed to initialize storage", map[string]any{"error": err.Error()})
	}
	defer cleanup()

	client := telegram.NewClient(cfg.TelegramBaseURL, cfg.TelegramToken)
	dispatcher := notifier.NewTelegramNotifier(client)

	auctionSvc := auction.NewAuctionService(repo, dispatcher)
	commandHandler := bothandler.NewCommandHandler(auctionSvc)
	bot := telegram.NewBot(client, commandHandler, cfg.PollTimeout)
	sweeper := lifecycle.NewSweeper(repo, dispatcher, cfg.SweepInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweeper.Run(ctx)
	go bot.Run(ctx)

	router := server.SetupRouter(auctionSvc)

	utils.Info("starting auction bot", map[string]any{
		"storage":        cfg.Storage,
		"http_port":      cfg.HTTPPort,
		"sweep_interval": cfg.SweepInterval.String(),
	})
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		utils.Fatal("failed to start server", map[string]any{"error": err.Error()})
	}
}

// buildRepository selects the storage backend from configuration
func buildRepository(cfg *config.Config) (repository.AuctionDB, func(), error) {
	if cfg.Storage == config.StorageMemory {
		return repository.NewMemoryRepo(), func() {}, nil
	}

	var userCache *cache.Cache
	if cfg.RedisAddr != "" {
		userCache = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}

	repo, err := repository.NewPostgresRepo(cfg.PostgresDSN, userCache)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := repo.Close(); err != nil {
			utils.Warn("failed to close database", map[string]any{"error": err.Error()})
		}
		if userCache != nil {
			if err := userCache.Close(); err != nil {
				utils.Warn("failed to close cache", map[string]any{"error": err.Error()})
			}
		}
	}
	return repo, cleanup, nil
}
