package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/goldfelt/casino/internal/config"
	"github.com/goldfelt/casino/internal/logging"
	"github.com/goldfelt/casino/internal/server"
	historyRepo "github.com/goldfelt/casino/pkg/repositories/history"
	"github.com/goldfelt/casino/pkg/repositories/session"
	walletRepo "github.com/goldfelt/casino/pkg/repositories/wallet"
	"github.com/goldfelt/casino/pkg/services/blackjack"
	"github.com/goldfelt/casino/pkg/services/heart"
	"github.com/goldfelt/casino/pkg/services/history"
	"github.com/goldfelt/casino/pkg/services/wallet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Wallets and history are durable; live games are not and stay in memory.
	wallets, err := walletRepo.NewSQLiteRepository(filepath.Join(cfg.DataDir, "wallets.db"))
	if err != nil {
		logger.Fatal("failed to open wallet database", zap.Error(err))
	}
	defer wallets.Close()

	var histories historyRepo.Repository
	histories, err = historyRepo.NewSQLiteRepository(filepath.Join(cfg.DataDir, "history.db"))
	if err != nil {
		logger.Fatal("failed to open history database", zap.Error(err))
	}

	if cfg.ElasticsearchEnabled {
		esRepo, err := historyRepo.NewElasticsearchRepository(histories, &historyRepo.ElasticsearchConfig{
			URL:         cfg.ElasticsearchURL,
			Username:    cfg.ElasticsearchUsername,
			Password:    cfg.ElasticsearchPassword,
			IndexPrefix: cfg.ElasticsearchPrefix,
		}, logger)
		if err != nil {
			logger.Warn("elasticsearch mirror unavailable, history stays sqlite-only", zap.Error(err))
		} else {
			histories = esRepo
			logger.Info("game history mirrored to elasticsearch", zap.String("url", cfg.ElasticsearchURL))
		}
	}
	defer histories.Close()

	walletService := wallet.NewService(wallets, logger, cfg.StartingBalance)
	historyService := history.NewService(histories, logger)
	heartService := heart.NewService(cfg.HeartAPIURL, logger)
	blackjackService := blackjack.NewService(session.NewMemoryStore(), logger)

	srv := server.New(cfg.ListenAddr, blackjackService, walletService, historyService, heartService, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
