package main

import (
	"context"
	"crawler-server/internal/agent"
	"crawler-server/internal/auth"
	"crawler-server/internal/config"
	"crawler-server/internal/engine"
	"crawler-server/internal/infrastructure/storage"
	"crawler-server/internal/network"
	"crawler-server/internal/server"
	"crawler-server/internal/version"
	"crawler-server/pkg/logger"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Флаг перекрывает SEED из окружения. 0 - случайный мир.
	var seed int64
	var bots int
	flag.Int64Var(&seed, "seed", 0, "Master seed for dungeon generation (0 keeps SEED env or random)")
	flag.IntVar(&bots, "bots", 0, "Number of headless bot sessions to run alongside players")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.InitFromEnv()
		logger.Log.Fatalf("Invalid configuration: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	logger.Log.Info("Starting dungeon crawler server...")
	logger.Log.Info(version.Info().String())

	if seed != 0 {
		cfg.Seed = seed
	}
	if cfg.Seed != 0 {
		logger.Log.Infof("🎲 Using explicit Master Seed: %d", cfg.Seed)
	} else {
		logger.Log.Info("🎲 Using random seed per session")
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Log.Fatalf("Store init error: %v", err)
	}
	logger.Log.WithField("driver", cfg.StoreDriver).Info("Save store ready")

	gameService := engine.NewService(cfg.Engine(), network.NewBroadcaster(), store)
	srv := server.New(gameService, store, auth.NewAuthenticator(cfg.JWTSecret), cfg.Server())

	botCtx, stopBots := context.WithCancel(context.Background())
	defer stopBots()
	for i := 1; i <= bots; i++ {
		var botSeed int64
		if cfg.Seed != 0 {
			botSeed = cfg.Seed + int64(i)
		}
		bot := agent.NewBot(fmt.Sprintf("bot-%d", i), gameService, botSeed)
		go func() {
			if err := bot.Run(botCtx); err != nil && botCtx.Err() == nil {
				logger.Log.WithError(err).WithField("user_id", bot.UserID).Warn("Bot stopped")
			}
		}()
	}
	if bots > 0 {
		logger.Log.Infof("🤖 Started %d bot sessions", bots)
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case <-stop:
		logger.Log.Info("Shutting down...")
	case err := <-errCh:
		if err != nil {
			logger.Log.Errorf("Server start error: %v", err)
		}
	}

	stopBots()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown incomplete")
	}
	// Дожидаемся записей в хранилище, начатых сессиями
	if err := gameService.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("Sessions did not stop in time")
	}
	if err := store.Close(); err != nil {
		logger.Log.WithError(err).Warn("Store close failed")
	}

	logger.Log.Info("Done.")
}

func openStore(cfg config.Config) (storage.SaveStore, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		return storage.NewSQLStore(storage.SQLite, cfg.SQLitePath)
	case config.StorePostgres:
		return storage.NewSQLStore(storage.Postgres, cfg.DatabaseURL)
	case config.StoreFile:
		return storage.NewFileStore(cfg.SaveDir)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
