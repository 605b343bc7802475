package main

import (
	"fmt"

	"github.com/nordvig/healthapp-backend/internal/assistant"
	"github.com/nordvig/healthapp-backend/internal/audio"
	"github.com/nordvig/healthapp-backend/internal/auth"
	"github.com/nordvig/healthapp-backend/internal/server"
	"github.com/nordvig/healthapp-backend/internal/storage"
	"github.com/nordvig/healthapp-backend/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Remote assistant client and registry
	client := assistant.NewOpenAIClient(cfg.OpenAI.APIKey)
	registry := assistant.NewRegistry(cfg.Assistant.IDs)

	orchestrator := assistant.NewOrchestrator(
		client,
		store,
		registry,
		assistant.RetryPolicy{
			MaxAttempts: cfg.Assistant.PollMaxAttempts,
			Interval:    cfg.Assistant.PollInterval,
		},
		logger,
	)

	titles := assistant.NewTitleGenerator(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.TitleModel,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.Temperature,
		store,
		logger,
	)

	speech := audio.NewService(cfg.OpenAI.APIKey, cfg.Server.AudioDir, logger)
	authService := auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	router := server.NewRouter(server.RouterConfig{
		CORSOrigin:    cfg.Server.CORSOrigin,
		AuthHandler:   server.NewAuthHandler(store, authService, logger),
		UserHandler:   server.NewUserHandler(store, logger),
		ThreadHandler: server.NewThreadHandler(store, logger),
		ChatHandler:   server.NewChatHandler(orchestrator, client, titles, store, logger),
		AudioHandler: server.NewAudioHandler(
			speech,
			store,
			cfg.Server.AudioDir,
			cfg.Server.UploadDir,
			cfg.Server.PublicURL,
			logger,
		),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
