package main

import (
	"go.uber.org/zap"

	"cardtrack/config"
	"cardtrack/internal/api"
	"cardtrack/internal/db"
	"cardtrack/internal/extract"
	"cardtrack/internal/mq"
	"cardtrack/internal/redisclient"
	"cardtrack/internal/repository"
	"cardtrack/internal/service/auth"
	"cardtrack/internal/service/ingest"
	"cardtrack/internal/service/subscription"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init Redis (candidate cache)
	rdb := redisclient.New(cfg.Redis)
	defer rdb.Close()

	// 4. Init RabbitMQ producer for transaction.created events
	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("failed to init producer", zap.Error(err))
	}
	defer producer.Close()

	// 5. Init repositories
	userRepo := repository.NewUserRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	transactionRepo := repository.NewTransactionRepository(dbConn)

	// 6. Init extractor registry and services
	registry := extract.DefaultRegistry(cfg.Ingest.MinScore)
	authService := auth.NewService(userRepo, cfg.JWT.Secret)
	ingestService := ingest.NewService(messageRepo, registry, producer, cfg.Ingest, logger)
	candidateCache := subscription.NewCache(rdb, cfg.Detector.CacheTTL, logger)
	subscriptionService := subscription.NewService(transactionRepo, candidateCache, logger)

	// 7. Init handlers and router
	authHandler := api.NewAuthHandler(authService)
	importHandler := api.NewImportHandler(ingestService, logger)
	transactionHandler := api.NewTransactionHandler(transactionRepo)
	subscriptionHandler := api.NewSubscriptionHandler(subscriptionService)

	router := api.NewRouter(authHandler, importHandler, transactionHandler, subscriptionHandler, cfg.JWT.Secret)

	// 8. Run server
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("server start failed", zap.Error(err))
	}
}
