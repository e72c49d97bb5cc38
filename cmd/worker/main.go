package main

import (
	"time"

	"go.uber.org/zap"

	"cardtrack/config"
	"cardtrack/internal/db"
	"cardtrack/internal/extract"
	"cardtrack/internal/mq"
	"cardtrack/internal/mqhandler"
	"cardtrack/internal/redisclient"
	"cardtrack/internal/repository"
	"cardtrack/internal/service/ingest"
	"cardtrack/internal/util"
)

func main() {
	// Load config
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting ingestion worker...")

	// Init Redis
	rdb := redisclient.New(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour)

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init producer for transaction.created events
	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("failed to init producer", zap.Error(err))
	}
	defer producer.Close()

	// Init pipeline
	messageRepo := repository.NewMessageRepository(dbConn)
	registry := extract.DefaultRegistry(cfg.Ingest.MinScore)
	ingestService := ingest.NewService(messageRepo, registry, producer, cfg.Ingest, logger)

	handler := mqhandler.NewMailboxFetchedHandler(ingestService, deduper, logger)

	// Consume mailbox.fetched events published by the mailbox/API adapters
	consumer, err := mq.NewConsumer(cfg.MQ.URL, "mailbox.fetched", logger)
	if err != nil {
		logger.Fatal("failed to init consumer", zap.Error(err))
	}
	defer consumer.Close()
	consumer.SetHandler(handler.HandleMailboxFetched)

	if err := consumer.StartConsuming(); err != nil {
		logger.Fatal("consumer failed", zap.Error(err))
	}
}
