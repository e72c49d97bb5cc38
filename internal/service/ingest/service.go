package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cardtrack/config"
	"cardtrack/internal/extract"
	"cardtrack/internal/mailparse"
	"cardtrack/internal/model"
	"cardtrack/internal/mq"
	"cardtrack/internal/normalize"
	"cardtrack/internal/repository"
	"cardtrack/pkg/metrics"
)

// Stats is the aggregate result of one ingestion batch. It is always
// complete, including the all-failed case.
type Stats struct {
	Processed           int      `json:"processed"`
	IngestedMessages    int      `json:"ingested_messages"`
	TransactionsCreated int      `json:"transactions_created"`
	Duplicates          int      `json:"duplicates"`
	NoMatch             int      `json:"no_match"`
	Errors              []string `json:"errors"`
}

// Store is the persistence boundary of the pipeline. The database enforces
// uniqueness on (user_id, provider_msg_id) as the authoritative guard; both
// save methods return repository.ErrDuplicateMessage on a constraint race.
type Store interface {
	MessageExists(ctx context.Context, userID, providerMsgID string) (bool, error)
	SaveMessage(ctx context.Context, m *model.Message) error
	SaveMessageWithTransaction(ctx context.Context, m *model.Message, t *model.Transaction) error
}

// Publisher emits events for downstream consumers. May be nil-equivalent in
// tests via NopPublisher.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// NopPublisher drops all events.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) error { return nil }

type Service struct {
	store    Store
	registry *extract.Registry
	events   Publisher
	cfg      config.IngestConfig
	logger   *zap.Logger
}

func NewService(store Store, registry *extract.Registry, events Publisher, cfg config.IngestConfig, logger *zap.Logger) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	return &Service{
		store:    store,
		registry: registry,
		events:   events,
		cfg:      cfg,
		logger:   logger,
	}
}

// IngestBatch runs the pipeline over an ordered batch of raw payloads for
// one user. Item failures are recorded and never abort the batch; each
// message/transaction pair commits as a unit, so cancellation mid-batch
// keeps whatever was already committed.
func (s *Service) IngestBatch(ctx context.Context, userID string, payloads [][]byte) *Stats {
	stats := &Stats{Errors: []string{}}

	for _, payload := range payloads {
		if err := ctx.Err(); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("batch stopped: %v", err))
			break
		}
		stats.Processed++
		s.ingestOne(ctx, userID, payload, stats)
	}

	s.logger.Info("Ingestion batch finished",
		zap.String("user_id", userID),
		zap.Int("processed", stats.Processed),
		zap.Int("ingested_messages", stats.IngestedMessages),
		zap.Int("transactions_created", stats.TransactionsCreated),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("no_match", stats.NoMatch),
		zap.Int("errors", len(stats.Errors)),
	)
	return stats
}

func (s *Service) ingestOne(ctx context.Context, userID string, payload []byte, stats *Stats) {
	parsed, err := mailparse.Parse(payload)
	if err != nil {
		if errors.Is(err, mailparse.ErrEmptyPayload) {
			stats.Errors = append(stats.Errors, "empty_payload")
		} else {
			stats.Errors = append(stats.Errors, fmt.Sprintf("parse_error: %v", err))
		}
		metrics.RecordOutcome("error")
		return
	}

	providerMsgID := parsed.MessageID
	if providerMsgID == "" {
		providerMsgID = "local-" + uuid.NewString()
	}

	exists, err := s.store.MessageExists(ctx, userID, providerMsgID)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("store_error: %v", err))
		metrics.RecordOutcome("error")
		return
	}
	if exists {
		stats.Duplicates++
		metrics.RecordOutcome("duplicate")
		return
	}

	message := &model.Message{
		ID:            uuid.NewString(),
		UserID:        userID,
		ProviderMsgID: providerMsgID,
		FromAddr:      parsed.From,
		Subject:       parsed.Subject,
		ReceivedAt:    receivedAt(parsed),
	}
	if s.cfg.StoreRawMessages {
		message.RawContent = payload
	}

	extraction := s.registry.BestMatch(parsed)
	if extraction == nil {
		if err := s.store.SaveMessage(ctx, message); err != nil {
			if errors.Is(err, repository.ErrDuplicateMessage) {
				stats.Duplicates++
				metrics.RecordOutcome("duplicate")
				return
			}
			stats.Errors = append(stats.Errors, fmt.Sprintf("store_error: %v", err))
			metrics.RecordOutcome("error")
			return
		}
		stats.IngestedMessages++
		stats.NoMatch++
		metrics.RecordOutcome("no_match")
		return
	}

	transaction := s.buildTransaction(userID, message, extraction)
	if err := s.store.SaveMessageWithTransaction(ctx, message, transaction); err != nil {
		if errors.Is(err, repository.ErrDuplicateMessage) {
			stats.Duplicates++
			metrics.RecordOutcome("duplicate")
			return
		}
		stats.Errors = append(stats.Errors, fmt.Sprintf("store_error: %v", err))
		metrics.RecordOutcome("error")
		return
	}
	stats.IngestedMessages++
	stats.TransactionsCreated++
	metrics.RecordOutcome("ingested")
	metrics.TransactionsCreated.WithLabelValues(transaction.Issuer).Inc()

	if err := s.events.Publish("transaction.created", mq.TransactionCreatedPayload{
		TransactionID: transaction.ID,
		UserID:        userID,
		MerchantNorm:  transaction.MerchantNorm,
		AmountCents:   transaction.AmountCents,
		Currency:      transaction.Currency,
		Issuer:        transaction.Issuer,
		PurchasedAt:   transaction.PurchasedAt,
	}); err != nil {
		// The unit is already committed; losing the event only delays alerts.
		s.logger.Warn("failed to publish transaction.created",
			zap.String("transaction_id", transaction.ID),
			zap.Error(err),
		)
	}
}

// Preview runs parse + extract + normalize without touching persistence.
func (s *Service) Preview(payload []byte) (*extract.Extraction, error) {
	parsed, err := mailparse.Parse(payload)
	if err != nil {
		return nil, err
	}
	extraction := s.registry.BestMatch(parsed)
	if extraction == nil {
		return nil, nil
	}
	if extraction.MerchantNorm == "" && extraction.MerchantRaw != "" {
		extraction.MerchantNorm = normalize.Name(extraction.MerchantRaw)
	}
	return extraction, nil
}

func (s *Service) buildTransaction(userID string, message *model.Message, e *extract.Extraction) *model.Transaction {
	merchantNorm := e.MerchantNorm
	if merchantNorm == "" && e.MerchantRaw != "" {
		merchantNorm = normalize.Name(e.MerchantRaw)
	}

	purchasedAt := e.PurchasedAt
	if purchasedAt.IsZero() {
		purchasedAt = message.ReceivedAt
	}

	status := e.Status
	if status == "" {
		status = "confirmed"
	}

	messageID := message.ID
	return &model.Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		MessageID:    &messageID,
		MerchantRaw:  e.MerchantRaw,
		MerchantNorm: merchantNorm,
		AmountCents:  e.AmountCents,
		Currency:     e.Currency,
		PurchasedAt:  purchasedAt,
		CardLast4:    e.CardLast4,
		TokenLast4:   e.TokenLast4,
		WalletType:   e.WalletType,
		ProductHint:  e.ProductHint,
		Issuer:       e.Issuer,
		Status:       status,
		Flags:        e.Flags,
	}
}

func receivedAt(parsed *mailparse.ParsedMail) time.Time {
	if parsed.Date != "" {
		if t, err := mail.ParseDate(parsed.Date); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
