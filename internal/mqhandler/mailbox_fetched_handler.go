package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"cardtrack/internal/mq"
	"cardtrack/internal/service/ingest"
	"cardtrack/internal/util"
)

// MailboxFetchedHandler drives the ingestion pipeline from mailbox.fetched
// events published by the out-of-process mailbox and API adapters.
type MailboxFetchedHandler struct {
	ingest  *ingest.Service
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewMailboxFetchedHandler(ingestService *ingest.Service, deduper *util.Deduper, logger *zap.Logger) *MailboxFetchedHandler {
	return &MailboxFetchedHandler{
		ingest:  ingestService,
		deduper: deduper,
		logger:  logger,
	}
}

// HandleMailboxFetched is idempotent under redelivery: the deduper skips
// recently seen event ids and the message unique constraint catches the rest
// as duplicate outcomes.
func (h *MailboxFetchedHandler) HandleMailboxFetched(ctx context.Context, raw json.RawMessage) error {
	var p mq.MailboxFetchedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal mailbox fetched payload", zap.Error(err))
		return err
	}

	if p.EventID != "" && !h.deduper.AcquireOnce(ctx, "ingest", p.EventID) {
		h.logger.Debug("Skipping redelivered mailbox batch",
			zap.String("event_id", p.EventID),
		)
		return nil
	}

	h.logger.Info("Processing mailbox batch",
		zap.String("event_id", p.EventID),
		zap.String("user_id", p.UserID),
		zap.Int("payloads", len(p.Payloads)),
	)

	stats := h.ingest.IngestBatch(ctx, p.UserID, p.Payloads)

	for _, errStr := range stats.Errors {
		h.logger.Warn("Ingestion item failed",
			zap.String("event_id", p.EventID),
			zap.String("user_id", p.UserID),
			zap.String("error", errStr),
		)
	}
	return nil
}
