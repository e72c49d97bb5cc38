package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cardtrack/internal/model"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// MessageExists reports whether the user already ingested this provider
// message id.
func (r *MessageRepository) MessageExists(ctx context.Context, userID, providerMsgID string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM messages
            WHERE user_id = $1 AND provider_msg_id = $2
        )
    `
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, providerMsgID).Scan(&exists)
	return exists, err
}

// SaveMessage inserts a message that produced no transaction.
func (r *MessageRepository) SaveMessage(ctx context.Context, m *model.Message) error {
	query := `
        INSERT INTO messages (id, user_id, provider_msg_id, from_addr, subject, received_at, card_hint, issuer_hint, raw_content, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
    `
	_, err := r.db.Exec(ctx, query,
		m.ID, m.UserID, m.ProviderMsgID, m.FromAddr, m.Subject, m.ReceivedAt,
		m.CardHint, m.IssuerHint, m.RawContent,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateMessage
	}
	return err
}

// SaveMessageWithTransaction inserts the message, its extracted transaction
// and the hint backfill as one database transaction, so cancellation never
// leaves a half-committed pair.
func (r *MessageRepository) SaveMessageWithTransaction(ctx context.Context, m *model.Message, t *model.Transaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	insertMessage := `
        INSERT INTO messages (id, user_id, provider_msg_id, from_addr, subject, received_at, card_hint, issuer_hint, raw_content, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NULL, NULL, $7, NOW())
    `
	_, err = tx.Exec(ctx, insertMessage,
		m.ID, m.UserID, m.ProviderMsgID, m.FromAddr, m.Subject, m.ReceivedAt, m.RawContent,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateMessage
	}
	if err != nil {
		return err
	}

	flags, err := json.Marshal(t.Flags)
	if err != nil {
		return fmt.Errorf("marshal flags: %w", err)
	}

	insertTransaction := `
        INSERT INTO transactions (id, user_id, message_id, merchant_raw, merchant_norm, amount_cents, currency, purchased_at,
                                  card_last4, token_last4, wallet_type, product_hint, issuer, status, flags, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
    `
	_, err = tx.Exec(ctx, insertTransaction,
		t.ID, t.UserID, t.MessageID, t.MerchantRaw, t.MerchantNorm, t.AmountCents, t.Currency, t.PurchasedAt,
		t.CardLast4, t.TokenLast4, t.WalletType, t.ProductHint, t.Issuer, t.Status, flags,
	)
	if err != nil {
		return err
	}

	backfill := `
        UPDATE messages SET card_hint = $1, issuer_hint = $2 WHERE id = $3
    `
	cardHint := t.CardLast4
	if cardHint == nil {
		cardHint = t.TokenLast4
	}
	if _, err := tx.Exec(ctx, backfill, cardHint, t.Issuer, m.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
