package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"cardtrack/internal/model"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ListByUser returns the user's full transaction history, oldest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]model.Transaction, error) {
	query := `
        SELECT id, user_id, message_id, merchant_raw, merchant_norm, amount_cents, currency, purchased_at,
               card_last4, token_last4, wallet_type, product_hint, issuer, status, flags, created_at
        FROM transactions
        WHERE user_id = $1
        ORDER BY purchased_at ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		var flags []byte
		err := rows.Scan(
			&t.ID, &t.UserID, &t.MessageID, &t.MerchantRaw, &t.MerchantNorm, &t.AmountCents, &t.Currency, &t.PurchasedAt,
			&t.CardLast4, &t.TokenLast4, &t.WalletType, &t.ProductHint, &t.Issuer, &t.Status, &flags, &t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(flags) > 0 {
			if err := json.Unmarshal(flags, &t.Flags); err != nil {
				return nil, err
			}
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
