package mq

import "time"

// MailboxFetchedPayload is published by the mailbox/API adapters when they
// have pulled a batch of raw messages for a user. Payloads are the original
// message bytes, base64-encoded by encoding/json.
type MailboxFetchedPayload struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Payloads  [][]byte  `json:"payloads"`
	FetchedAt time.Time `json:"fetched_at"`
}

// TransactionCreatedPayload is published after a message/transaction unit
// commits, for downstream alerting consumers.
type TransactionCreatedPayload struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	MerchantNorm  string    `json:"merchant_norm"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	Issuer        string    `json:"issuer"`
	PurchasedAt   time.Time `json:"purchased_at"`
}
