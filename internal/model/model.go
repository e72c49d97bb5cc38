package model

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Message is one ingested notification mail. (user_id, provider_msg_id) is
// unique; raw_content is only kept when retention is enabled.
type Message struct {
	ID            string
	UserID        string
	ProviderMsgID string
	FromAddr      string
	Subject       string
	ReceivedAt    time.Time
	CardHint      *string
	IssuerHint    *string
	RawContent    []byte
	CreatedAt     time.Time
}

// Transaction is the structured record extracted from a Message.
// Amounts are stored in minor units (yen * 100).
type Transaction struct {
	ID           string
	UserID       string
	MessageID    *string
	MerchantRaw  string
	MerchantNorm string
	AmountCents  int64
	Currency     string
	PurchasedAt  time.Time
	CardLast4    *string
	TokenLast4   *string
	WalletType   *string
	ProductHint  *string
	Issuer       string
	Status       string
	Flags        map[string]any
	CreatedAt    time.Time
}
