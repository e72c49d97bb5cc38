package extract

import (
	"time"

	"cardtrack/internal/mailparse"
)

// Extraction holds the fields mined out of a single notification mail.
// AmountCents is in minor units; Flags carries issuer-specific markers that
// have no typed column (e.g. a numberless-card indicator).
type Extraction struct {
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
}

// Extractor recognizes and mines one issuer's notification template.
// New issuer formats are added by implementing this interface and
// registering the instance; nothing else changes.
type Extractor interface {
	// Score returns confidence in [0,1] that this extractor recognizes
	// the message's template.
	Score(m *mailparse.ParsedMail) float64
	// Extract mines transaction fields. It returns nil when no monetary
	// amount can be located even though the score matched.
	Extract(m *mailparse.ParsedMail) *Extraction
}
