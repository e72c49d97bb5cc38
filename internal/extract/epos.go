package extract

import (
	"strings"

	"cardtrack/internal/mailparse"
)

// EposUsageExtractor recognizes Epos Card usage notifications.
type EposUsageExtractor struct{}

func (e *EposUsageExtractor) Score(m *mailparse.ParsedMail) float64 {
	sender := strings.ToLower(m.From)

	score := 0.0
	if strings.Contains(sender, "eposcard") || strings.Contains(sender, "01epos.jp") {
		score += 0.6
	}
	if strings.Contains(m.Subject, "エポス") || strings.Contains(m.Subject, "ご利用") {
		score += 0.3
	}
	if strings.Contains(m.Body, "エポス") {
		score += 0.1
	}
	return min(score, 1.0)
}

func (e *EposUsageExtractor) Extract(m *mailparse.ParsedMail) *Extraction {
	amount, ok := AmountCentsJPY(m.Body)
	if !ok {
		return nil
	}

	merchant := LabeledLine(m.Body, "ご利用先", "ご利用店舗")
	if merchant == "" {
		merchant = "エポスカード ご利用"
	}

	return &Extraction{
		MerchantRaw: merchant,
		AmountCents: amount,
		Currency:    "JPY",
		PurchasedAt: usageDate(m, "ご利用日時", "ご利用日"),
		CardLast4:   CardLast4(m.Body),
		TokenLast4:  TokenLast4(m.Body),
		WalletType:  WalletType(m.Body),
		Issuer:      "epos",
		Status:      "pending",
	}
}
