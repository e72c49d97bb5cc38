package extract

import (
	"strings"

	"cardtrack/internal/mailparse"
)

// SMBCVpassExtractor recognizes Sumitomo Mitsui Card usage notifications
// sent through the Vpass service.
type SMBCVpassExtractor struct{}

func (e *SMBCVpassExtractor) Score(m *mailparse.ParsedMail) float64 {
	sender := strings.ToLower(m.From)
	body := strings.ToLower(m.Body)

	score := 0.0
	if strings.Contains(sender, "vpass.ne.jp") || strings.Contains(sender, "smbc-card") {
		score += 0.5
	}
	if strings.Contains(m.Subject, "ご利用") && strings.Contains(m.Subject, "カード") {
		score += 0.3
	}
	if strings.Contains(body, "vpass") || strings.Contains(m.Body, "三井住友") {
		score += 0.2
	}
	return min(score, 1.0)
}

func (e *SMBCVpassExtractor) Extract(m *mailparse.ParsedMail) *Extraction {
	amount, ok := AmountCentsJPY(m.Body)
	if !ok {
		return nil
	}

	merchant := LabeledLine(m.Body, "ご利用先")
	if merchant == "" {
		merchant = "三井住友カード ご利用"
	}

	last4 := CardLast4(m.Body)

	result := &Extraction{
		MerchantRaw: merchant,
		AmountCents: amount,
		Currency:    "JPY",
		PurchasedAt: usageDate(m, "ご利用日"),
		CardLast4:   last4,
		TokenLast4:  TokenLast4(m.Body),
		WalletType:  WalletType(m.Body),
		Issuer:      "smbc",
		Status:      "pending",
	}

	// Numberless cards print no digits anywhere in the mail.
	if strings.Contains(m.Body, "ナンバーレス") && last4 == nil {
		result.Flags = map[string]any{
			"numberless": true,
			"card_label": "SMBCナンバーレス",
		}
	}
	if result.TokenLast4 != nil {
		if result.Flags == nil {
			result.Flags = map[string]any{}
		}
		result.Flags["token_label"] = "トークン: " + *result.TokenLast4
	}

	return result
}
