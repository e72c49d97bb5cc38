package extract

import (
	"strings"

	"cardtrack/internal/mailparse"
)

// MUFGNicosExtractor covers the MUFG / NICOS / DC card family, which shares
// one notification template across three sender domains.
type MUFGNicosExtractor struct{}

var mufgSenderDomains = []string{"mufg-card.com", "nicos.co.jp", "dc-card.com"}

func (e *MUFGNicosExtractor) Score(m *mailparse.ParsedMail) float64 {
	sender := strings.ToLower(m.From)
	body := strings.ToLower(m.Body)

	score := 0.0
	for _, domain := range mufgSenderDomains {
		if strings.Contains(sender, domain) {
			score += 0.6
			break
		}
	}
	if strings.Contains(m.Subject, "ご利用") || strings.Contains(m.Subject, "ご請求") {
		score += 0.3
	}
	if strings.Contains(body, "mufg") || strings.Contains(m.Body, "ニコス") {
		score += 0.1
	}
	return min(score, 1.0)
}

func (e *MUFGNicosExtractor) Extract(m *mailparse.ParsedMail) *Extraction {
	amount, ok := AmountCentsJPY(m.Body)
	if !ok {
		return nil
	}

	merchant := LabeledLine(m.Body, "ご利用先", "ご利用店", "ご利用内容")
	if merchant == "" {
		merchant = "MUFGカード ご利用"
	}

	result := &Extraction{
		MerchantRaw: merchant,
		AmountCents: amount,
		Currency:    "JPY",
		PurchasedAt: usageDate(m, "ご利用日", "ご利用日時"),
		CardLast4:   CardLast4(m.Body),
		TokenLast4:  TokenLast4(m.Body),
		Issuer:      "mufg",
		Status:      "pending",
	}

	if wallet := WalletType(m.Body); wallet != nil {
		result.WalletType = wallet
	} else {
		result.ProductHint = ProductHint(m.Body)
	}

	return result
}
