package extract

import (
	"regexp"
	"strings"
	"time"

	"cardtrack/internal/mailparse"
)

// RakutenSummaryExtractor recognizes the Rakuten Card realtime usage digest
// (カードご利用速報).
type RakutenSummaryExtractor struct{}

var rakutenUsageDate = regexp.MustCompile(`ご利用日\s*([0-9]{4}[/-][0-9]{1,2}[/-][0-9]{1,2})`)

func (e *RakutenSummaryExtractor) Score(m *mailparse.ParsedMail) float64 {
	sender := strings.ToLower(m.From)

	score := 0.0
	if strings.Contains(sender, "rakuten-card.co.jp") || strings.Contains(sender, "rakuten") {
		score += 0.6
	}
	if strings.Contains(m.Subject, "速報") {
		score += 0.3
	}
	if strings.Contains(m.Body, "楽天カード") {
		score += 0.1
	}
	return min(score, 1.0)
}

func (e *RakutenSummaryExtractor) Extract(m *mailparse.ParsedMail) *Extraction {
	amount, ok := AmountCentsJPY(m.Body)
	if !ok {
		return nil
	}

	var purchasedAt time.Time
	if match := rakutenUsageDate.FindStringSubmatch(m.Body); match != nil {
		if t, parsed := ParseTextualDate(match[1]); parsed {
			purchasedAt = t
		}
	}
	if purchasedAt.IsZero() {
		if t, parsed := MailDate(m); parsed {
			purchasedAt = t
		} else {
			purchasedAt = time.Now().UTC()
		}
	}

	// The digest mail never names the merchant; it arrives before the
	// statement entry does.
	merchant := LabeledLine(m.Body, "ご利用先")
	if merchant == "" {
		merchant = "楽天カード 速報"
	}

	result := &Extraction{
		MerchantRaw: merchant,
		AmountCents: amount,
		Currency:    "JPY",
		PurchasedAt: purchasedAt,
		CardLast4:   CardLast4(m.Body),
		TokenLast4:  TokenLast4(m.Body),
		Issuer:      "rakuten",
		Status:      "pending",
	}

	if wallet := WalletType(m.Body); wallet != nil {
		result.WalletType = wallet
	} else {
		result.ProductHint = ProductHint(m.Body)
	}

	return result
}
