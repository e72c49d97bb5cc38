package extract

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cardtrack/internal/mailparse"
)

var (
	amountYenPattern = regexp.MustCompile(`[¥]?([0-9][0-9,]*)\s*円`)
	tokenPattern     = regexp.MustCompile(`トークン末尾\s*(\d{4})`)

	last4Patterns = []*regexp.Regexp{
		regexp.MustCompile(`下4桁\s*(\d{4})`),
		regexp.MustCompile(`末尾\s*(\d{4})`),
		regexp.MustCompile(`[*＊]{4}\s*(\d{4})`),
		regexp.MustCompile(`X{4}\s*(\d{4})`),
		regexp.MustCompile(`カード番号[^\d]*(\d{4})`),
	}

	// Literal date layouts seen across issuer templates, first match wins.
	dateLayouts = []string{
		"2006年1月2日",
		"2006/1/2",
		"2006-1-2",
		"2006.1.2",
	}
)

// AmountCentsJPY finds the first yen amount in text and scales it into
// minor units: "1,234円" -> 123400.
func AmountCentsJPY(text string) (int64, bool) {
	m := amountYenPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	digits := strings.ReplaceAll(m[1], ",", "")
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return amount * 100, true
}

// ParseTextualDate parses a literal date string against the known layouts.
func ParseTextualDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MailDate parses the message's own Date header, used as the purchase-date
// fallback before giving up and using the current time.
func MailDate(m *mailparse.ParsedMail) (time.Time, bool) {
	if m.Date == "" {
		return time.Time{}, false
	}
	if t, err := mail.ParseDate(m.Date); err == nil {
		return t, true
	}
	if t, ok := ParseTextualDate(m.Date); ok {
		return t, true
	}
	return time.Time{}, false
}

// CardLast4 finds the trailing card digits under any known masking convention.
func CardLast4(text string) *string {
	for _, pattern := range last4Patterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return &m[1]
		}
	}
	return nil
}

// TokenLast4 finds the trailing digits of a tokenized (wallet) card number.
func TokenLast4(text string) *string {
	if m := tokenPattern.FindStringSubmatch(text); m != nil {
		return &m[1]
	}
	return nil
}

// WalletType detects Apple/Google Pay wording; ProductHint covers the
// domestic contactless brands that ride on a card without a wallet.
func WalletType(body string) *string {
	switch {
	case strings.Contains(body, "Apple Pay") || strings.Contains(body, "アップルペイ"):
		s := "apple_pay"
		return &s
	case strings.Contains(body, "Google Pay") || strings.Contains(body, "グーグルペイ"):
		s := "google_pay"
		return &s
	}
	return nil
}

func ProductHint(body string) *string {
	switch {
	case strings.Contains(body, "QUICPay"):
		s := "QUICPay"
		return &s
	case strings.Contains(body, "iD"):
		s := "iD"
		return &s
	}
	return nil
}

// LabeledLine returns the first non-empty line following any of the given
// labeled prefixes, e.g. LabeledLine(body, "ご利用先") on "ご利用先: ACME".
func LabeledLine(text string, labels ...string) string {
	for _, label := range labels {
		pattern := regexp.MustCompile(regexp.QuoteMeta(label) + `[：:]*\s*(.+)`)
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		line := strings.TrimSpace(m[1])
		if idx := strings.IndexAny(line, "\r\n"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line != "" {
			return line
		}
	}
	return ""
}

// usageDate extracts a labeled usage date from the body, then falls back to
// the mail's own date, then to now. Shared by all issuer plugins.
func usageDate(m *mailparse.ParsedMail, labels ...string) time.Time {
	for _, label := range labels {
		pattern := regexp.MustCompile(regexp.QuoteMeta(label) + `[：:]*\s*([0-9]{4}[年/\-.][0-9]{1,2}[月/\-.][0-9]{1,2}日?)`)
		if match := pattern.FindStringSubmatch(m.Body); match != nil {
			if t, ok := ParseTextualDate(match[1]); ok {
				return t
			}
		}
	}
	if t, ok := MailDate(m); ok {
		return t
	}
	return time.Now().UTC()
}
