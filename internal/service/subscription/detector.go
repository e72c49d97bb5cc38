package subscription

import (
	"math"
	"sort"
	"strings"
	"time"

	"cardtrack/internal/model"
	"cardtrack/internal/normalize"
)

// Candidate is a recurring-spend pattern detected over one user's history.
// Candidates are recomputed fully on every detector pass; the Signals bag
// exposes the component scores for transparency.
type Candidate struct {
	MerchantNorm   string         `json:"merchant_norm"`
	Cadence        string         `json:"cadence"`
	AmountCentsMin int64          `json:"amount_cents_min"`
	AmountCentsMax int64          `json:"amount_cents_max"`
	CardLast4      *string        `json:"card_last4"`
	FirstSeen      time.Time      `json:"first_seen"`
	LastSeen       time.Time      `json:"last_seen"`
	Confidence     float64        `json:"confidence"`
	Signals        map[string]any `json:"signals"`
}

const minGroupSize = 3

var subscriptionKeywords = []string{"subscription", "サブス", "会費", "月額", "定期"}

type gapWindow struct {
	name string
	low  int
	high int
}

var gapWindows = []gapWindow{
	{"weekly", 6, 8},
	{"monthly", 27, 33},
	{"yearly", 358, 372},
}

type groupKey struct {
	merchant   string
	instrument string
	walletHint string
}

// Detect groups the transaction history by (merchant, instrument) and scores
// each group for subscription likelihood. Pure and stateless.
func Detect(transactions []model.Transaction) []Candidate {
	groups := map[groupKey][]model.Transaction{}
	order := []groupKey{}
	for _, tx := range transactions {
		merchant := tx.MerchantNorm
		if merchant == "" {
			merchant = tx.MerchantRaw
		}
		key := groupKey{
			merchant:   merchant,
			instrument: deref(tx.CardLast4, deref(tx.TokenLast4, "")),
			walletHint: deref(tx.WalletType, deref(tx.ProductHint, "")),
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	candidates := []Candidate{}
	for _, key := range order {
		if c, ok := scoreGroup(key, groups[key]); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

func scoreGroup(key groupKey, txs []model.Transaction) (Candidate, bool) {
	positive := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		// Zero amounts are trial/preview signals, not payments.
		if tx.AmountCents > 0 {
			positive = append(positive, tx)
		}
	}
	if len(positive) < minGroupSize {
		return Candidate{}, false
	}

	sort.Slice(positive, func(i, j int) bool {
		return positive[i].PurchasedAt.Before(positive[j].PurchasedAt)
	})

	amounts := make([]int64, len(positive))
	days := make([]time.Time, len(positive))
	for i, tx := range positive {
		amounts[i] = tx.AmountCents
		days[i] = tx.PurchasedAt.Truncate(24 * time.Hour)
	}

	gaps := make([]int, 0, len(days)-1)
	for i := 1; i < len(days); i++ {
		gaps = append(gaps, int(days[i].Sub(days[i-1]).Hours()/24))
	}

	periodicity := periodicityScore(gaps)
	stability := amountStability(amounts)
	vocab := vocabSignal(key.merchant)

	confidence := round2(0.5*periodicity + 0.3*stability + 0.2*vocab)
	if confidence < 0.5 {
		return Candidate{}, false
	}

	minAmount, maxAmount := amounts[0], amounts[0]
	for _, a := range amounts[1:] {
		minAmount = min(minAmount, a)
		maxAmount = max(maxAmount, a)
	}

	first := positive[0]
	signals := map[string]any{
		"periodicity":      periodicity,
		"stability":        stability,
		"vocab":            vocab,
		"token_last4":      deref(first.TokenLast4, ""),
		"wallet_type":      deref(first.WalletType, ""),
		"product_hint":     deref(first.ProductHint, ""),
		"period_histogram": gapHistogram(gaps),
		"amount_min":       minAmount,
		"amount_max":       maxAmount,
		"transactions":     len(positive),
	}

	return Candidate{
		MerchantNorm:   key.merchant,
		Cadence:        pickCadence(gaps),
		AmountCentsMin: minAmount,
		AmountCentsMax: maxAmount,
		CardLast4:      first.CardLast4,
		FirstSeen:      days[0],
		LastSeen:       days[len(days)-1],
		Confidence:     confidence,
		Signals:        signals,
	}, true
}

// periodicityScore is the share of gaps landing in the best-matching
// tolerance window, capped at 1.0.
func periodicityScore(gaps []int) float64 {
	if len(gaps) == 0 {
		return 0
	}
	best := 0
	for _, w := range gapWindows {
		count := 0
		for _, gap := range gaps {
			if gap >= w.low && gap <= w.high {
				count++
			}
		}
		best = max(best, count)
	}
	return min(1.0, float64(best)/float64(len(gaps)))
}

func gapHistogram(gaps []int) map[string]int {
	buckets := map[string]int{
		"weekly":  0,
		"monthly": 0,
		"yearly":  0,
		"other":   0,
	}
	for _, gap := range gaps {
		bucket := "other"
		for _, w := range gapWindows {
			if gap >= w.low && gap <= w.high {
				bucket = w.name
				break
			}
		}
		buckets[bucket]++
	}
	return buckets
}

// amountStability is the fraction of amounts within 10% of the median.
func amountStability(amounts []int64) float64 {
	if len(amounts) == 0 {
		return 0
	}
	med := median(amounts)
	if med == 0 {
		return 0
	}
	within := 0
	for _, a := range amounts {
		if math.Abs(float64(a)-med)/med <= 0.1 {
			within++
		}
	}
	return float64(within) / float64(len(amounts))
}

func median(values []int64) float64 {
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return float64(sorted[mid])
}

// vocabSignal is 1.0 on a keyword hit, otherwise the best partial text
// similarity against the keyword list.
func vocabSignal(merchant string) float64 {
	normalized := strings.ToLower(merchant)
	for _, kw := range subscriptionKeywords {
		if strings.Contains(normalized, kw) {
			return 1.0
		}
	}
	best := 0
	for _, kw := range subscriptionKeywords {
		best = max(best, normalize.PartialRatio(normalized, kw))
	}
	return float64(best) / 100
}

// pickCadence labels the group from the average gap, not the histogram.
// "unknown" is a defensive default only: with >=3 transactions there is
// always at least one gap.
func pickCadence(gaps []int) string {
	if len(gaps) == 0 {
		return "unknown"
	}
	sum := 0
	for _, gap := range gaps {
		sum += gap
	}
	avg := float64(sum) / float64(len(gaps))
	switch {
	case avg >= 24 && avg <= 36:
		return "monthly"
	case avg >= 6 && avg <= 8:
		return "weekly"
	case avg >= 350 && avg <= 380:
		return "yearly"
	default:
		return "irregular"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func deref(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}
