package normalize

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	punctNoise = regexp.MustCompile(`[\*\#\|\(\)]`)
	spaces     = regexp.MustCompile(`\s+`)
)

// Name canonicalizes a free-text merchant name: trim, lowercase, collapse
// punctuation noise to spaces, collapse repeated whitespace.
func Name(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = punctNoise.ReplaceAllString(name, " ")
	name = spaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// PickDisplayName picks the shortest candidate as the display form.
func PickDisplayName(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	shortest := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) < len(shortest) {
			shortest = c
		}
	}
	return shortest
}

// Ratio is a normalized edit similarity on a 0-100 scale.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return (longest - dist) * 100 / longest
}

// PartialRatio slides the shorter string over the longer one and returns the
// best windowed Ratio, so "netflix.com 月額プラン" still matches "月額".
func PartialRatio(a, b string) int {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}
	if len(shorter) == len(longer) {
		return Ratio(string(shorter), string(longer))
	}

	best := 0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := string(longer[i : i+len(shorter)])
		if r := Ratio(string(shorter), window); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// ClosestKnown proposes an existing canonical name for a new raw name when
// the similarity clears the threshold (default 85). Utility for merchant
// de-duplication, not used on the ingestion hot path.
func ClosestKnown(candidate string, known []string, threshold int) (string, bool) {
	if threshold <= 0 {
		threshold = 85
	}
	for _, name := range known {
		if Ratio(candidate, name) >= threshold {
			return name, true
		}
	}
	return "", false
}
