package extract

import (
	"cardtrack/internal/mailparse"
)

// DefaultMinScore is the selection threshold below which a message is
// treated as unrecognized.
const DefaultMinScore = 0.3

// Registry is the fixed set of issuer extractors, assembled once at process
// start. Selection is a pure function of the message and the registered set.
type Registry struct {
	extractors []Extractor
	minScore   float64
}

func NewRegistry(minScore float64, extractors ...Extractor) *Registry {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Registry{extractors: extractors, minScore: minScore}
}

// DefaultRegistry registers the known issuer plugins in a fixed order.
// Registration order breaks score ties.
func DefaultRegistry(minScore float64) *Registry {
	return NewRegistry(minScore,
		&RakutenSummaryExtractor{},
		&SMBCVpassExtractor{},
		&MUFGNicosExtractor{},
		&EposUsageExtractor{},
	)
}

// BestMatch scores every registered extractor, then runs Extract on the top
// scorer only. There is no fallback to the runner-up: if the winner returns
// nil the whole result is nil. A panicking plugin is treated as a non-match
// and never affects the others.
func (r *Registry) BestMatch(m *mailparse.ParsedMail) *Extraction {
	best := r.pick(m)
	if best == nil {
		return nil
	}
	return safeExtract(best, m)
}

func (r *Registry) pick(m *mailparse.ParsedMail) Extractor {
	var best Extractor
	bestScore := 0.0
	for _, e := range r.extractors {
		score := safeScore(e, m)
		if score > bestScore {
			bestScore = score
			best = e
		}
	}
	if bestScore < r.minScore {
		return nil
	}
	return best
}

func safeScore(e Extractor, m *mailparse.ParsedMail) (score float64) {
	defer func() {
		if recover() != nil {
			score = 0
		}
	}()
	return e.Score(m)
}

func safeExtract(e Extractor, m *mailparse.ParsedMail) (result *Extraction) {
	defer func() {
		if recover() != nil {
			result = nil
		}
	}()
	return e.Extract(m)
}
