package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardtrack/internal/mailparse"
)

type stubExtractor struct {
	name         string
	score        float64
	result       *Extraction
	scoreCalls   int
	extractCalls int
	panics       bool
}

func (s *stubExtractor) Score(m *mailparse.ParsedMail) float64 {
	s.scoreCalls++
	if s.panics {
		panic("broken plugin")
	}
	return s.score
}

func (s *stubExtractor) Extract(m *mailparse.ParsedMail) *Extraction {
	s.extractCalls++
	if s.panics {
		panic("broken plugin")
	}
	return s.result
}

func mailFixture() *mailparse.ParsedMail {
	return &mailparse.ParsedMail{Subject: "x", Body: "y", Headers: map[string]string{}}
}

func TestBestMatchPicksTopScorer(t *testing.T) {
	a := &stubExtractor{name: "a", score: 0.9, result: &Extraction{Issuer: "a", AmountCents: 100}}
	b := &stubExtractor{name: "b", score: 0.4, result: &Extraction{Issuer: "b", AmountCents: 200}}
	registry := NewRegistry(0.3, a, b)

	result := registry.BestMatch(mailFixture())
	require.NotNil(t, result)
	assert.Equal(t, "a", result.Issuer)
	assert.Equal(t, 1, a.extractCalls)
	assert.Equal(t, 0, b.extractCalls)
}

func TestBestMatchNoFallbackWhenWinnerReturnsNil(t *testing.T) {
	a := &stubExtractor{name: "a", score: 0.9, result: nil}
	b := &stubExtractor{name: "b", score: 0.4, result: &Extraction{Issuer: "b"}}
	registry := NewRegistry(0.3, a, b)

	result := registry.BestMatch(mailFixture())
	assert.Nil(t, result)
	assert.Equal(t, 1, a.extractCalls)
	// the runner-up is never tried
	assert.Equal(t, 0, b.extractCalls)
}

func TestBestMatchBelowThreshold(t *testing.T) {
	a := &stubExtractor{score: 0.2, result: &Extraction{Issuer: "a"}}
	b := &stubExtractor{score: 0.29, result: &Extraction{Issuer: "b"}}
	registry := NewRegistry(0.3, a, b)

	assert.Nil(t, registry.BestMatch(mailFixture()))
	assert.Equal(t, 0, a.extractCalls)
	assert.Equal(t, 0, b.extractCalls)
}

func TestBestMatchTieResolvesByRegistrationOrder(t *testing.T) {
	first := &stubExtractor{score: 0.8, result: &Extraction{Issuer: "first"}}
	second := &stubExtractor{score: 0.8, result: &Extraction{Issuer: "second"}}
	registry := NewRegistry(0.3, first, second)

	result := registry.BestMatch(mailFixture())
	require.NotNil(t, result)
	assert.Equal(t, "first", result.Issuer)
}

func TestBestMatchSurvivesPanickingPlugin(t *testing.T) {
	broken := &stubExtractor{panics: true}
	healthy := &stubExtractor{score: 0.9, result: &Extraction{Issuer: "healthy"}}
	registry := NewRegistry(0.3, broken, healthy)

	result := registry.BestMatch(mailFixture())
	require.NotNil(t, result)
	assert.Equal(t, "healthy", result.Issuer)
}

func TestBestMatchPanicDuringExtractIsNoMatch(t *testing.T) {
	registry := NewRegistry(0.3, &panicOnExtract{score: 0.9})
	assert.Nil(t, registry.BestMatch(mailFixture()))
}

type panicOnExtract struct {
	score float64
}

func (p *panicOnExtract) Score(m *mailparse.ParsedMail) float64 { return p.score }
func (p *panicOnExtract) Extract(m *mailparse.ParsedMail) *Extraction {
	panic("extract blew up")
}
