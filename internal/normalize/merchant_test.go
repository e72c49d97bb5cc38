package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  NETFLIX*COM  ", "netflix com"},
		{"AMAZON (JP)", "amazon jp"},
		{"Spotify#Premium", "spotify premium"},
		{"plain", "plain"},
		{"  a   b  ", "a b"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.input))
		})
	}
}

func TestPickDisplayName(t *testing.T) {
	assert.Equal(t, "ab", PickDisplayName([]string{"abcd", "ab", "abc"}))
	assert.Empty(t, PickDisplayName(nil))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("netflix", "netflix"))
	assert.Equal(t, 100, Ratio("", ""))

	r := Ratio("netflix", "netflux")
	assert.Greater(t, r, 80)
	assert.Less(t, r, 100)

	assert.Less(t, Ratio("netflix", "zzzzzzz"), 30)
}

func TestPartialRatio(t *testing.T) {
	// exact substring scores 100 regardless of the longer string's length
	assert.Equal(t, 100, PartialRatio("月額", "netflix 月額プラン"))
	assert.Equal(t, 100, PartialRatio("netflix 月額プラン", "月額"))
	assert.Equal(t, 0, PartialRatio("", "anything"))
}

func TestClosestKnown(t *testing.T) {
	known := []string{"netflix com", "spotify premium", "amazon jp"}

	match, ok := ClosestKnown("netflix con", known, 85)
	assert.True(t, ok)
	assert.Equal(t, "netflix com", match)

	_, ok = ClosestKnown("completely different", known, 85)
	assert.False(t, ok)

	// zero threshold falls back to the default of 85
	match, ok = ClosestKnown("netflix com", known, 0)
	assert.True(t, ok)
	assert.Equal(t, "netflix com", match)
}
