package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxWidth int
		expected string
	}{
		{"short path unchanged", "src/a.py", 40, "src/a.py"},
		{"long path truncated from the left", "internal/operators/halstead_visitor.py", 20, "...lstead_visitor.py"},
		{"tiny width leaves path alone", "internal/operators/raw.py", 3, "internal/operators/raw.py"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncatePath(tc.path, tc.maxWidth)
			assert.Equal(t, tc.expected, got)
			assert.LessOrEqual(t, len(got), max(len(tc.path), tc.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestGetColorRank(t *testing.T) {
	// With colors disabled the rank passes through untouched.
	assert.Contains(t, GetColorRank(RankA), "A")
	assert.Contains(t, GetColorRank(RankC), "C")
	assert.Equal(t, "n/a", GetColorRank("n/a"))
}
