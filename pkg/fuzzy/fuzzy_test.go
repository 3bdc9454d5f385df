package fuzzy

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rank(t *testing.T, s Strategy, query string, candidates ...string) []string {
	t.Helper()
	var matches []Match
	for _, c := range candidates {
		if m, ok := s.Match(c, query); ok {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Str < matches[j].Str
	})
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

func TestDefaultMatch(t *testing.T) {
	testCases := []struct {
		candidate string
		query     string
		ok        bool
		indexes   []int
	}{
		{"foo", "f", true, []int{0}},
		{"foo", "fo", true, []int{0, 1}},
		{"bar", "f", false, nil},
		{"FooBar", "fb", true, []int{0, 3}},
		{"foobar", "FOO", true, []int{0, 1, 2}},
		{"qux", "qux", true, []int{0, 1, 2}},
		{"ab", "abc", false, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.candidate+"/"+tc.query, func(t *testing.T) {
			m, ok := Default{}.Match(tc.candidate, tc.query)
			require.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.candidate, m.Str)
			assert.Equal(t, tc.indexes, m.MatchedIndexes)
			assert.Positive(t, m.Score)
		})
	}
}

func TestDefaultRanking(t *testing.T) {
	items := []string{"foo", "bar", "baz", "quux", "qux"}

	// equal matched prefix, tie left to the caller's ordering
	assert.Equal(t, []string{"quux", "qux"}, rank(t, Default{}, "qu", items...))
	assert.Equal(t, []string{"qux", "quux"}, rank(t, Default{}, "qux", items...))
	assert.Equal(t, []string{"bar", "baz"}, rank(t, Default{}, "ba", items...))

	quux, _ := Default{}.Match("quux", "qu")
	qux, _ := Default{}.Match("qux", "qu")
	assert.Equal(t, quux.Score, qux.Score)
}

func TestDefaultPrefersBoundaries(t *testing.T) {
	start, ok := Default{}.Match("get_value", "gv")
	require.True(t, ok)
	middle, ok := Default{}.Match("agxvy", "gv")
	require.True(t, ok)
	assert.Greater(t, start.Score, middle.Score)
}

func TestLegacyMatch(t *testing.T) {
	m, ok := Legacy{}.Match("quux", "qux")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 3}, m.MatchedIndexes)
	assert.Equal(t, -(0 + 1 + 9), m.Score)

	m, ok = Legacy{}.Match("qux", "qux")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, m.MatchedIndexes)
	assert.Equal(t, -(0 + 1 + 4), m.Score)

	_, ok = Legacy{}.Match("Foo", "f")
	assert.False(t, ok, "legacy matching is case-sensitive")

	_, ok = Legacy{}.Match("bar", "rb")
	assert.False(t, ok, "order matters")
}

func TestLegacyRanking(t *testing.T) {
	items := []string{"foo", "bar", "baz", "quux", "qux"}
	assert.Equal(t, []string{"qux", "quux"}, rank(t, Legacy{}, "qux", items...))
	assert.Equal(t, []string{"quux", "qux"}, rank(t, Legacy{}, "qu", items...))
}

func TestEmptyQueryMatchesEverything(t *testing.T) {
	for _, s := range []Strategy{Default{}, Legacy{}} {
		m, ok := s.Match("anything", "")
		assert.True(t, ok)
		assert.Empty(t, m.MatchedIndexes)
	}
}

func TestFor(t *testing.T) {
	assert.IsType(t, Default{}, For(KindDefault))
	assert.IsType(t, Legacy{}, For(KindLegacy))
	assert.IsType(t, Default{}, For(Kind(42)))
	assert.Equal(t, "legacy", KindLegacy.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
