package fuzzy

import (
	"sort"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

func init() {
	algo.Init("default")
}

// Default matches with fzf's v2 algorithm. Matching is case-insensitive.
// The score only depends on the matched region, so two candidates sharing the
// same matched prefix tie regardless of how many characters follow it.
type Default struct{}

// Match implements Strategy.
func (Default) Match(candidate, query string) (Match, bool) {
	if query == "" {
		return Match{Str: candidate}, true
	}

	// Lowered rune by rune so the positions fzf reports stay valid for candidate.
	text := lowerRunes(candidate)
	chars := util.RunesToChars(text)
	result, positions := algo.FuzzyMatchV2(
		true,  // both sides are already lowered
		false, // no unicode normalization, positions must line up with candidate
		true,
		&chars,
		lowerRunes(query),
		true,
		nil,
	)
	if result.Start < 0 || result.Score <= 0 {
		return Match{}, false
	}

	var indexes []int
	if positions != nil {
		indexes = append(indexes, (*positions)...)
		sort.Ints(indexes)
	}

	return Match{
		Str:            candidate,
		Score:          result.Score,
		MatchedIndexes: indexes,
	}, true
}

func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
