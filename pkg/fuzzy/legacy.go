package fuzzy

// Legacy reproduces the ranking older clients expect. Each query rune is matched
// case-sensitively at its first occurrence after the previous match, and the score
// is the negated sum of the squared match indexes: matches that start early and
// stay close together rank first.
type Legacy struct{}

// Match implements Strategy.
func (Legacy) Match(candidate, query string) (Match, bool) {
	if query == "" {
		return Match{Str: candidate}, true
	}

	indexes, ok := findIndexes([]rune(candidate), []rune(query))
	if !ok {
		return Match{}, false
	}

	score := 0
	for _, i := range indexes {
		score -= i * i
	}

	return Match{
		Str:            candidate,
		Score:          score,
		MatchedIndexes: indexes,
	}, true
}

// findIndexes runs the greedy left-most subsequence scan.
func findIndexes(candidate, pattern []rune) ([]int, bool) {
	indexes := make([]int, 0, len(pattern))
	next := 0
	for _, p := range pattern {
		found := -1
		for i := next; i < len(candidate); i++ {
			if candidate[i] == p {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		indexes = append(indexes, found)
		next = found + 1
	}
	return indexes, true
}
