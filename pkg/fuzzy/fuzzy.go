// Package fuzzy ranks completion candidates against a typed query.
//
// A Strategy decides whether a candidate matches and how well. Every strategy reports
// the rune indexes it matched so callers can highlight them with Spans and Highlight
// without being tied to any markup.
package fuzzy

import "fmt"

// Match represents a matched string with score
type Match struct {
	Str            string
	Score          int
	MatchedIndexes []int
}

// Strategy scores one candidate against a query.
// Higher scores are better. ok is false when the query does not match at all.
type Strategy interface {
	Match(candidate, query string) (m Match, ok bool)
}

// Kind selects a ranking strategy.
type Kind int

const (
	// KindDefault ranks with a subsequence matcher that rewards contiguous runs and
	// matches at word starts.
	KindDefault Kind = iota
	// KindLegacy ranks by how early and how tightly the query letters appear.
	KindLegacy
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// For returns the strategy for kind. Unknown kinds fall back to the default strategy.
func For(kind Kind) Strategy {
	if kind == KindLegacy {
		return Legacy{}
	}
	return Default{}
}
