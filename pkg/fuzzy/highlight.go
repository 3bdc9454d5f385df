package fuzzy

import "strings"

// Span is a half-open run [Start, End) of matched rune indexes.
type Span struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Spans merges ascending rune indexes into contiguous runs.
func Spans(indexes []int) []Span {
	if len(indexes) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(indexes))
	current := Span{Start: indexes[0], End: indexes[0] + 1}
	for _, i := range indexes[1:] {
		if i == current.End {
			current.End++
			continue
		}
		spans = append(spans, current)
		current = Span{Start: i, End: i + 1}
	}
	return append(spans, current)
}

// Highlight returns text with every span passed through mark.
// Spans must be ascending and non-overlapping; out of range runes are ignored.
func Highlight(text string, spans []Span, mark func(string) string) string {
	if len(spans) == 0 || mark == nil {
		return text
	}

	runes := []rune(text)
	var sb strings.Builder
	sb.Grow(len(text) + len(spans)*13)

	last := 0
	for _, s := range spans {
		start, end := clamp(s.Start, last, len(runes)), clamp(s.End, last, len(runes))
		if start >= end {
			continue
		}
		sb.WriteString(string(runes[last:start]))
		sb.WriteString(mark(string(runes[start:end])))
		last = end
	}
	sb.WriteString(string(runes[last:]))
	return sb.String()
}

// Marker returns a mark func wrapping text between open and close.
func Marker(open, close string) func(string) string {
	return func(s string) string {
		return open + s + close
	}
}

// MarkHTML wraps s in a <mark> element.
func MarkHTML(s string) string {
	return "<mark>" + s + "</mark>"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
