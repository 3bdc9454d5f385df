package completer

import (
	"strings"

	"github.com/bastiangx/completer/pkg/fuzzy"
)

// Coords is the on-screen box of the cursor, as reported by the editor.
type Coords struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// TextState is a snapshot of the editor text and cursor geometry.
// Only Text, Line and Column drive the model; the rest is carried for presentation.
type TextState struct {
	Text       string
	Line       int
	Column     int
	LineHeight float64
	CharWidth  float64
	Coords     Coords
}

// StateAt builds a TextState for text with the cursor at the flattened rune offset.
func StateAt(text string, offset int) TextState {
	runes := []rune(text)
	offset = clamp(offset, 0, len(runes))

	line, column := 0, 0
	for _, r := range runes[:offset] {
		if r == '\n' {
			line++
			column = 0
			continue
		}
		column++
	}
	return TextState{Text: text, Line: line, Column: column}
}

// Offset flattens Line and Column back into a rune offset into Text.
func (s TextState) Offset() int {
	offset := 0
	for i, line := range strings.Split(s.Text, "\n") {
		n := len([]rune(line))
		if i == s.Line {
			return offset + clamp(s.Column, 0, n)
		}
		offset += n + 1
	}
	return len([]rune(s.Text))
}

// lineRunes returns line n of the state's text, or nil when out of range.
func (s TextState) lineRunes(n int) []rune {
	lines := strings.Split(s.Text, "\n")
	if n < 0 || n >= len(lines) {
		return nil
	}
	return []rune(lines[n])
}

// sameState compares states the way the model decides whether to notify.
func sameState(a, b *TextState) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Text == b.Text && a.Column == b.Column
}

// CursorSpan is a half-open [Start, End) rune range in the flattened original text.
type CursorSpan struct {
	Start int
	End   int
}

// CompletionItem is one candidate supplied by a provider.
type CompletionItem struct {
	Label string
	// InsertText replaces the cursor span on acceptance. Empty means Label.
	InsertText    string
	Type          string
	Documentation string
	// Matches lists the matched rune runs of the filtered text. Only set on
	// items returned from a filtered view.
	Matches []fuzzy.Span
}

// Text returns the text the item inserts.
func (it CompletionItem) Text() string {
	if it.InsertText != "" {
		return it.InsertText
	}
	return it.Label
}

// CompletionList is a batch of candidates.
type CompletionList struct {
	IsIncomplete bool
	Items        []CompletionItem
}

// Equal reports whether two lists carry the same candidates.
func (l CompletionList) Equal(other CompletionList) bool {
	if l.IsIncomplete != other.IsIncomplete || len(l.Items) != len(other.Items) {
		return false
	}
	for i := range l.Items {
		if l.Items[i].Label != other.Items[i].Label ||
			l.Items[i].InsertText != other.Items[i].InsertText {
			return false
		}
	}
	return true
}

// Clone returns a deep copy; Items is never nil.
func (l CompletionList) Clone() CompletionList {
	items := make([]CompletionItem, len(l.Items))
	for i, it := range l.Items {
		if it.Matches != nil {
			it.Matches = append([]fuzzy.Span(nil), it.Matches...)
		}
		items[i] = it
	}
	return CompletionList{IsIncomplete: l.IsIncomplete, Items: items}
}

// Patch is the replacement the editor applies when a completion is accepted.
type Patch struct {
	Start int
	End   int
	Value string
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
