package completer

import "unicode"

// WordSpan returns the span of the identifier-like token touching offset.
// The span is empty at offset when no word rune surrounds it.
func WordSpan(text string, offset int) CursorSpan {
	runes := []rune(text)
	offset = clamp(offset, 0, len(runes))

	start := offset
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := offset
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return CursorSpan{Start: start, End: end}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
