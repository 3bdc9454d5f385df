// Package suggest provides a word dictionary backed by a patricia trie that acts as a
// completion item provider for the completion model.
package suggest

import "github.com/bastiangx/completer/pkg/completer"

// Provider is a source of completion items for a token prefix.
type Provider interface {
	// Complete returns at most limit items for prefix. IsIncomplete is set when more
	// candidates exist than were returned.
	Complete(prefix string, limit int) completer.CompletionList

	// AddWord adds a word with its frequency.
	AddWord(word string, frequency int)

	// Stats returns statistics about the loaded words.
	Stats() map[string]int
}

var _ Provider = (*Dictionary)(nil)
