package suggest

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bastiangx/completer/pkg/completer"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// ItemType is the completion item type reported for dictionary words.
const ItemType = "text"

// Suggestion is a single dictionary hit before it becomes a completion item.
type Suggestion struct {
	Word      string
	Frequency int
}

// Dictionary is a frequency ranked word list. Keys are stored lowercased so lookups
// ignore case; the capitalization of the typed prefix is applied to the results.
type Dictionary struct {
	trie         *patricia.Trie
	totalWords   int
	maxFrequency int
	maxWords     int
	minFrequency int
	mu           sync.RWMutex
}

// Option configures a Dictionary.
type Option func(*Dictionary)

// WithMaxWords caps how many words Load accepts. Zero means no cap.
func WithMaxWords(n int) Option {
	return func(d *Dictionary) { d.maxWords = n }
}

// WithMinFrequency hides words ranked below n from Complete.
func WithMinFrequency(n int) Option {
	return func(d *Dictionary) { d.minFrequency = n }
}

func NewDictionary(opts ...Option) *Dictionary {
	d := &Dictionary{trie: patricia.NewTrie()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddWord inserts word. A word seen twice keeps its higher frequency.
func (d *Dictionary) AddWord(word string, frequency int) {
	if word == "" {
		return
	}
	key := patricia.Prefix(strings.ToLower(word))

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing := d.trie.Get(key); existing != nil {
		if old := existing.(int); old >= frequency {
			return
		}
		d.trie.Set(key, frequency)
	} else {
		d.trie.Insert(key, frequency)
		d.totalWords++
	}
	if frequency > d.maxFrequency {
		d.maxFrequency = frequency
	}
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.totalWords
}

// Complete walks the subtree under prefix. An exact hit on the prefix itself is skipped
// so the typed word is never offered back. An empty prefix yields the most frequent words.
func (d *Dictionary) Complete(prefix string, limit int) completer.CompletionList {
	lowerPrefix := strings.ToLower(prefix)

	// Remember which positions were capitalized
	capitalPositions := make([]bool, 0, len(prefix))
	for _, r := range prefix {
		capitalPositions = append(capitalPositions, r >= 'A' && r <= 'Z')
	}

	suggestions := d.search(lowerPrefix, capitalPositions)

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Frequency != suggestions[j].Frequency {
			return suggestions[i].Frequency > suggestions[j].Frequency
		}
		return suggestions[i].Word < suggestions[j].Word
	})

	list := completer.CompletionList{Items: []completer.CompletionItem{}}
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
		list.IsIncomplete = true
	}
	for _, s := range suggestions {
		list.Items = append(list.Items, completer.CompletionItem{
			Label:         s.Word,
			InsertText:    s.Word,
			Type:          ItemType,
			Documentation: "frequency " + strconv.Itoa(s.Frequency),
		})
	}
	return list
}

func (d *Dictionary) search(lowerPrefix string, capitalPositions []bool) []Suggestion {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var suggestions []Suggestion
	visit := func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)
		if word == lowerPrefix {
			return nil
		}

		freq, ok := item.(int)
		if !ok {
			log.Errorf("Unknown item type: %T for word %s", item, p)
			return nil
		}
		if freq < d.minFrequency {
			return nil
		}

		suggestions = append(suggestions, Suggestion{
			Word:      ApplyCapitalization(word, capitalPositions),
			Frequency: freq,
		})
		return nil
	}

	var err error
	if lowerPrefix == "" {
		err = d.trie.Visit(visit)
	} else {
		err = d.trie.VisitSubtree(patricia.Prefix(lowerPrefix), visit)
	}
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}
	return suggestions
}

// ApplyCapitalization uppercases the ASCII letters of word at the positions the typed
// prefix had capitals.
func ApplyCapitalization(word string, capitalPositions []bool) string {
	if len(capitalPositions) == 0 {
		return word
	}

	wordRunes := []rune(word)
	for i := 0; i < len(wordRunes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] && wordRunes[i] >= 'a' && wordRunes[i] <= 'z' {
			wordRunes[i] = wordRunes[i] - 'a' + 'A'
		}
	}
	return string(wordRunes)
}

func (d *Dictionary) Stats() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return map[string]int{
		"totalWords":   d.totalWords,
		"maxFrequency": d.maxFrequency,
		"maxWords":     d.maxWords,
		"minFrequency": d.minFrequency,
	}
}
