package completer

import (
	"sort"

	"github.com/bastiangx/completer/pkg/fuzzy"
)

// ranked is one surviving candidate of a filtered view.
type ranked struct {
	item  CompletionItem
	raw   string
	score int
}

// Items returns the candidates as the presentation layer should show them.
// With an empty query the raw list comes back untouched. Otherwise only matching
// candidates remain, best score first and ties in collation order, with matched runs
// highlighted in their labels.
func (m *Model) Items() CompletionList {
	if m.disposed {
		return CompletionList{Items: []CompletionItem{}}
	}
	if m.query == "" {
		return m.raw.Clone()
	}
	if m.ranked == nil {
		list := m.rank()
		m.ranked = &list
	}
	return m.ranked.Clone()
}

func (m *Model) strategy() fuzzy.Strategy {
	if m.legacy {
		return fuzzy.For(fuzzy.KindLegacy)
	}
	return fuzzy.For(fuzzy.KindDefault)
}

func (m *Model) rank() CompletionList {
	strategy := m.strategy()

	results := make([]ranked, 0, len(m.raw.Items))
	for _, it := range m.raw.Items {
		text := it.Text()
		match, ok := strategy.Match(text, m.query)
		if !ok {
			continue
		}

		spans := fuzzy.Spans(match.MatchedIndexes)
		it.Label = fuzzy.Highlight(text, spans, m.mark)
		it.InsertText = text
		it.Matches = spans
		results = append(results, ranked{item: it, raw: text, score: match.Score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return m.collator.CompareString(results[i].raw, results[j].raw) < 0
	})

	items := make([]CompletionItem, len(results))
	for i, r := range results {
		items[i] = r.item
	}
	return CompletionList{IsIncomplete: m.raw.IsIncomplete, Items: items}
}
