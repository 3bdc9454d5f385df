package completer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/bastiangx/completer/pkg/fuzzy"
)

func fixture() CompletionList {
	return CompletionList{
		Items: []CompletionItem{
			{Label: "foo", InsertText: "foo"},
			{Label: "bar", InsertText: "bar"},
			{Label: "baz", InsertText: "baz"},
			{Label: "quux", InsertText: "quux"},
			{Label: "qux", InsertText: "qux"},
		},
	}
}

type shown struct {
	Label      string
	InsertText string
}

func view(list CompletionList) []shown {
	out := make([]shown, len(list.Items))
	for i, it := range list.Items {
		out[i] = shown{Label: it.Label, InsertText: it.InsertText}
	}
	return out
}

func TestItems_BlankQuery(t *testing.T) {
	m := NewModel()
	want := []CompletionItem{{Label: "foo"}, {Label: "bar"}, {Label: "baz"}}
	m.SetItems(CompletionList{Items: []CompletionItem{{Label: "foo"}, {Label: "bar"}, {Label: "baz"}}})

	if diff := cmp.Diff(want, m.Items().Items); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}
}

func TestItems_PassesIncompleteThrough(t *testing.T) {
	m := NewModel()
	m.SetItems(CompletionList{IsIncomplete: true, Items: []CompletionItem{{Label: "foo"}}})
	assert.True(t, m.Items().IsIncomplete)

	m.SetQuery("f")
	assert.True(t, m.Items().IsIncomplete)
}

func TestItems_Filtered(t *testing.T) {
	m := NewModel()
	m.SetItems(CompletionList{
		Items: []CompletionItem{
			{Label: "foo", InsertText: "foo"},
			{Label: "bar", InsertText: "bar"},
			{Label: "baz", InsertText: "baz"},
		},
	})
	m.SetQuery("f")

	items := m.Items().Items
	require.Len(t, items, 1)
	assert.Equal(t, "<mark>f</mark>oo", items[0].Label)
	assert.Equal(t, "foo", items[0].InsertText)
	assert.Equal(t, []fuzzy.Span{{Start: 0, End: 1}}, items[0].Matches)
}

func TestItems_LegacyOrdersByScore(t *testing.T) {
	m := NewModel()
	m.SetItems(fixture())
	m.SetLegacy(true)
	m.SetQuery("qux")

	want := []shown{
		{Label: "<mark>qux</mark>", InsertText: "qux"},
		{Label: "<mark>qu</mark>u<mark>x</mark>", InsertText: "quux"},
	}
	if diff := cmp.Diff(want, view(m.Items())); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}
}

func TestItems_DefaultOrdersByScore(t *testing.T) {
	m := NewModel()
	m.SetItems(fixture())
	m.SetQuery("qux")

	got := view(m.Items())
	require.Len(t, got, 2)
	assert.Equal(t, "qux", got[0].InsertText)
	assert.Equal(t, "quux", got[1].InsertText)
}

func TestItems_TiesBrokenByLocale(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		m := NewModel(WithLegacy(legacy))
		m.SetItems(fixture())
		m.SetQuery("qu")

		want := []shown{
			{Label: "<mark>qu</mark>ux", InsertText: "quux"},
			{Label: "<mark>qu</mark>x", InsertText: "qux"},
		}
		if diff := cmp.Diff(want, view(m.Items())); diff != "" {
			t.Errorf("legacy=%v Items() mismatch (-want +got):\n%s", legacy, diff)
		}
	}
}

func TestItems_CollationIsCaseAndAccentAware(t *testing.T) {
	m := NewModel(WithLanguage(language.English))
	m.SetItems(CompletionList{Items: []CompletionItem{{Label: "eclipse"}, {Label: "Eclat"}, {Label: "éclair"}}})
	m.SetQuery("cl")

	// equal scores; a byte-wise compare would give Eclat, eclipse, éclair
	var got []string
	for _, it := range m.Items().Items {
		got = append(got, it.InsertText)
	}
	assert.Equal(t, []string{"éclair", "Eclat", "eclipse"}, got)
}

func TestItems_LabelFallsBackToInsertText(t *testing.T) {
	m := NewModel()
	m.SetItems(CompletionList{Items: []CompletionItem{
		{Label: "print (function)", InsertText: "print", Type: "function"},
		{Label: "pi"},
	}})
	m.SetQuery("pr")

	items := m.Items().Items
	require.Len(t, items, 1)
	assert.Equal(t, "<mark>pr</mark>int", items[0].Label)
	assert.Equal(t, "print", items[0].InsertText)
	assert.Equal(t, "function", items[0].Type)
}

func TestItems_CustomMarker(t *testing.T) {
	m := NewModel(WithMarker(fuzzy.Marker("[", "]")))
	m.SetItems(fixture())
	m.SetQuery("ba")

	got := view(m.Items())
	require.Len(t, got, 2)
	assert.Equal(t, "[ba]r", got[0].Label)
	assert.Equal(t, "[ba]z", got[1].Label)
}

func TestItems_FollowsTyping(t *testing.T) {
	m := NewModel()
	m.SetOriginal(&TextState{Text: "fo", Column: 2})
	m.SetCursor(&CursorSpan{Start: 0, End: 2})
	m.SetItems(CompletionList{Items: []CompletionItem{{Label: "foo"}, {Label: "fob"}, {Label: "foobar"}}})
	assert.Len(t, m.Items().Items, 3)

	m.HandleTextChange(TextState{Text: "foob", Column: 4})
	got := view(m.Items())
	require.Len(t, got, 1)
	assert.Equal(t, "foobar", got[0].InsertText)
	assert.Equal(t, "<mark>foob</mark>ar", got[0].Label)
}

func TestItems_WordStartBeatsScatteredMatch(t *testing.T) {
	m := NewModel()
	m.SetItems(CompletionList{Items: []CompletionItem{{Label: "agxvy"}, {Label: "get_value"}}})
	m.SetQuery("gv")

	got := view(m.Items())
	require.Len(t, got, 2)
	assert.Equal(t, "get_value", got[0].InsertText)
	assert.Equal(t, "agxvy", got[1].InsertText)
}

func TestItems_ReturnsCopies(t *testing.T) {
	m := NewModel()
	m.SetItems(fixture())
	m.SetQuery("qu")

	first := m.Items()
	first.Items[0].Label = "changed"
	first.Items[0].Matches[0].Start = 9
	second := m.Items()
	assert.Equal(t, "<mark>qu</mark>ux", second.Items[0].Label)
	assert.Equal(t, 0, second.Items[0].Matches[0].Start)
}

func TestItems_LegacySwitchInvalidatesView(t *testing.T) {
	m := NewModel()
	m.SetItems(CompletionList{Items: []CompletionItem{{Label: "Foo"}}})
	m.SetQuery("f")
	require.Len(t, m.Items().Items, 1)

	m.SetLegacy(true)
	assert.Empty(t, m.Items().Items, "legacy matching is case-sensitive")
	assert.True(t, m.IsLegacy())
}
