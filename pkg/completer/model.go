/*
Package completer implements the state model behind an interactive completion popup.

A Model follows one completion session at a time. The editor integration records the
text at invocation with SetOriginal and the replaceable token with SetCursor, then
streams every later edit through HandleTextChange. A provider delivers candidates with
SetItems whenever they arrive. The presentation layer connects to StateChanged, reads
the ranked and highlighted view with Items after each notification, and turns the
accepted candidate into an edit with CreatePatch.

	m := completer.NewModel()
	m.StateChanged().Connect(redraw)

	m.SetOriginal(&state)
	m.SetCursor(&completer.CursorSpan{Start: 4, End: 7})
	m.SetItems(list)

	m.HandleTextChange(next)
	view := m.Items()
	patch, ok := m.CreatePatch(view.Items[0].InsertText)

The model does no I/O and never blocks. It is not safe for concurrent use: the caller
serializes editor events and provider responses. A late SetItems for a superseded
request is applied as is; discarding stale responses is up to the caller.
*/
package completer

import (
	"strings"
	"unicode"

	"github.com/bastiangx/completer/pkg/fuzzy"
	"github.com/charmbracelet/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Model holds the request, cursor, current text and candidates of a completion session.
type Model struct {
	session  session
	query    string
	raw      CompletionList
	ranked   *CompletionList
	legacy   bool
	disposed bool
	changed  Signal

	mark     func(string) string
	collator *collate.Collator
}

// Option configures a Model.
type Option func(*Model)

// WithLegacy starts the model with the legacy ranking strategy.
func WithLegacy(legacy bool) Option {
	return func(m *Model) {
		m.legacy = legacy
	}
}

// WithMarker sets the function wrapping matched runs in returned labels.
// The default wraps them in <mark> elements.
func WithMarker(mark func(string) string) Option {
	return func(m *Model) {
		if mark != nil {
			m.mark = mark
		}
	}
}

// WithLanguage sets the collation used to break score ties.
func WithLanguage(tag language.Tag) Option {
	return func(m *Model) {
		m.collator = collate.New(tag)
	}
}

// NewModel returns an idle model.
func NewModel(opts ...Option) *Model {
	m := &Model{
		session: idleSession{},
		raw:     CompletionList{Items: []CompletionItem{}},
		mark:    fuzzy.MarkHTML,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.collator == nil {
		m.collator = collate.New(language.Und)
	}
	return m
}

// StateChanged returns the signal fired on every observable state change.
func (m *Model) StateChanged() *Signal {
	return &m.changed
}

// Original returns the request baseline, or nil.
func (m *Model) Original() *TextState {
	return m.session.original()
}

// Current returns the latest known text, or nil.
func (m *Model) Current() *TextState {
	return m.session.current()
}

// Cursor returns the span being completed, or nil.
func (m *Model) Cursor() *CursorSpan {
	return m.session.cursor()
}

// Query returns the text the items are filtered with.
func (m *Model) Query() string {
	return m.query
}

// IsLegacy reports whether the legacy ranking strategy is active.
func (m *Model) IsLegacy() bool {
	return m.legacy
}

// IsDisposed reports whether Dispose was called.
func (m *Model) IsDisposed() bool {
	return m.disposed
}

// SetOriginal replaces the request baseline.
// A nil state resets the whole session. A different request starts a new session:
// the cursor, the query and the candidates of the previous one are dropped.
func (m *Model) SetOriginal(state *TextState) {
	if m.disposed || sameState(m.session.original(), state) {
		return
	}
	if state == nil {
		m.reset()
		return
	}

	m.session = requestedSession{request: *state}
	m.query = ""
	m.raw = CompletionList{Items: []CompletionItem{}}
	m.invalidate()
	m.changed.emit()
}

// SetCursor records the replaceable span. Ignored until a request exists.
// Clearing the cursor returns the session to its freshly requested state.
func (m *Model) SetCursor(span *CursorSpan) {
	if m.disposed {
		return
	}

	switch s := m.session.(type) {
	case requestedSession:
		if span == nil {
			return
		}
		m.session = trackingSession{request: s.request, span: *span, latest: copyState(&s.request)}
	case trackingSession:
		if span == nil {
			m.session = requestedSession{request: s.request}
			m.query = ""
			m.invalidate()
			return
		}
		if s.span == *span {
			return
		}
		s.span = *span
		m.session = s
		if s.latest == nil {
			return
		}
		if query := deriveQuery(s.request, *s.latest, s.span); query != m.query {
			m.query = query
			m.invalidate()
			m.changed.emit()
		}
	}
}

// SetCurrent records the latest editor text. Ignored unless both the request and the
// cursor exist. When the edited line became shorter than it was at request time the
// completion is no longer valid and the session is reset.
func (m *Model) SetCurrent(state *TextState) {
	if m.disposed {
		return
	}
	s, ok := m.session.(trackingSession)
	if !ok || sameState(s.latest, state) {
		return
	}

	if state == nil {
		s.latest = nil
		m.session = s
		m.query = ""
		m.invalidate()
		m.changed.emit()
		return
	}

	if len(state.lineRunes(state.Line)) < len(s.request.lineRunes(s.request.Line)) {
		m.reset()
		return
	}

	s.latest = copyState(state)
	m.session = s
	m.query = deriveQuery(s.request, *state, s.span)
	m.invalidate()
	m.changed.emit()
}

// SetQuery overrides the filter text directly.
func (m *Model) SetQuery(query string) {
	if m.disposed || m.query == query {
		return
	}
	m.query = query
	m.invalidate()
	m.changed.emit()
}

// SetLegacy switches between the default and the legacy ranking strategy.
func (m *Model) SetLegacy(legacy bool) {
	if m.disposed || m.legacy == legacy {
		return
	}
	m.legacy = legacy
	m.invalidate()
}

// SetItems replaces the candidates. Re-delivering an equal list does not notify.
func (m *Model) SetItems(list CompletionList) {
	if m.disposed || m.raw.Equal(list) {
		return
	}
	m.raw = list.Clone()
	m.invalidate()
	m.changed.emit()
}

// HandleTextChange processes one editor change.
// When the rune before the cursor is missing or whitespace and the cursor moved left
// of where the request was made, the edit left the token and the session is reset.
// Otherwise the change becomes the current text.
func (m *Model) HandleTextChange(change TextState) {
	if m.disposed {
		return
	}
	original := m.session.original()
	if original == nil {
		return
	}

	line := change.lineRunes(change.Line)
	before := change.Column - 1
	leftToken := before < 0 || before >= len(line) || unicode.IsSpace(line[before])
	if leftToken && change.Column < original.Column {
		m.reset()
		return
	}

	m.SetCurrent(&change)
}

// CreatePatch returns the edit replacing the cursor span with value.
// Offsets are runes into the flattened original text. ok is false without a request
// or a cursor.
func (m *Model) CreatePatch(value string) (Patch, bool) {
	s, ok := m.session.(trackingSession)
	if !ok || m.disposed {
		return Patch{}, false
	}
	return Patch{Start: s.span.Start, End: s.span.End, Value: value}, true
}

// Dispose clears all state and disconnects every listener. Safe to call repeatedly.
func (m *Model) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	m.changed.disconnectAll()
	m.session = idleSession{}
	m.query = ""
	m.raw = CompletionList{Items: []CompletionItem{}}
	m.invalidate()
	log.Debug("completion model disposed")
}

// reset drops the session and candidates with a single notification.
func (m *Model) reset() {
	m.session = idleSession{}
	m.query = ""
	m.raw = CompletionList{Items: []CompletionItem{}}
	m.invalidate()
	log.Debug("completion session reset")
	m.changed.emit()
}

func (m *Model) invalidate() {
	m.ranked = nil
}

// deriveQuery takes the current text from the span start and clips off the text that
// followed the span in the original request.
func deriveQuery(original, current TextState, span CursorSpan) string {
	cur := []rune(current.Text)
	query := string(cur[clamp(span.Start, 0, len(cur)):])

	orig := []rune(original.Text)
	ending := string(orig[clamp(span.End, 0, len(orig)):])

	end := strings.LastIndex(query, ending)
	if end < 0 {
		return ""
	}
	return query[:end]
}
