/*
Package server implements msgpack IPC for a completion session.

The server drives a single completion model over a msgpack stream, normally stdin and
stdout. Every request carries an ID and an action; the server answers each request with
exactly one response echoing that ID.

# IPC

A session starts with "open", which records the request text and cursor:

	{"id": "1", "a": "open", "st": {"t": "x = fo", "o": 6}}

Keystrokes are forwarded with "change":

	{"id": "2", "a": "change", "st": {"t": "x = foo", "o": 7}}

Each response carries the ranked view with highlighted labels and match runs:

	{"id": "2", "status": "ok", "s": [{"l": "<mark>foo</mark>d", "i": "food", "m": [[0, 3]]}],
	 "c": 1, "q": "foo", "ch": true, "t": 41}

Accepting a candidate asks for the replacement to apply:

	{"id": "3", "a": "patch", "v": "food"}
	{"id": "3", "status": "ok", "p": {"s": 4, "e": 6, "v": "food"}, ...}

# Actions

  - open: start a session. The cursor span defaults to the word around the cursor and
    the items default to the dictionary completions of the typed part of that word.
  - change: forward an edit.
  - items: replace the candidate list.
  - query: override the filter query.
  - list: return the current view.
  - patch: build the replacement for an accepted value.
  - close: end the session.
  - config: change legacy ranking or max_items at runtime.
  - health: liveness check.

Responses report whether the model notified observers while handling the request, and
the time taken in microseconds.
*/
package server

// State is a text snapshot. When Offset is set it wins over Line and Column.
type State struct {
	Text   string `msgpack:"t"`
	Line   int    `msgpack:"l,omitempty"`
	Column int    `msgpack:"c,omitempty"`
	Offset *int   `msgpack:"o,omitempty"`
}

// Span is a half-open rune range in the request text.
type Span struct {
	Start int `msgpack:"s"`
	End   int `msgpack:"e"`
}

// Item is a completion candidate on the wire.
type Item struct {
	Label      string   `msgpack:"l"`
	InsertText string   `msgpack:"i,omitempty"`
	Type       string   `msgpack:"k,omitempty"`
	Doc        string   `msgpack:"d,omitempty"`
	Matches    [][]int  `msgpack:"m,omitempty"`
}

// Patch is the replacement for an accepted completion.
type Patch struct {
	Start int    `msgpack:"s"`
	End   int    `msgpack:"e"`
	Value string `msgpack:"v"`
}

// Request is a single client message.
type Request struct {
	ID         string  `msgpack:"id"`
	Action     string  `msgpack:"a"`
	State      *State  `msgpack:"st,omitempty"`
	Cursor     *Span   `msgpack:"cur,omitempty"`
	Items      []Item  `msgpack:"items,omitempty"`
	Incomplete bool    `msgpack:"inc,omitempty"`
	Value      string  `msgpack:"v,omitempty"`
	Query      *string `msgpack:"q,omitempty"`
	Legacy     *bool   `msgpack:"legacy,omitempty"`
	MaxItems   *int    `msgpack:"max_items,omitempty"`
}

// Response answers one Request.
type Response struct {
	ID         string `msgpack:"id,omitempty"`
	Status     string `msgpack:"status"`
	Error      string `msgpack:"error,omitempty"`
	Items      []Item `msgpack:"s,omitempty"`
	Count      int    `msgpack:"c"`
	Incomplete bool   `msgpack:"inc,omitempty"`
	Query      string `msgpack:"q,omitempty"`
	Changed    bool   `msgpack:"ch,omitempty"`
	Patch      *Patch `msgpack:"p,omitempty"`
	TimeTaken  int64  `msgpack:"t"`
}

const (
	StatusReady = "ready"
	StatusOK    = "ok"
	StatusError = "error"
)
