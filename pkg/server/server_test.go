package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bastiangx/completer/pkg/completer"
	"github.com/bastiangx/completer/pkg/config"
	"github.com/bastiangx/completer/pkg/suggest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func newDictionary(t *testing.T) *suggest.Dictionary {
	t.Helper()
	d := suggest.NewDictionary()
	_, err := d.Load(strings.NewReader("food 30\nfoot 20\nfork 10\nbar 5\n"))
	require.NoError(t, err)
	return d
}

// roundTrip feeds reqs through a fresh server and returns every response after the
// ready message.
func roundTrip(t *testing.T, cfg *config.Config, provider suggest.Provider, reqs ...Request) []Response {
	t.Helper()

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range reqs {
		require.NoError(t, enc.Encode(req))
	}

	var out bytes.Buffer
	model := completer.NewModel()
	srv := NewServerWithIO(model, provider, cfg, "", &in, &out)
	require.NoError(t, srv.Start(context.Background()))

	dec := msgpack.NewDecoder(&out)
	var ready Response
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, StatusReady, ready.Status)

	var responses []Response
	for {
		var resp Response
		err := dec.Decode(&resp)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		responses = append(responses, resp)
	}
	require.Len(t, responses, len(reqs))
	return responses
}

func labelsOf(resp Response) []string {
	var out []string
	for _, it := range resp.Items {
		out = append(out, it.Label)
	}
	return out
}

func TestSessionRoundTrip(t *testing.T) {
	responses := roundTrip(t, nil, newDictionary(t),
		Request{ID: "1", Action: "open", State: &State{Text: "x = fo", Offset: intPtr(6)}},
		Request{ID: "2", Action: "change", State: &State{Text: "x = foo", Offset: intPtr(7)}},
		Request{ID: "3", Action: "patch", Value: "food"},
		Request{ID: "4", Action: "close"},
		Request{ID: "5", Action: "patch", Value: "food"},
	)

	open := responses[0]
	assert.Equal(t, "1", open.ID)
	assert.Equal(t, StatusOK, open.Status)
	assert.True(t, open.Changed)
	assert.Empty(t, open.Query)
	assert.Equal(t, []string{"food", "foot", "fork"}, labelsOf(open))
	assert.Equal(t, 3, open.Count)

	change := responses[1]
	assert.True(t, change.Changed)
	assert.Equal(t, "foo", change.Query)
	want := []Item{
		{Label: "<mark>foo</mark>d", InsertText: "food", Type: suggest.ItemType, Doc: "frequency 30", Matches: [][]int{{0, 3}}},
		{Label: "<mark>foo</mark>t", InsertText: "foot", Type: suggest.ItemType, Doc: "frequency 20", Matches: [][]int{{0, 3}}},
	}
	if diff := cmp.Diff(want, change.Items); diff != "" {
		t.Errorf("change items mismatch (-want +got):\n%s", diff)
	}

	patch := responses[2]
	require.NotNil(t, patch.Patch)
	assert.Equal(t, Patch{Start: 4, End: 6, Value: "food"}, *patch.Patch)
	assert.False(t, patch.Changed)

	closed := responses[3]
	assert.True(t, closed.Changed)
	assert.Zero(t, closed.Count)

	assert.Equal(t, StatusError, responses[4].Status)
	assert.Contains(t, responses[4].Error, ErrNoSession.Error())
	assert.Equal(t, "5", responses[4].ID)
}

func TestOpenWithClientItemsAndCursor(t *testing.T) {
	responses := roundTrip(t, nil, nil,
		Request{
			ID:     "1",
			Action: "open",
			State:  &State{Text: "a.b", Line: 0, Column: 3},
			Cursor: &Span{Start: 2, End: 3},
			Items:  []Item{{Label: "bar"}, {Label: "baz"}},
		},
		Request{ID: "2", Action: "query", Query: strPtr("z")},
		Request{ID: "3", Action: "items", Items: []Item{{Label: "zed"}}, Incomplete: true},
		Request{ID: "4", Action: "list"},
		Request{ID: "5", Action: "patch", Value: "zed"},
	)

	assert.Equal(t, []string{"bar", "baz"}, labelsOf(responses[0]))
	assert.Equal(t, []string{"ba<mark>z</mark>"}, labelsOf(responses[1]))
	assert.True(t, responses[2].Changed)
	assert.True(t, responses[2].Incomplete)
	assert.Equal(t, []string{"<mark>z</mark>ed"}, labelsOf(responses[3]))
	assert.False(t, responses[3].Changed)
	assert.Equal(t, Patch{Start: 2, End: 3, Value: "zed"}, *responses[4].Patch)
}

func TestErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxQuery = 3

	responses := roundTrip(t, cfg, nil,
		Request{ID: "1", Action: "change", State: &State{Text: "x"}},
		Request{ID: "2", Action: "open"},
		Request{ID: "3", Action: "open", State: &State{Text: "abcdef", Offset: intPtr(6)}},
		Request{ID: "4", Action: "bogus"},
		Request{ID: "5", Action: "health"},
		Request{ID: "6", Action: "items"},
	)

	assert.Contains(t, responses[0].Error, ErrNoSession.Error())
	assert.Contains(t, responses[1].Error, ErrMissingState.Error())
	assert.Contains(t, responses[2].Error, ErrQueryTooLong.Error())
	assert.Contains(t, responses[3].Error, ErrUnknownAction.Error())
	assert.Contains(t, responses[3].Error, "bogus")
	assert.Equal(t, StatusOK, responses[4].Status)
	assert.Empty(t, responses[4].Error)
	assert.Equal(t, StatusError, responses[5].Status)
}

func TestOpenRejectsCursorOutsideText(t *testing.T) {
	testCases := map[string]Span{
		"negative start": {Start: -1, End: 2},
		"past the end":   {Start: 1, End: 3},
		"inverted":       {Start: 2, End: 1},
	}
	for name, cursor := range testCases {
		t.Run(name, func(t *testing.T) {
			responses := roundTrip(t, nil, nil,
				Request{ID: "1", Action: "open", State: &State{Text: "fo", Offset: intPtr(2)}, Cursor: &cursor},
				Request{ID: "2", Action: "health"},
			)
			assert.Equal(t, StatusError, responses[0].Status)
			assert.Contains(t, responses[0].Error, ErrInvalidCursor.Error())
			assert.Equal(t, StatusOK, responses[1].Status)
		})
	}
}

func TestConfigAction(t *testing.T) {
	cfg := config.DefaultConfig()
	responses := roundTrip(t, cfg, newDictionary(t),
		Request{ID: "1", Action: "open", State: &State{Text: "f", Offset: intPtr(1)}},
		Request{ID: "2", Action: "config", MaxItems: intPtr(1), Legacy: boolPtr(true)},
	)

	assert.Equal(t, 3, responses[0].Count)
	assert.Equal(t, 1, responses[1].Count)
	assert.True(t, responses[1].Incomplete)
	assert.Equal(t, 1, cfg.Server.MaxItems)
	assert.True(t, cfg.Model.Legacy)
}

func TestStartRejectsBrokenStream(t *testing.T) {
	in := bytes.NewReader([]byte{0xc1})
	var out bytes.Buffer
	srv := NewServerWithIO(completer.NewModel(), nil, nil, "", in, &out)
	err := srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request")
}

func TestStartStopsOnCancelledContext(t *testing.T) {
	var in bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&in).Encode(Request{ID: "1", Action: "health"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	srv := NewServerWithIO(completer.NewModel(), nil, nil, "", &in, &out)
	require.NoError(t, srv.Start(ctx))

	var ready Response
	dec := msgpack.NewDecoder(&out)
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, StatusReady, ready.Status)
	assert.ErrorIs(t, dec.Decode(&ready), io.EOF)
}
