package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/completer/internal/logger"
	"github.com/bastiangx/completer/pkg/completer"
	"github.com/bastiangx/completer/pkg/config"
	"github.com/bastiangx/completer/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrNoSession     = errors.New("no active completion session")
	ErrMissingState  = errors.New("missing text state")
	ErrQueryTooLong  = errors.New("query exceeds maximum length")
	ErrInvalidCursor = errors.New("cursor span outside the text")
)

// Server handles the IPC for one completion session
type Server struct {
	model      *completer.Model
	provider   suggest.Provider
	config     *config.Config
	configPath string
	decoder    *msgpack.Decoder
	encoder    *msgpack.Encoder
	changed    bool
	log        *log.Logger
}

// NewServer creates a completion server using stdin/stdout for IPC.
// provider may be nil, in which case open requests must carry their own items.
func NewServer(model *completer.Model, provider suggest.Provider, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(model, provider, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a completion server on the given stream.
func NewServerWithIO(model *completer.Model, provider suggest.Provider, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		model:      model,
		provider:   provider,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
		log:        logger.New("server"),
	}
	model.StateChanged().Connect(func() { s.changed = true })
	return s
}

// Start sends the ready message and serves requests until the stream ends or ctx is
// cancelled. A request that fails is answered with an error response; only a broken
// stream stops the loop.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting Server.")

	if err := s.send(Response{Status: StatusReady}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Client closed the stream")
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return fmt.Errorf("decode request: %w", err)
		}

		if err := s.send(s.handle(req)); err != nil {
			return err
		}
	}
}

// handle runs one request against the model and builds its response.
func (s *Server) handle(req Request) Response {
	start := time.Now()
	s.changed = false

	resp, err := s.dispatch(req)
	if err != nil {
		s.log.Debugf("Request %s (%s) failed: %v", req.ID, req.Action, err)
		resp = Response{Status: StatusError, Error: err.Error()}
	}
	resp.ID = req.ID
	resp.Changed = s.changed
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

func (s *Server) dispatch(req Request) (Response, error) {
	switch req.Action {
	case "open":
		if err := s.handleOpen(req); err != nil {
			return Response{}, err
		}
	case "change":
		if req.State == nil {
			return Response{}, ErrMissingState
		}
		if s.model.Original() == nil {
			return Response{}, ErrNoSession
		}
		s.model.HandleTextChange(toTextState(*req.State))
	case "items":
		if s.model.Original() == nil {
			return Response{}, ErrNoSession
		}
		s.model.SetItems(completer.CompletionList{
			IsIncomplete: req.Incomplete,
			Items:        fromItems(req.Items),
		})
	case "query":
		if req.Query == nil {
			return Response{}, fmt.Errorf("query: %w", ErrMissingState)
		}
		if err := s.checkQuery(*req.Query); err != nil {
			return Response{}, err
		}
		s.model.SetQuery(*req.Query)
	case "list":
	case "patch":
		patch, ok := s.model.CreatePatch(req.Value)
		if !ok {
			return Response{}, fmt.Errorf("patch: %w", ErrNoSession)
		}
		resp := s.view()
		resp.Patch = &Patch{Start: patch.Start, End: patch.End, Value: patch.Value}
		return resp, nil
	case "close":
		s.model.SetOriginal(nil)
	case "config":
		if err := s.config.Update(s.configPath, req.Legacy, req.MaxItems); err != nil {
			s.log.Warnf("Failed to save config: %v", err)
		}
		if req.Legacy != nil {
			s.model.SetLegacy(*req.Legacy)
		}
	case "health":
		return Response{Status: StatusOK}, nil
	default:
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	return s.view(), nil
}

// handleOpen starts a new session from the request text.
func (s *Server) handleOpen(req Request) error {
	if req.State == nil {
		return fmt.Errorf("open: %w", ErrMissingState)
	}
	state := toTextState(*req.State)
	offset := state.Offset()

	span := completer.WordSpan(state.Text, offset)
	if req.Cursor != nil {
		span = completer.CursorSpan{Start: req.Cursor.Start, End: req.Cursor.End}
		if n := len([]rune(state.Text)); span.Start < 0 || span.Start > span.End || span.End > n {
			return fmt.Errorf("open: %w: [%d, %d) in %d characters", ErrInvalidCursor, span.Start, span.End, n)
		}
	}

	prefix := ""
	if runes := []rune(state.Text); span.Start <= offset && offset <= len(runes) {
		prefix = string(runes[span.Start:offset])
	}
	if err := s.checkQuery(prefix); err != nil {
		return err
	}

	s.model.SetOriginal(&state)
	s.model.SetCursor(&span)

	switch {
	case len(req.Items) > 0:
		s.model.SetItems(completer.CompletionList{IsIncomplete: req.Incomplete, Items: fromItems(req.Items)})
	case s.provider != nil:
		s.model.SetItems(s.provider.Complete(prefix, s.config.Server.MaxItems))
	}
	s.log.Debugf("Opened session at offset %d with span [%d, %d)", offset, span.Start, span.End)
	return nil
}

func (s *Server) checkQuery(query string) error {
	if limit := s.config.Server.MaxQuery; limit > 0 && len([]rune(query)) > limit {
		return fmt.Errorf("%w of %d characters", ErrQueryTooLong, limit)
	}
	return nil
}

// view renders the ranked items, capped at max_items.
func (s *Server) view() Response {
	list := s.model.Items()
	incomplete := list.IsIncomplete
	items := list.Items
	if limit := s.config.Server.MaxItems; limit > 0 && len(items) > limit {
		items = items[:limit]
		incomplete = true
	}
	return Response{
		Status:     StatusOK,
		Items:      toItems(items),
		Count:      len(items),
		Incomplete: incomplete,
		Query:      s.model.Query(),
	}
}

// send marshals the response onto the stream.
func (s *Server) send(resp Response) error {
	if err := s.encoder.Encode(resp); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

func toTextState(st State) completer.TextState {
	if st.Offset != nil {
		return completer.StateAt(st.Text, *st.Offset)
	}
	return completer.TextState{Text: st.Text, Line: st.Line, Column: st.Column}
}

func fromItems(items []Item) []completer.CompletionItem {
	out := make([]completer.CompletionItem, 0, len(items))
	for _, it := range items {
		out = append(out, completer.CompletionItem{
			Label:         it.Label,
			InsertText:    it.InsertText,
			Type:          it.Type,
			Documentation: it.Doc,
		})
	}
	return out
}

func toItems(items []completer.CompletionItem) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		wire := Item{
			Label:      it.Label,
			InsertText: it.InsertText,
			Type:       it.Type,
			Doc:        it.Documentation,
		}
		for _, m := range it.Matches {
			wire.Matches = append(wire.Matches, []int{m.Start, m.End})
		}
		out = append(out, wire)
	}
	return out
}
