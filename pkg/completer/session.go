package completer

// session is the request lifecycle. Each variant only holds the fields that are
// valid in it, so cursor and current can never exist without an original request.
type session interface {
	original() *TextState
	cursor() *CursorSpan
	current() *TextState
}

// idleSession: nothing requested.
type idleSession struct{}

func (idleSession) original() *TextState { return nil }
func (idleSession) cursor() *CursorSpan  { return nil }
func (idleSession) current() *TextState  { return nil }

// requestedSession: a request exists, no cursor yet. Current mirrors the request.
type requestedSession struct {
	request TextState
}

func (s requestedSession) original() *TextState { return copyState(&s.request) }
func (s requestedSession) cursor() *CursorSpan  { return nil }
func (s requestedSession) current() *TextState  { return copyState(&s.request) }

// trackingSession: request and cursor exist, latest follows the edits.
// latest is nil after the current text was explicitly cleared.
type trackingSession struct {
	request TextState
	span    CursorSpan
	latest  *TextState
}

func (s trackingSession) original() *TextState { return copyState(&s.request) }

func (s trackingSession) cursor() *CursorSpan {
	span := s.span
	return &span
}

func (s trackingSession) current() *TextState { return copyState(s.latest) }

func copyState(s *TextState) *TextState {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
