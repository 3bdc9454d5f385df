package completer

// Connection identifies a listener connected to a Signal.
type Connection uint64

type slot struct {
	id Connection
	fn func()
}

// Signal notifies listeners, in registration order, that the model changed.
// Listeners receive no payload; they read whatever they need from the model.
type Signal struct {
	next  Connection
	slots []slot
}

// Connect registers fn and returns a handle for Disconnect.
func (s *Signal) Connect(fn func()) Connection {
	s.next++
	s.slots = append(s.slots, slot{id: s.next, fn: fn})
	return s.next
}

// Disconnect removes the listener. It reports whether it was connected.
func (s *Signal) Disconnect(c Connection) bool {
	for i, sl := range s.slots {
		if sl.id == c {
			s.slots = append(s.slots[:i:i], s.slots[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of connected listeners.
func (s *Signal) Len() int {
	return len(s.slots)
}

func (s *Signal) disconnectAll() {
	s.slots = nil
}

// emit runs over a snapshot so listeners may disconnect themselves.
func (s *Signal) emit() {
	if len(s.slots) == 0 {
		return
	}
	snapshot := append([]slot(nil), s.slots...)
	for _, sl := range snapshot {
		if sl.fn != nil {
			sl.fn()
		}
	}
}
