package plugin

import "sync"

// Ticket tags an asynchronous dispatch with the input that triggered it
type Ticket struct {
	Seq   uint64
	Query string
}

// Tracker holds the authoritative current input.
// A result may be rendered only while its ticket is still the latest one.
type Tracker struct {
	mu    sync.Mutex
	seq   uint64
	query string
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// Set records query as the current input and returns its ticket
func (t *Tracker) Set(query string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.query = query
	return Ticket{Seq: t.seq, Query: query}
}

// Latest returns the ticket of the current input without advancing it
func (t *Tracker) Latest() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Ticket{Seq: t.seq, Query: t.query}
}

// Current reports whether tk still identifies the current input
func (t *Tracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tk.Seq == t.seq
}

// Query returns the current raw input
func (t *Tracker) Query() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query
}
