package bot

import "sync"

// State tags where a sender is inside a multi-step input sequence.
type State string

const (
	StateIdle               State = "idle"
	StateAwaitingTeaName    State = "awaiting_tea_name"
	StateAwaitingTaste      State = "awaiting_taste"
	StateAwaitingImpression State = "awaiting_impression"
	StateAwaitingCode       State = "awaiting_code"
)

// Session holds the partially collected fields of one in-flight sequence.
// The zero value is an idle session.
type Session struct {
	State   State
	TeaName string
	Taste   string
}

// SessionTable keeps at most one active sequence per sender, in memory for
// the life of the process. Abandoning a sequence is just clearing the entry.
type SessionTable struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

func NewSessionTable() *SessionTable {
	return &SessionTable{sessions: make(map[int64]Session)}
}

// Get returns the sender's session, idle if none exists.
func (t *SessionTable) Get(senderID int64) Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[senderID]
	if !ok {
		return Session{State: StateIdle}
	}
	return s
}

func (t *SessionTable) Set(senderID int64, s Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[senderID] = s
}

// Clear discards the sender's sequence state.
func (t *SessionTable) Clear(senderID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, senderID)
}
