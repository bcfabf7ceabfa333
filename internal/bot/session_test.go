package bot

import "testing"

func TestSessionTableDefaultsIdle(t *testing.T) {
	table := NewSessionTable()

	s := table.Get(1)
	if s.State != StateIdle {
		t.Errorf("state = %q, want idle", s.State)
	}
}

func TestSessionTableSetGetClear(t *testing.T) {
	table := NewSessionTable()

	table.Set(1, Session{State: StateAwaitingTaste, TeaName: "Sencha"})

	s := table.Get(1)
	if s.State != StateAwaitingTaste || s.TeaName != "Sencha" {
		t.Errorf("session = %+v", s)
	}

	// Other senders are unaffected.
	if other := table.Get(2); other.State != StateIdle {
		t.Errorf("other sender state = %q, want idle", other.State)
	}

	table.Clear(1)
	if s := table.Get(1); s.State != StateIdle {
		t.Errorf("state after clear = %q, want idle", s.State)
	}
}
