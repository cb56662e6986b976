package player

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Stopped, "stopped"},
		{Opening, "opening"},
		{Playing, "playing"},
		{Paused, "paused"},
		{Buffering, "buffering"},
		{Ended, "ended"},
		{Error, "error"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{Stopped, false},
		{Playing, true},
		{Paused, true},
		{Ended, false},
		{Error, false},
	}
	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.want {
			t.Errorf("%v.IsActive() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestMockTransitions(t *testing.T) {
	m := NewMock()

	if err := m.Play("/a.mp3"); err != nil {
		t.Fatal(err)
	}
	if m.State() != Playing {
		t.Fatalf("state = %v after Play", m.State())
	}

	if err := m.Pause(); err != nil {
		t.Fatal(err)
	}
	if m.State() != Paused {
		t.Fatalf("state = %v after Pause", m.State())
	}

	if err := m.Resume(); err != nil {
		t.Fatal(err)
	}
	if m.State() != Playing {
		t.Fatalf("state = %v after Resume", m.State())
	}

	if err := m.Stop(); err != nil {
		t.Fatal(err)
	}
	if m.State() != Stopped {
		t.Fatalf("state = %v after Stop", m.State())
	}

	calls := m.PlayCalls()
	if len(calls) != 1 || calls[0] != "/a.mp3" {
		t.Errorf("PlayCalls() = %v", calls)
	}
}

func TestMockSimulateFinished(t *testing.T) {
	m := NewMock()
	fired := 0
	m.OnFinished(func() { fired++ })

	_ = m.Play("/a.mp3")
	m.SimulateFinished()

	if fired != 1 {
		t.Errorf("callback fired %d times, want 1", fired)
	}
	if m.State() != Ended {
		t.Errorf("state = %v, want Ended", m.State())
	}
}
