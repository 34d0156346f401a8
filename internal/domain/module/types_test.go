package module

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to State
		want     bool
	}{
		{StateDisabled, StateSetup, true},
		{StateDisabled, StateStarted, false},
		{StateSetup, StateStarted, true},
		{StateSetup, StateStopped, true},
		{StateStarted, StateStopped, true},
		{StateStarted, StateSetup, false},
		{StateStopped, StateSetup, true},
		{StateError, StateDisabled, true},
		{StateError, StateStarted, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
	if _, err := Transition(StateStarted, StateSetup); err == nil {
		t.Fatal("expected error transitioning STARTED -> SETUP")
	}
}

func TestTransitionAllowsLegalMove(t *testing.T) {
	next, err := Transition(StateDisabled, StateSetup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StateSetup {
		t.Errorf("got %s, want SETUP", next)
	}
}
