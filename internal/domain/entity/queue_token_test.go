package entity

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from TokenStatus
		to   TokenStatus
		want bool
	}{
		{"waiting to in-progress", TokenStatusWaiting, TokenStatusInProgress, true},
		{"waiting to no-show", TokenStatusWaiting, TokenStatusNoShow, true},
		{"waiting to cancelled", TokenStatusWaiting, TokenStatusCancelled, true},
		{"waiting to completed skips consultation", TokenStatusWaiting, TokenStatusCompleted, false},
		{"in-progress to completed", TokenStatusInProgress, TokenStatusCompleted, true},
		{"in-progress to no-show", TokenStatusInProgress, TokenStatusNoShow, true},
		{"in-progress back to waiting", TokenStatusInProgress, TokenStatusWaiting, false},
		{"in-progress to cancelled", TokenStatusInProgress, TokenStatusCancelled, false},
		{"completed is terminal", TokenStatusCompleted, TokenStatusWaiting, false},
		{"completed to in-progress", TokenStatusCompleted, TokenStatusInProgress, false},
		{"no-show is terminal", TokenStatusNoShow, TokenStatusInProgress, false},
		{"cancelled is terminal", TokenStatusCancelled, TokenStatusWaiting, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []TokenStatus{TokenStatusCompleted, TokenStatusNoShow, TokenStatusCancelled}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}

	active := []TokenStatus{TokenStatusWaiting, TokenStatusInProgress}
	for _, s := range active {
		if s.IsTerminal() {
			t.Errorf("expected %s not to be terminal", s)
		}
	}

	if TokenStatus("bogus").IsTerminal() {
		t.Error("unknown status must not report as terminal")
	}
}

func TestValidTokenStatus(t *testing.T) {
	for _, s := range []TokenStatus{TokenStatusWaiting, TokenStatusInProgress, TokenStatusCompleted, TokenStatusNoShow, TokenStatusCancelled} {
		if !ValidTokenStatus(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if ValidTokenStatus("done") {
		t.Error("expected 'done' to be invalid")
	}
}

func TestInWalkInLane(t *testing.T) {
	scheduled := QueueToken{TokenType: TokenTypeScheduled}
	at := scheduled.CreatedAt
	scheduled.ScheduledTime = &at
	if scheduled.InWalkInLane() {
		t.Error("scheduled token with a slot time must not be in the walk-in lane")
	}

	walkIn := QueueToken{TokenType: TokenTypeWalkIn}
	if !walkIn.InWalkInLane() {
		t.Error("walk-in token must be in the walk-in lane")
	}

	late := QueueToken{TokenType: TokenTypeLateArrival}
	if !late.InWalkInLane() {
		t.Error("late arrival must be demoted into the walk-in lane")
	}
}
