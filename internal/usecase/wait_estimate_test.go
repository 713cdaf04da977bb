package usecase

import (
	"testing"

	"clinic-queue-engine/internal/domain/entity"

	"github.com/google/uuid"
)

func TestCountPatientsAhead(t *testing.T) {
	target := waitingToken(5, entity.TokenTypeWalkIn, nil, 0)
	tokens := []entity.QueueToken{
		waitingToken(2, entity.TokenTypeWalkIn, nil, 0), // lower number, ahead
		waitingToken(7, entity.TokenTypeWalkIn, nil, 0), // higher number, behind
		waitingToken(9, entity.TokenTypeWalkIn, nil, 3), // higher priority, ahead
		target,
	}

	if got := countPatientsAhead(tokens, &target); got != 2 {
		t.Errorf("countPatientsAhead = %d, want 2", got)
	}
}

func TestCountPatientsAheadIgnoresNonWaiting(t *testing.T) {
	target := waitingToken(5, entity.TokenTypeWalkIn, nil, 0)
	done := waitingToken(1, entity.TokenTypeWalkIn, nil, 0)
	done.Status = entity.TokenStatusCompleted
	active := waitingToken(2, entity.TokenTypeWalkIn, nil, 0)
	active.Status = entity.TokenStatusInProgress

	tokens := []entity.QueueToken{done, active, target}
	if got := countPatientsAhead(tokens, &target); got != 0 {
		t.Errorf("countPatientsAhead = %d, want 0 when others are not waiting", got)
	}
}

func TestCountPatientsAheadExcludesSelf(t *testing.T) {
	target := entity.QueueToken{ID: uuid.New(), TokenNumber: 1, Status: entity.TokenStatusWaiting}
	if got := countPatientsAhead([]entity.QueueToken{target}, &target); got != 0 {
		t.Errorf("countPatientsAhead = %d, want 0 for a queue of one", got)
	}
}

func TestEstimateWaitMinutes(t *testing.T) {
	tests := []struct {
		name       string
		ahead      int
		inProgress int
		avg        int
		want       int
	}{
		{"empty queue, idle doctor", 0, 0, 20, 0},
		{"empty queue, doctor busy", 0, 1, 20, 10},
		{"three ahead, idle doctor", 3, 0, 20, 60},
		{"three ahead, doctor busy", 3, 1, 20, 70},
		{"rounding half up", 1, 1, 15, 23},
		{"multiple in progress still counts half a slot", 2, 3, 20, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := estimateWaitMinutes(tt.ahead, tt.inProgress, tt.avg); got != tt.want {
				t.Errorf("estimateWaitMinutes(%d, %d, %d) = %d, want %d",
					tt.ahead, tt.inProgress, tt.avg, got, tt.want)
			}
		})
	}
}

func TestNextRollingAverage(t *testing.T) {
	tests := []struct {
		name     string
		oldAvg   int
		observed int
		want     int
	}{
		{"stable when observation matches", 20, 20, 20},
		{"moves toward longer consultations", 20, 30, 23},
		{"moves toward shorter consultations", 20, 10, 17},
		{"single outlier lands at 0.3 weight", 20, 60, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextRollingAverage(tt.oldAvg, tt.observed); got != tt.want {
				t.Errorf("nextRollingAverage(%d, %d) = %d, want %d", tt.oldAvg, tt.observed, got, tt.want)
			}
		})
	}
}

func TestNextRollingAverageConverges(t *testing.T) {
	// Repeated 30-minute consultations pull a 20-minute average up
	// step by step: 20, 23, 25, 27, 28, then settling one minute shy
	// of the observation because of integer rounding.
	avg := 20
	wantSteps := []int{23, 25, 27, 28, 29}
	for i, want := range wantSteps {
		avg = nextRollingAverage(avg, 30)
		if avg != want {
			t.Fatalf("step %d: got %d, want %d", i+1, avg, want)
		}
	}

	for i := 0; i < 10; i++ {
		avg = nextRollingAverage(avg, 30)
	}
	if avg != 29 {
		t.Errorf("expected the average to hold at 29, got %d", avg)
	}
}
