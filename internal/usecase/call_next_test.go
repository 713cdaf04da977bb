package usecase

import (
	"testing"
	"time"

	"clinic-queue-engine/internal/domain/entity"

	"github.com/google/uuid"
)

var callNextNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func waitingToken(number int, tokenType entity.TokenType, scheduled *time.Time, priority int) entity.QueueToken {
	return entity.QueueToken{
		ID:            uuid.New(),
		TokenNumber:   number,
		TokenType:     tokenType,
		ScheduledTime: scheduled,
		Priority:      priority,
		Status:        entity.TokenStatusWaiting,
	}
}

func at(minuteOffset int) *time.Time {
	t := callNextNow.Add(time.Duration(minuteOffset) * time.Minute)
	return &t
}

func TestSelectNextTokenEmptyQueue(t *testing.T) {
	if got := selectNextToken(nil, callNextNow, 15*time.Minute); got != nil {
		t.Fatalf("expected nil for empty queue, got token %d", got.TokenNumber)
	}
}

func TestSelectNextTokenBufferedScheduledBeatsWalkIn(t *testing.T) {
	tokens := []entity.QueueToken{
		waitingToken(1, entity.TokenTypeWalkIn, nil, 0),
		waitingToken(5, entity.TokenTypeScheduled, at(5), 0),
	}

	got := selectNextToken(tokens, callNextNow, 15*time.Minute)
	if got == nil || got.TokenNumber != 5 {
		t.Fatalf("expected scheduled token 5 inside the buffer to win over walk-in 1, got %+v", got)
	}
}

func TestSelectNextTokenScheduledOutsideBufferYieldsToWalkIn(t *testing.T) {
	tokens := []entity.QueueToken{
		waitingToken(1, entity.TokenTypeWalkIn, nil, 0),
		waitingToken(2, entity.TokenTypeScheduled, at(45), 0),
	}

	got := selectNextToken(tokens, callNextNow, 15*time.Minute)
	if got == nil || got.TokenNumber != 1 {
		t.Fatalf("expected walk-in 1 when the only scheduled token is 45m out, got %+v", got)
	}
}

func TestSelectNextTokenBufferedOrderedBySlotTime(t *testing.T) {
	tokens := []entity.QueueToken{
		waitingToken(3, entity.TokenTypeScheduled, at(10), 0),
		waitingToken(4, entity.TokenTypeScheduled, at(-10), 0),
	}

	got := selectNextToken(tokens, callNextNow, 15*time.Minute)
	if got == nil || got.TokenNumber != 4 {
		t.Fatalf("expected the earlier slot (token 4) first inside the buffer, got %+v", got)
	}
}

func TestSelectNextTokenPriorityOverridesWithinTier(t *testing.T) {
	tokens := []entity.QueueToken{
		waitingToken(1, entity.TokenTypeWalkIn, nil, 0),
		waitingToken(7, entity.TokenTypeWalkIn, nil, 5),
	}

	got := selectNextToken(tokens, callNextNow, 15*time.Minute)
	if got == nil || got.TokenNumber != 7 {
		t.Fatalf("expected the higher-priority walk-in 7 over FIFO 1, got %+v", got)
	}
}

func TestSelectNextTokenWalkInFIFOByTokenNumber(t *testing.T) {
	tokens := []entity.QueueToken{
		waitingToken(9, entity.TokenTypeWalkIn, nil, 0),
		waitingToken(2, entity.TokenTypeWalkIn, nil, 0),
		waitingToken(6, entity.TokenTypeLateArrival, nil, 0),
	}

	got := selectNextToken(tokens, callNextNow, 15*time.Minute)
	if got == nil || got.TokenNumber != 2 {
		t.Fatalf("expected lowest token number 2 in the walk-in lane, got %+v", got)
	}
}

func TestSelectNextTokenLateArrivalCompetesAsWalkIn(t *testing.T) {
	// The late arrival got its number before the walk-in, so it is
	// served first despite having lost its slot.
	tokens := []entity.QueueToken{
		waitingToken(3, entity.TokenTypeLateArrival, nil, 0),
		waitingToken(8, entity.TokenTypeWalkIn, nil, 0),
	}

	got := selectNextToken(tokens, callNextNow, 15*time.Minute)
	if got == nil || got.TokenNumber != 3 {
		t.Fatalf("expected late arrival 3 ahead of walk-in 8, got %+v", got)
	}
}

func TestSelectNextTokenFallbackCatchesMissedSlot(t *testing.T) {
	// Only a scheduled token whose window has fully passed: the
	// fallback tier must still serve it.
	tokens := []entity.QueueToken{
		waitingToken(4, entity.TokenTypeScheduled, at(-120), 0),
	}

	got := selectNextToken(tokens, callNextNow, 15*time.Minute)
	if got == nil || got.TokenNumber != 4 {
		t.Fatalf("expected stranded scheduled token 4 from the fallback tier, got %+v", got)
	}
}

func TestSelectNextTokenSkipsNonWaiting(t *testing.T) {
	active := waitingToken(1, entity.TokenTypeWalkIn, nil, 0)
	active.Status = entity.TokenStatusInProgress
	tokens := []entity.QueueToken{
		active,
		waitingToken(2, entity.TokenTypeWalkIn, nil, 0),
	}

	got := selectNextToken(tokens, callNextNow, 15*time.Minute)
	if got == nil || got.TokenNumber != 2 {
		t.Fatalf("expected in-progress token 1 to be skipped, got %+v", got)
	}
}
