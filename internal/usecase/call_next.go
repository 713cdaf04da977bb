package usecase

import (
	"sort"
	"time"

	"clinic-queue-engine/internal/domain/entity"
)

// admissionTier is one lane of the call-next policy: a predicate that
// decides membership and a comparator that orders candidates within
// the lane. Tiers are evaluated in sequence and the first non-empty
// one wins, which keeps the precedence declarative and testable per
// tier.
type admissionTier struct {
	name    string
	matches func(t *entity.QueueToken, now time.Time, buffer time.Duration) bool
	less    func(a, b *entity.QueueToken) bool
}

var admissionTiers = []admissionTier{
	{
		// Scheduled tokens whose slot time is within the buffer window
		// around now: a patient slightly early or slightly late is
		// still served in their slot ahead of walk-ins.
		name: "buffered-scheduled",
		matches: func(t *entity.QueueToken, now time.Time, buffer time.Duration) bool {
			if t.ScheduledTime == nil {
				return false
			}
			s := *t.ScheduledTime
			return !s.Before(now.Add(-buffer)) && !s.After(now.Add(buffer))
		},
		less: func(a, b *entity.QueueToken) bool {
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
			return a.ScheduledTime.Before(*b.ScheduledTime)
		},
	},
	{
		// The FIFO-by-arrival lane: walk-ins and demoted late arrivals.
		name: "walk-in",
		matches: func(t *entity.QueueToken, _ time.Time, _ time.Duration) bool {
			return t.InWalkInLane()
		},
		less: func(a, b *entity.QueueToken) bool {
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
			return a.TokenNumber < b.TokenNumber
		},
	},
	{
		// Anything still waiting: scheduled patients whose window has
		// fully passed must not be stranded.
		name: "fallback",
		matches: func(_ *entity.QueueToken, _ time.Time, _ time.Duration) bool {
			return true
		},
		less: func(a, b *entity.QueueToken) bool {
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
			as, bs := a.ScheduledTime, b.ScheduledTime
			switch {
			case as != nil && bs != nil && !as.Equal(*bs):
				return as.Before(*bs)
			case as != nil && bs == nil:
				return true
			case as == nil && bs != nil:
				return false
			}
			return a.TokenNumber < b.TokenNumber
		},
	},
}

// selectNextToken runs the tiers over the waiting tokens and returns
// the winner, or nil when the clinic is idle. Callers must hold the
// clinic lock: selection and the waiting→in-progress transition are a
// read-then-write pair.
func selectNextToken(tokens []entity.QueueToken, now time.Time, buffer time.Duration) *entity.QueueToken {
	for _, tier := range admissionTiers {
		var candidates []*entity.QueueToken
		for i := range tokens {
			if tokens[i].IsWaiting() && tier.matches(&tokens[i], now, buffer) {
				candidates = append(candidates, &tokens[i])
			}
		}
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return tier.less(candidates[i], candidates[j])
		})
		return candidates[0]
	}
	return nil
}
