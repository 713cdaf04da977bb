package usecase

import (
	"math"

	"clinic-queue-engine/internal/domain/entity"
)

// countPatientsAhead counts waiting tokens served before target:
// strictly higher priority, or equal priority with a smaller token
// number.
func countPatientsAhead(tokens []entity.QueueToken, target *entity.QueueToken) int {
	ahead := 0
	for i := range tokens {
		t := &tokens[i]
		if t.ID == target.ID || !t.IsWaiting() {
			continue
		}
		if t.Priority > target.Priority ||
			(t.Priority == target.Priority && t.TokenNumber < target.TokenNumber) {
			ahead++
		}
	}
	return ahead
}

// estimateWaitMinutes predicts the wait from queue position. An active
// consultation counts as half a slot: on average it is half finished.
func estimateWaitMinutes(patientsAhead int, inProgressCount int, avgConsultationMinutes int) int {
	load := float64(patientsAhead)
	if inProgressCount > 0 {
		load += 0.5
	}
	return int(math.Round(load * float64(avgConsultationMinutes)))
}

// nextRollingAverage folds one observed consultation duration into the
// clinic average: 0.7 weight on history, 0.3 on the new observation.
func nextRollingAverage(oldAvg, observedMinutes int) int {
	return int(math.Round(float64(oldAvg)*0.7 + float64(observedMinutes)*0.3))
}
