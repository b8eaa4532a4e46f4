package store

import "homs/queue-service/internal/models"

var transitionMap = map[string][]string{
	models.StatusWaiting:    {models.StatusInProgress, models.StatusSkipped},
	models.StatusInProgress: {models.StatusDone, models.StatusCompleted, models.StatusSkipped},
	models.StatusDone:       {},
	models.StatusCompleted:  {},
	models.StatusSkipped:    {},
}

// ValidTransition reports whether a queue entry may move from one status to
// another. Terminal statuses have no outgoing moves.
func ValidTransition(fromStatus, toStatus string) bool {
	allowed, ok := transitionMap[fromStatus]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == toStatus {
			return true
		}
	}
	return false
}

// ValidStatus reports whether the value is a known queue entry status.
func ValidStatus(status string) bool {
	_, ok := transitionMap[status]
	return ok
}
