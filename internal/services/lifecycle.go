package services

import (
	"fmt"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"
)

// transitions is the single source of truth for the pickup state machine.
// Every status change, forward or backward, is checked against this table.
var transitions = map[string][]string{
	models.PickupStatusPending:   {models.PickupStatusAssigned, models.PickupStatusCancelled},
	models.PickupStatusAssigned:  {models.PickupStatusOngoing},
	models.PickupStatusOngoing:   {models.PickupStatusCompleted},
	models.PickupStatusCompleted: {models.PickupStatusPaid},
	models.PickupStatusPaid:      {},
	models.PickupStatusCancelled: {},
}

// CanTransition reports whether a pickup may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns the conflict error a rejected transition surfaces.
func CheckTransition(from, to string) error {
	if !CanTransition(from, to) {
		return apperr.Conflict(fmt.Sprintf("Pickup cannot move from %s to %s", from, to))
	}
	return nil
}
