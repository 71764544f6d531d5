package services

import (
	"context"
	"log"
	"math/rand"
	"sort"

	"wasteflow-backend/internal/models"
)

// AssignmentStrategy decides the order in which drivers are offered a
// pickup. loads is the per-driver assignment count for the pickup's date.
type AssignmentStrategy interface {
	Order(drivers []models.User, loads map[string]int) []models.User
}

// LeastLoadedStrategy offers pickups to the driver with the fewest
// assignments for that date first, breaking ties by driver id. Deterministic,
// so repeated runs with the same state behave identically.
type LeastLoadedStrategy struct{}

func (LeastLoadedStrategy) Order(drivers []models.User, loads map[string]int) []models.User {
	ordered := make([]models.User, len(drivers))
	copy(ordered, drivers)
	sort.SliceStable(ordered, func(i, j int) bool {
		li, lj := loads[ordered[i].ID], loads[ordered[j].ID]
		if li != lj {
			return li < lj
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// ShuffleStrategy scans the roster in random order, preserving the behavior
// the scheduler originally shipped with.
type ShuffleStrategy struct {
	Rand *rand.Rand
}

func (s ShuffleStrategy) Order(drivers []models.User, loads map[string]int) []models.User {
	ordered := make([]models.User, len(drivers))
	copy(ordered, drivers)
	s.Rand.Shuffle(len(ordered), func(i, j int) {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	})
	return ordered
}

// ScheduleResult summarizes one scheduler run.
type ScheduleResult struct {
	Assigned   int `json:"assigned"`
	Unassigned int `json:"unassigned"`
}

// Scheduler distributes pending pickups across the driver roster under the
// configured daily per-driver limit. Pickups that cannot be placed stay
// pending; re-running picks them up once capacity frees.
type Scheduler struct {
	store    SchedulerStore
	strategy AssignmentStrategy
}

func NewScheduler(store SchedulerStore, strategy AssignmentStrategy) *Scheduler {
	return &Scheduler{store: store, strategy: strategy}
}

// Run evaluates every pending pickup against the capacity state current at
// the moment of its attempt. The per-driver counter check and the assignment
// are one atomic store operation, so concurrent runs cannot overbook a
// driver; they just race to the same assignments and the loser moves on.
func (s *Scheduler) Run(ctx context.Context) (ScheduleResult, error) {
	var result ScheduleResult

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return result, err
	}

	drivers, err := s.store.ListUsersByRole(ctx, models.RoleDriver)
	if err != nil {
		return result, err
	}
	roster := drivers[:0]
	for _, d := range drivers {
		if !d.IsSuspended {
			roster = append(roster, d)
		}
	}

	pending, err := s.store.PendingPickups(ctx)
	if err != nil {
		return result, err
	}

	for _, pickup := range pending {
		loads, err := s.store.AssignedCounts(ctx, pickup.Date)
		if err != nil {
			return result, err
		}

		placed := false
		for _, driver := range s.strategy.Order(roster, loads) {
			if loads[driver.ID] >= settings.DailyPickupLimitPerDriver {
				continue
			}
			ok, err := s.store.AssignIfUnderLimit(ctx, pickup.ID, driver.ID, pickup.Date, settings.DailyPickupLimitPerDriver)
			if err != nil {
				return result, err
			}
			if ok {
				placed = true
				break
			}
		}

		if placed {
			result.Assigned++
		} else {
			result.Unassigned++
		}
	}

	log.Printf("📋 Scheduler run: %d assigned, %d left pending", result.Assigned, result.Unassigned)
	return result, nil
}
