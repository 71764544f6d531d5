package services

import (
	"context"
	"testing"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerAssignsUpToLimit(t *testing.T) {
	store := newFakeSchedulerStore(2)
	store.drivers = []models.User{
		{ID: "drv-a", Role: models.RoleDriver},
		{ID: "drv-b", Role: models.RoleDriver},
	}
	store.pending = []models.Pickup{
		{ID: "p1", Date: "2025-03-12", Status: models.PickupStatusPending},
		{ID: "p2", Date: "2025-03-12", Status: models.PickupStatusPending},
		{ID: "p3", Date: "2025-03-12", Status: models.PickupStatusPending},
		{ID: "p4", Date: "2025-03-12", Status: models.PickupStatusPending},
		{ID: "p5", Date: "2025-03-12", Status: models.PickupStatusPending},
	}

	result, err := NewScheduler(store, LeastLoadedStrategy{}).Run(context.Background())
	require.NoError(t, err)

	// Two drivers at two per day holds four; the fifth stays pending.
	assert.Equal(t, 4, result.Assigned)
	assert.Equal(t, 1, result.Unassigned)
	assert.Equal(t, 2, store.counts["2025-03-12"]["drv-a"])
	assert.Equal(t, 2, store.counts["2025-03-12"]["drv-b"])
}

func TestSchedulerLeastLoadedSpreadsWork(t *testing.T) {
	store := newFakeSchedulerStore(5)
	store.drivers = []models.User{
		{ID: "drv-a", Role: models.RoleDriver},
		{ID: "drv-b", Role: models.RoleDriver},
	}
	store.counts["2025-03-12"] = map[string]int{"drv-a": 3}
	store.pending = []models.Pickup{
		{ID: "p1", Date: "2025-03-12", Status: models.PickupStatusPending},
	}

	result, err := NewScheduler(store, LeastLoadedStrategy{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Assigned)
	assert.Equal(t, "drv-b", store.assignments["p1"], "the idle driver should get the work")
}

func TestSchedulerSkipsSuspendedDrivers(t *testing.T) {
	store := newFakeSchedulerStore(5)
	store.drivers = []models.User{
		{ID: "drv-a", Role: models.RoleDriver, IsSuspended: true},
		{ID: "drv-b", Role: models.RoleDriver},
	}
	store.pending = []models.Pickup{
		{ID: "p1", Date: "2025-03-12", Status: models.PickupStatusPending},
	}

	_, err := NewScheduler(store, LeastLoadedStrategy{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "drv-b", store.assignments["p1"])
}

func TestSchedulerLeavesUnplaceableWorkPending(t *testing.T) {
	store := newFakeSchedulerStore(1)
	store.drivers = []models.User{{ID: "drv-a", Role: models.RoleDriver}}
	store.counts["2025-03-12"] = map[string]int{"drv-a": 1}
	store.pending = []models.Pickup{
		{ID: "p1", Date: "2025-03-12", Status: models.PickupStatusPending},
	}

	result, err := NewScheduler(store, LeastLoadedStrategy{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Assigned)
	assert.Equal(t, 1, result.Unassigned)
	assert.Empty(t, store.assignments)
}

func TestSchedulerRerunPicksUpLeftovers(t *testing.T) {
	store := newFakeSchedulerStore(1)
	store.drivers = []models.User{{ID: "drv-a", Role: models.RoleDriver}}
	store.pending = []models.Pickup{
		{ID: "p1", Date: "2025-03-12", Status: models.PickupStatusPending},
		{ID: "p2", Date: "2025-03-12", Status: models.PickupStatusPending},
	}
	scheduler := NewScheduler(store, LeastLoadedStrategy{})

	first, err := scheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Assigned)
	assert.Equal(t, 1, first.Unassigned)

	// Capacity frees up for the date, the leftover gets placed on rerun.
	store.counts["2025-03-12"]["drv-a"] = 0

	second, err := scheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Assigned)
	assert.Equal(t, 0, second.Unassigned)
}

func TestSchedulerIdempotentWhenStateUnchanged(t *testing.T) {
	store := newFakeSchedulerStore(3)
	store.drivers = []models.User{
		{ID: "drv-a", Role: models.RoleDriver},
		{ID: "drv-b", Role: models.RoleDriver},
	}
	store.pending = []models.Pickup{
		{ID: "p1", Date: "2025-03-12", Status: models.PickupStatusPending},
		{ID: "p2", Date: "2025-03-12", Status: models.PickupStatusPending},
	}
	scheduler := NewScheduler(store, LeastLoadedStrategy{})

	first, err := scheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Assigned)

	// Nothing changed between runs, so the second run finds no work and
	// moves nothing.
	second, err := scheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Assigned)
	assert.Equal(t, 0, second.Unassigned)
	assert.Len(t, store.assignments, 2)
	assert.Equal(t, 2, store.counts["2025-03-12"]["drv-a"]+store.counts["2025-03-12"]["drv-b"])
}

func TestSchedulerRequiresSettings(t *testing.T) {
	store := newFakeSchedulerStore(1)
	store.settings = nil

	_, err := NewScheduler(store, LeastLoadedStrategy{}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestLeastLoadedStrategyOrder(t *testing.T) {
	drivers := []models.User{{ID: "drv-c"}, {ID: "drv-a"}, {ID: "drv-b"}}
	loads := map[string]int{"drv-a": 2, "drv-b": 0, "drv-c": 0}

	ordered := LeastLoadedStrategy{}.Order(drivers, loads)

	require.Len(t, ordered, 3)
	assert.Equal(t, "drv-b", ordered[0].ID, "tied loads break by driver id")
	assert.Equal(t, "drv-c", ordered[1].ID)
	assert.Equal(t, "drv-a", ordered[2].ID)
	assert.Equal(t, "drv-c", drivers[0].ID, "input slice must not be reordered")
}
