package services

import (
	"context"
	"testing"
	"time"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday. Every valid date in these tests is relative to this.
var testNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestPickupService(store *fakePickupStore) *PickupService {
	s := NewPickupService(store)
	s.now = func() time.Time { return testNow }
	return s
}

func homeownerPrincipal() Principal {
	return Principal{ID: "ho-1", Role: models.RoleHomeowner}
}

func TestPickupCreate(t *testing.T) {
	owner := "ho-1"
	store := newFakePickupStore()
	store.fullBins = []models.Bin{
		{ID: "bin-1", HomeownerID: &owner, Status: models.BinStatusFull},
		{ID: "bin-2", HomeownerID: &owner, Status: models.BinStatusFull},
	}
	svc := newTestPickupService(store)

	resp, err := svc.Create(context.Background(), homeownerPrincipal(), "2025-03-12")
	require.NoError(t, err)

	assert.Equal(t, models.PickupStatusPending, resp.Status)
	assert.Equal(t, "ho-1", resp.HomeownerID)
	assert.Equal(t, "2025-03-12", resp.Date)
	assert.Len(t, resp.Bins, 2)
	assert.Equal(t, []string{"bin-1", "bin-2"}, store.createdBinIDs)
}

func TestPickupCreateSuspendedAccount(t *testing.T) {
	svc := newTestPickupService(newFakePickupStore())
	actor := Principal{ID: "ho-1", Role: models.RoleHomeowner, IsSuspended: true}

	_, err := svc.Create(context.Background(), actor, "2025-03-12")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

func TestPickupCreateSecondActivePickup(t *testing.T) {
	store := newFakePickupStore()
	store.active = true
	svc := newTestPickupService(store)

	_, err := svc.Create(context.Background(), homeownerPrincipal(), "2025-03-12")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestPickupCreateNoFullBins(t *testing.T) {
	svc := newTestPickupService(newFakePickupStore())

	_, err := svc.Create(context.Background(), homeownerPrincipal(), "2025-03-12")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	assert.Contains(t, err.Error(), "no full bins")
}

func TestPickupCreateWeekend(t *testing.T) {
	owner := "ho-1"
	store := newFakePickupStore()
	store.fullBins = []models.Bin{{ID: "bin-1", HomeownerID: &owner, Status: models.BinStatusFull}}
	svc := newTestPickupService(store)

	_, err := svc.Create(context.Background(), homeownerPrincipal(), "2025-03-15")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	assert.Nil(t, store.created)
}

func TestPickupReschedule(t *testing.T) {
	store := newFakePickupStore()
	store.pickups["p1"] = &models.Pickup{ID: "p1", HomeownerID: "ho-1", Date: "2025-03-12", Status: models.PickupStatusPending}
	svc := newTestPickupService(store)

	pickup, err := svc.Reschedule(context.Background(), homeownerPrincipal(), "p1", "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", pickup.Date)
}

func TestPickupRescheduleNotOwner(t *testing.T) {
	store := newFakePickupStore()
	store.pickups["p1"] = &models.Pickup{ID: "p1", HomeownerID: "ho-other", Status: models.PickupStatusPending}
	svc := newTestPickupService(store)

	_, err := svc.Reschedule(context.Background(), homeownerPrincipal(), "p1", "2025-03-14")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

func TestPickupRescheduleAfterAssignment(t *testing.T) {
	store := newFakePickupStore()
	store.pickups["p1"] = &models.Pickup{ID: "p1", HomeownerID: "ho-1", Status: models.PickupStatusAssigned}
	svc := newTestPickupService(store)

	_, err := svc.Reschedule(context.Background(), homeownerPrincipal(), "p1", "2025-03-14")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestPickupCancel(t *testing.T) {
	store := newFakePickupStore()
	store.pickups["p1"] = &models.Pickup{ID: "p1", HomeownerID: "ho-1", Status: models.PickupStatusPending}
	svc := newTestPickupService(store)

	pickup, err := svc.Cancel(context.Background(), homeownerPrincipal(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusCancelled, pickup.Status)
}

func TestPickupCancelOngoing(t *testing.T) {
	store := newFakePickupStore()
	store.pickups["p1"] = &models.Pickup{ID: "p1", HomeownerID: "ho-1", Status: models.PickupStatusOngoing}
	svc := newTestPickupService(store)

	_, err := svc.Cancel(context.Background(), homeownerPrincipal(), "p1")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestPickupAdvanceByAssignedDriver(t *testing.T) {
	driver := "drv-1"
	store := newFakePickupStore()
	store.pickups["p1"] = &models.Pickup{ID: "p1", HomeownerID: "ho-1", DriverID: &driver, Status: models.PickupStatusAssigned}
	svc := newTestPickupService(store)
	actor := Principal{ID: "drv-1", Role: models.RoleDriver}

	pickup, err := svc.Advance(context.Background(), actor, "p1", models.PickupStatusOngoing)
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusOngoing, pickup.Status)

	pickup, err = svc.Advance(context.Background(), actor, "p1", models.PickupStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusCompleted, pickup.Status)
}

func TestPickupAdvanceByOtherDriver(t *testing.T) {
	driver := "drv-1"
	store := newFakePickupStore()
	store.pickups["p1"] = &models.Pickup{ID: "p1", HomeownerID: "ho-1", DriverID: &driver, Status: models.PickupStatusAssigned}
	svc := newTestPickupService(store)
	actor := Principal{ID: "drv-2", Role: models.RoleDriver}

	_, err := svc.Advance(context.Background(), actor, "p1", models.PickupStatusOngoing)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

func TestPickupAdvanceSkipsNoStates(t *testing.T) {
	driver := "drv-1"
	store := newFakePickupStore()
	store.pickups["p1"] = &models.Pickup{ID: "p1", HomeownerID: "ho-1", DriverID: &driver, Status: models.PickupStatusAssigned}
	svc := newTestPickupService(store)
	actor := Principal{ID: "drv-1", Role: models.RoleDriver}

	_, err := svc.Advance(context.Background(), actor, "p1", models.PickupStatusCompleted)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestPickupMarkPaid(t *testing.T) {
	store := newFakePickupStore()
	store.pickups["p1"] = &models.Pickup{ID: "p1", HomeownerID: "ho-1", Status: models.PickupStatusCompleted}
	svc := newTestPickupService(store)
	payment := &models.Payment{ID: "pay-1", HomeownerID: "ho-1", PaymentType: models.PaymentTypePickup}

	pickup, err := svc.MarkPaid(context.Background(), "p1", payment)
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusPaid, pickup.Status)
	require.NotNil(t, pickup.PaymentID)
	assert.Equal(t, "pay-1", *pickup.PaymentID)

	// The payment row lands in the same store operation as the transition.
	require.Len(t, store.payments, 1)
	assert.Same(t, payment, store.payments[0])
}

func TestPickupMarkPaidBeforeCompletion(t *testing.T) {
	store := newFakePickupStore()
	store.pickups["p1"] = &models.Pickup{ID: "p1", HomeownerID: "ho-1", Status: models.PickupStatusOngoing}
	svc := newTestPickupService(store)

	_, err := svc.MarkPaid(context.Background(), "p1", &models.Payment{ID: "pay-1"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
	assert.Empty(t, store.payments, "a refused transition must not record a payment")
}
