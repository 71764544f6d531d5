package services

import (
	"context"
	"time"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"

	"github.com/google/uuid"
)

// PickupService drives the pickup lifecycle: creation guards, reschedule and
// cancel in pending, driver-facing forward transitions, and the terminal
// payment transition.
type PickupService struct {
	store PickupStore
	now   func() time.Time
}

func NewPickupService(store PickupStore) *PickupService {
	return &PickupService{store: store, now: time.Now}
}

// Create schedules a pickup of the homeowner's full bins on the given date.
func (s *PickupService) Create(ctx context.Context, actor Principal, date string) (*models.PickupResponse, error) {
	if actor.IsSuspended {
		return nil, apperr.Forbidden("Account has been suspended")
	}

	active, err := s.store.ActivePickupExists(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperr.Conflict("An active pickup already exists for this account")
	}

	validDate, err := ValidatePickupDate(date, s.now())
	if err != nil {
		return nil, err
	}

	fullBins, err := s.store.FullBins(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(fullBins) == 0 {
		return nil, apperr.Validation("You have no full bins to collect")
	}

	pickup := &models.Pickup{
		ID:          uuid.NewString(),
		HomeownerID: actor.ID,
		Date:        validDate,
	}
	binIDs := make([]string, len(fullBins))
	for i, bin := range fullBins {
		binIDs[i] = bin.ID
	}

	if err := s.store.CreatePickup(ctx, pickup, binIDs); err != nil {
		return nil, err
	}

	return &models.PickupResponse{Pickup: *pickup, Bins: fullBins}, nil
}

// Reschedule moves a pending pickup owned by the actor to a new weekday.
func (s *PickupService) Reschedule(ctx context.Context, actor Principal, pickupID, date string) (*models.Pickup, error) {
	pickup, err := s.store.GetPickup(ctx, pickupID)
	if err != nil {
		return nil, err
	}
	if pickup.HomeownerID != actor.ID {
		return nil, apperr.Forbidden("You can only reschedule your own pickups")
	}
	if pickup.Status != models.PickupStatusPending {
		return nil, apperr.Conflict("Only pending pickups can be rescheduled")
	}

	validDate, err := ValidatePickupDate(date, s.now())
	if err != nil {
		return nil, err
	}

	return s.store.ReschedulePickup(ctx, pickupID, validDate)
}

// Cancel moves a pending pickup owned by the actor to cancelled. Bins are
// not released; they stay with the homeowner.
func (s *PickupService) Cancel(ctx context.Context, actor Principal, pickupID string) (*models.Pickup, error) {
	pickup, err := s.store.GetPickup(ctx, pickupID)
	if err != nil {
		return nil, err
	}
	if pickup.HomeownerID != actor.ID {
		return nil, apperr.Forbidden("You can only cancel your own pickups")
	}
	if err := CheckTransition(pickup.Status, models.PickupStatusCancelled); err != nil {
		return nil, err
	}

	return s.store.TransitionPickup(ctx, pickupID, pickup.Status, models.PickupStatusCancelled)
}

// Advance is the driver-facing forward transition (assigned → ongoing,
// ongoing → completed), checked against the transition table like every
// other status change.
func (s *PickupService) Advance(ctx context.Context, actor Principal, pickupID, to string) (*models.Pickup, error) {
	pickup, err := s.store.GetPickup(ctx, pickupID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleDriver {
		if pickup.DriverID == nil || *pickup.DriverID != actor.ID {
			return nil, apperr.Forbidden("This pickup is assigned to another driver")
		}
	}
	if err := CheckTransition(pickup.Status, to); err != nil {
		return nil, err
	}

	return s.store.TransitionPickup(ctx, pickupID, pickup.Status, to)
}

// MarkPaid settles a completed pickup: the payment row and the terminal paid
// transition commit together at the store. Invoked by the payment flow, never
// directly by a client.
func (s *PickupService) MarkPaid(ctx context.Context, pickupID string, payment *models.Payment) (*models.Pickup, error) {
	pickup, err := s.store.GetPickup(ctx, pickupID)
	if err != nil {
		return nil, err
	}
	if err := CheckTransition(pickup.Status, models.PickupStatusPaid); err != nil {
		return nil, err
	}

	return s.store.MarkPickupPaid(ctx, pickupID, payment)
}

// WithBins attaches the snapshot bin set to a pickup.
func (s *PickupService) WithBins(ctx context.Context, pickup *models.Pickup) (*models.PickupResponse, error) {
	bins, err := s.store.PickupBins(ctx, pickup.ID)
	if err != nil {
		return nil, err
	}
	return &models.PickupResponse{Pickup: *pickup, Bins: bins}, nil
}
