package services

import (
	"context"

	"wasteflow-backend/internal/models"
)

// Principal is the authenticated actor handed in by the identity layer. The
// services trust it and perform no credential checks of their own.
type Principal struct {
	ID          string
	Role        string
	IsSuspended bool
}

// PickupStore is the slice of the data layer the pickup service needs.
type PickupStore interface {
	ActivePickupExists(ctx context.Context, homeownerID string) (bool, error)
	FullBins(ctx context.Context, homeownerID string) ([]models.Bin, error)
	CreatePickup(ctx context.Context, p *models.Pickup, binIDs []string) error
	GetPickup(ctx context.Context, id string) (*models.Pickup, error)
	PickupBins(ctx context.Context, pickupID string) ([]models.Bin, error)
	ReschedulePickup(ctx context.Context, id, newDate string) (*models.Pickup, error)
	TransitionPickup(ctx context.Context, id, from, to string) (*models.Pickup, error)
	MarkPickupPaid(ctx context.Context, id string, payment *models.Payment) (*models.Pickup, error)
}

// AllocatorStore is the slice of the data layer the allocator needs. The
// single AllocatePackage call covers release, claim, package choice and the
// settling payment so the pieces commit or fail together.
type AllocatorStore interface {
	AllocatePackage(ctx context.Context, homeownerID, packageID, size string, n int, release bool, payment *models.Payment) ([]models.Bin, error)
	ActivePickupExists(ctx context.Context, homeownerID string) (bool, error)
}

// SchedulerStore is the slice of the data layer the scheduler needs.
type SchedulerStore interface {
	GetSettings(ctx context.Context) (*models.PickupSettings, error)
	ListUsersByRole(ctx context.Context, role string) ([]models.User, error)
	PendingPickups(ctx context.Context) ([]models.Pickup, error)
	AssignedCounts(ctx context.Context, date string) (map[string]int, error)
	AssignIfUnderLimit(ctx context.Context, pickupID, driverID, date string, limit int) (bool, error)
}
