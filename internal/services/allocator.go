package services

import (
	"context"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"
)

// Allocator claims bins from the pool to satisfy a package. The claim itself
// is a single atomic operation at the store, so concurrent allocations can
// never both succeed against the same shortfall.
type Allocator struct {
	store AllocatorStore

	// releaseEnabled allows a homeowner to switch packages by releasing the
	// previously held bins first. Off by default: assignment is permanent.
	releaseEnabled bool
}

func NewAllocator(store AllocatorStore, releaseEnabled bool) *Allocator {
	return &Allocator{store: store, releaseEnabled: releaseEnabled}
}

// Allocate assigns exactly pkg.BinNum unowned bins of pkg.Size to the
// homeowner and records the package choice, together with the settling
// payment when there is one. All-or-nothing: the store commits release,
// claim, package and payment as a unit, so a shortfall changes nothing and
// returns a capacity error.
func (a *Allocator) Allocate(ctx context.Context, homeowner *models.User, pkg *models.Package, payment *models.Payment) ([]models.Bin, error) {
	if homeowner.IsSuspended {
		return nil, apperr.Forbidden("Account has been suspended")
	}
	if !homeowner.IsApproved {
		return nil, apperr.Forbidden("Account has not been approved yet")
	}

	release := homeowner.PackageID != nil
	if release {
		if !a.releaseEnabled {
			return nil, apperr.Conflict("Account already holds a package")
		}

		// Switching packages while a pickup references the old bins would
		// pull the snapshot out from under the pickup.
		active, err := a.store.ActivePickupExists(ctx, homeowner.ID)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, apperr.Conflict("Finish or cancel the active pickup before changing packages")
		}
	}

	return a.store.AllocatePackage(ctx, homeowner.ID, pkg.ID, pkg.Size, pkg.BinNum, release, payment)
}
