package services

import (
	"context"
	"fmt"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"
)

// fakePickupStore is an in-memory PickupStore for exercising the pickup
// service without a database.
type fakePickupStore struct {
	active   bool
	fullBins []models.Bin
	pickups  map[string]*models.Pickup

	created       *models.Pickup
	createdBinIDs []string
	payments      []*models.Payment
	err           error
}

func newFakePickupStore() *fakePickupStore {
	return &fakePickupStore{pickups: map[string]*models.Pickup{}}
}

func (f *fakePickupStore) ActivePickupExists(ctx context.Context, homeownerID string) (bool, error) {
	return f.active, f.err
}

func (f *fakePickupStore) FullBins(ctx context.Context, homeownerID string) ([]models.Bin, error) {
	return f.fullBins, f.err
}

func (f *fakePickupStore) CreatePickup(ctx context.Context, p *models.Pickup, binIDs []string) error {
	if f.err != nil {
		return f.err
	}
	p.Status = models.PickupStatusPending
	f.created = p
	f.createdBinIDs = binIDs
	f.pickups[p.ID] = p
	return nil
}

func (f *fakePickupStore) GetPickup(ctx context.Context, id string) (*models.Pickup, error) {
	p, ok := f.pickups[id]
	if !ok {
		return nil, apperr.NotFound("Pickup does not exist")
	}
	cp := *p
	return &cp, nil
}

func (f *fakePickupStore) PickupBins(ctx context.Context, pickupID string) ([]models.Bin, error) {
	return f.fullBins, nil
}

func (f *fakePickupStore) ReschedulePickup(ctx context.Context, id, newDate string) (*models.Pickup, error) {
	p, ok := f.pickups[id]
	if !ok {
		return nil, apperr.NotFound("Pickup does not exist")
	}
	if p.Status != models.PickupStatusPending {
		return nil, apperr.Conflict("Only pending pickups can be rescheduled")
	}
	p.Date = newDate
	cp := *p
	return &cp, nil
}

func (f *fakePickupStore) TransitionPickup(ctx context.Context, id, from, to string) (*models.Pickup, error) {
	p, ok := f.pickups[id]
	if !ok {
		return nil, apperr.NotFound("Pickup does not exist")
	}
	if p.Status != from {
		return nil, apperr.Conflict(fmt.Sprintf("Pickup is no longer %s", from))
	}
	p.Status = to
	cp := *p
	return &cp, nil
}

func (f *fakePickupStore) MarkPickupPaid(ctx context.Context, id string, payment *models.Payment) (*models.Pickup, error) {
	p, ok := f.pickups[id]
	if !ok {
		return nil, apperr.NotFound("Pickup does not exist")
	}
	if p.Status != models.PickupStatusCompleted {
		return nil, apperr.Conflict("Only completed pickups can be paid")
	}
	f.payments = append(f.payments, payment)
	p.Status = models.PickupStatusPaid
	p.PaymentID = &payment.ID
	cp := *p
	return &cp, nil
}

// fakeAllocatorStore tracks a pool of unowned bins per size and mirrors the
// transactional semantics of the real store: a shortfall leaves the pool, the
// release, the package and the payment all untouched.
type fakeAllocatorStore struct {
	pool   map[string]int
	active bool

	released    bool
	claimedBy   string
	claimedSize string
	claimedN    int
	packageSet  *string
	payment     *models.Payment
}

func (f *fakeAllocatorStore) AllocatePackage(ctx context.Context, homeownerID, packageID, size string, n int, release bool, payment *models.Payment) ([]models.Bin, error) {
	if f.pool[size] < n {
		return nil, apperr.Capacity("There are not enough available bins")
	}
	f.released = release
	f.pool[size] -= n
	f.claimedBy = homeownerID
	f.claimedSize = size
	f.claimedN = n
	f.packageSet = &packageID
	f.payment = payment
	bins := make([]models.Bin, n)
	for i := range bins {
		bins[i] = models.Bin{ID: fmt.Sprintf("bin-%d", i), Size: size, HomeownerID: &homeownerID}
	}
	return bins, nil
}

func (f *fakeAllocatorStore) ActivePickupExists(ctx context.Context, homeownerID string) (bool, error) {
	return f.active, nil
}

// fakeSchedulerStore keeps per-date assignment counters and enforces the
// driver limit inside AssignIfUnderLimit, like the conditional update does.
type fakeSchedulerStore struct {
	settings *models.PickupSettings
	drivers  []models.User
	pending  []models.Pickup

	counts      map[string]map[string]int // date -> driver -> assigned
	assignments map[string]string         // pickup -> driver
}

func newFakeSchedulerStore(limit int) *fakeSchedulerStore {
	return &fakeSchedulerStore{
		settings:    &models.PickupSettings{ID: 1, DailyPickupLimitPerDriver: limit, PickupPrice: 20},
		counts:      map[string]map[string]int{},
		assignments: map[string]string{},
	}
}

func (f *fakeSchedulerStore) GetSettings(ctx context.Context) (*models.PickupSettings, error) {
	if f.settings == nil {
		return nil, apperr.NotFound("There are no settings. Please create one")
	}
	return f.settings, nil
}

func (f *fakeSchedulerStore) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	return f.drivers, nil
}

func (f *fakeSchedulerStore) PendingPickups(ctx context.Context) ([]models.Pickup, error) {
	var out []models.Pickup
	for _, p := range f.pending {
		if _, assigned := f.assignments[p.ID]; !assigned {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSchedulerStore) AssignedCounts(ctx context.Context, date string) (map[string]int, error) {
	loads := map[string]int{}
	for driver, n := range f.counts[date] {
		loads[driver] = n
	}
	return loads, nil
}

func (f *fakeSchedulerStore) AssignIfUnderLimit(ctx context.Context, pickupID, driverID, date string, limit int) (bool, error) {
	if f.counts[date] == nil {
		f.counts[date] = map[string]int{}
	}
	if f.counts[date][driverID] >= limit {
		return false, nil
	}
	f.counts[date][driverID]++
	f.assignments[pickupID] = driverID
	return true, nil
}
