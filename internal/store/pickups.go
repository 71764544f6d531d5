package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"

	"github.com/lib/pq"
)

const pickupColumns = `id, homeowner_id, driver_id, payment_id, pickup_date, status, created_at, updated_at`

// CreatePickup inserts a pending pickup and its bin snapshot. The partial
// unique index on active pickups turns a concurrent duplicate into a
// conflict instead of a second active row.
func (s *Store) CreatePickup(ctx context.Context, p *models.Pickup, binIDs []string) error {
	now := time.Now().Unix()
	p.Status = models.PickupStatusPending
	p.CreatedAt = now
	p.UpdatedAt = now

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pickups (id, homeowner_id, pickup_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.HomeownerID, p.Date, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("An active pickup already exists for this account")
		}
		return fmt.Errorf("create pickup: %w", err)
	}

	for _, binID := range binIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pickup_bins (pickup_id, bin_id) VALUES ($1, $2)
		`, p.ID, binID)
		if err != nil {
			return fmt.Errorf("snapshot pickup bin: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetPickup(ctx context.Context, id string) (*models.Pickup, error) {
	var p models.Pickup
	err := s.db.GetContext(ctx, &p, `SELECT `+pickupColumns+` FROM pickups WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Pickup does not exist")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PickupBins returns the bin snapshot taken when the pickup was created.
func (s *Store) PickupBins(ctx context.Context, pickupID string) ([]models.Bin, error) {
	var bins []models.Bin
	err := s.db.SelectContext(ctx, &bins, `
		SELECT b.id, b.category, b.size, b.status, b.price, b.homeowner_id, b.created_at, b.updated_at
		FROM bins b
		JOIN pickup_bins pb ON pb.bin_id = b.id
		WHERE pb.pickup_id = $1
		ORDER BY b.created_at, b.id
	`, pickupID)
	return bins, err
}

// ActivePickupExists reports whether the homeowner has a pickup outside the
// terminal states.
func (s *Store) ActivePickupExists(ctx context.Context, homeownerID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM pickups
		WHERE homeowner_id = $1 AND status = ANY($2)
	`, homeownerID, pq.Array(models.ActivePickupStatuses()))
	return count > 0, err
}

func (s *Store) ListPickups(ctx context.Context) ([]models.Pickup, error) {
	var pickups []models.Pickup
	err := s.db.SelectContext(ctx, &pickups, `
		SELECT `+pickupColumns+` FROM pickups ORDER BY pickup_date, created_at, id`)
	return pickups, err
}

func (s *Store) ListPickupsByDate(ctx context.Context, date string) ([]models.Pickup, error) {
	var pickups []models.Pickup
	err := s.db.SelectContext(ctx, &pickups, `
		SELECT `+pickupColumns+` FROM pickups WHERE pickup_date = $1 ORDER BY created_at, id`, date)
	return pickups, err
}

// ListOverduePickups returns non-terminal pickups dated before today.
func (s *Store) ListOverduePickups(ctx context.Context, today string) ([]models.Pickup, error) {
	var pickups []models.Pickup
	err := s.db.SelectContext(ctx, &pickups, `
		SELECT `+pickupColumns+` FROM pickups
		WHERE pickup_date < $1 AND status = ANY($2)
		ORDER BY pickup_date, created_at, id
	`, today, pq.Array(models.ActivePickupStatuses()))
	return pickups, err
}

func (s *Store) ListPickupsByHomeowner(ctx context.Context, homeownerID string) ([]models.Pickup, error) {
	var pickups []models.Pickup
	err := s.db.SelectContext(ctx, &pickups, `
		SELECT `+pickupColumns+` FROM pickups WHERE homeowner_id = $1 ORDER BY created_at DESC, id`, homeownerID)
	return pickups, err
}

func (s *Store) PendingPickups(ctx context.Context) ([]models.Pickup, error) {
	var pickups []models.Pickup
	err := s.db.SelectContext(ctx, &pickups, `
		SELECT `+pickupColumns+` FROM pickups
		WHERE status = $1 ORDER BY pickup_date, created_at, id`, models.PickupStatusPending)
	return pickups, err
}

// ReschedulePickup moves a pending pickup to a new date. The status guard is
// part of the update so a racing transition cannot reschedule a pickup that
// just left pending.
func (s *Store) ReschedulePickup(ctx context.Context, id, newDate string) (*models.Pickup, error) {
	var p models.Pickup
	err := s.db.GetContext(ctx, &p, `
		UPDATE pickups SET pickup_date = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING `+pickupColumns+`
	`, newDate, time.Now().Unix(), id, models.PickupStatusPending)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Conflict("Only pending pickups can be rescheduled")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// TransitionPickup advances a pickup from one status to another with a
// conditional update; a zero row count means the pickup left the expected
// state first.
func (s *Store) TransitionPickup(ctx context.Context, id, from, to string) (*models.Pickup, error) {
	var p models.Pickup
	err := s.db.GetContext(ctx, &p, `
		UPDATE pickups SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING `+pickupColumns+`
	`, to, time.Now().Unix(), id, from)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Conflict(fmt.Sprintf("Pickup is no longer %s", from))
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPickupPaid is the only way out of completed: it inserts the payment row
// and moves the pickup to its terminal paid state in one transaction, so a
// paid pickup always has its payment record and vice versa.
func (s *Store) MarkPickupPaid(ctx context.Context, id string, payment *models.Payment) (*models.Pickup, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := insertPayment(ctx, tx, payment); err != nil {
		return nil, err
	}

	var p models.Pickup
	err = tx.GetContext(ctx, &p, `
		UPDATE pickups SET status = $1, payment_id = $2, updated_at = $3
		WHERE id = $4 AND status = $5
		RETURNING `+pickupColumns+`
	`, models.PickupStatusPaid, payment.ID, time.Now().Unix(), id, models.PickupStatusCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Conflict("Only completed pickups can be paid")
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &p, nil
}

// AssignIfUnderLimit assigns the driver to a pending pickup only while the
// driver's assignment count for that date is strictly under the limit. Count
// and write happen in one statement, so two scheduler runs cannot both pass
// the capacity check.
func (s *Store) AssignIfUnderLimit(ctx context.Context, pickupID, driverID, date string, limit int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pickups SET driver_id = $1, status = $2, updated_at = $3
		WHERE id = $4 AND status = $5
		AND (
			SELECT COUNT(*) FROM pickups
			WHERE driver_id = $1 AND pickup_date = $6 AND status = ANY($7)
		) < $8
	`, driverID, models.PickupStatusAssigned, time.Now().Unix(), pickupID, models.PickupStatusPending,
		date, pq.Array(models.ActivePickupStatuses()), limit)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// AssignedCounts returns, per driver, how many non-terminal pickups are
// already booked for the given date.
func (s *Store) AssignedCounts(ctx context.Context, date string) (map[string]int, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT driver_id, COUNT(*) FROM pickups
		WHERE driver_id IS NOT NULL AND pickup_date = $1 AND status = ANY($2)
		GROUP BY driver_id
	`, date, pq.Array(models.ActivePickupStatuses()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var driverID string
		var count int
		if err := rows.Scan(&driverID, &count); err != nil {
			return nil, err
		}
		counts[driverID] = count
	}
	return counts, rows.Err()
}
