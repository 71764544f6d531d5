package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const binColumns = `id, category, size, status, price, homeowner_id, created_at, updated_at`

// CreateBins appends count new unassigned, empty bins.
func (s *Store) CreateBins(ctx context.Context, category, size string, price float64, count int) ([]models.Bin, error) {
	now := time.Now().Unix()
	bins := make([]models.Bin, 0, count)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for i := 0; i < count; i++ {
		bin := models.Bin{
			ID:        uuid.NewString(),
			Category:  category,
			Size:      size,
			Status:    models.BinStatusEmpty,
			Price:     price,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bins (id, category, size, status, price, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, bin.ID, bin.Category, bin.Size, bin.Status, bin.Price, bin.CreatedAt, bin.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("create bin: %w", err)
		}
		bins = append(bins, bin)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return bins, nil
}

func (s *Store) GetBin(ctx context.Context, id string) (*models.Bin, error) {
	var bin models.Bin
	err := s.db.GetContext(ctx, &bin, `SELECT `+binColumns+` FROM bins WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Bin does not exist")
	}
	if err != nil {
		return nil, err
	}
	return &bin, nil
}

func (s *Store) ListBins(ctx context.Context) ([]models.Bin, error) {
	var bins []models.Bin
	err := s.db.SelectContext(ctx, &bins, `SELECT `+binColumns+` FROM bins ORDER BY created_at, id`)
	return bins, err
}

func (s *Store) ListAssignedBins(ctx context.Context) ([]models.Bin, error) {
	var bins []models.Bin
	err := s.db.SelectContext(ctx, &bins, `
		SELECT `+binColumns+` FROM bins WHERE homeowner_id IS NOT NULL ORDER BY created_at, id`)
	return bins, err
}

func (s *Store) ListUnassignedBins(ctx context.Context) ([]models.Bin, error) {
	var bins []models.Bin
	err := s.db.SelectContext(ctx, &bins, `
		SELECT `+binColumns+` FROM bins WHERE homeowner_id IS NULL ORDER BY created_at, id`)
	return bins, err
}

func (s *Store) ListBinsByHomeowner(ctx context.Context, homeownerID string) ([]models.Bin, error) {
	var bins []models.Bin
	err := s.db.SelectContext(ctx, &bins, `
		SELECT `+binColumns+` FROM bins WHERE homeowner_id = $1 ORDER BY created_at, id`, homeownerID)
	return bins, err
}

func (s *Store) FullBins(ctx context.Context, homeownerID string) ([]models.Bin, error) {
	var bins []models.Bin
	err := s.db.SelectContext(ctx, &bins, `
		SELECT `+binColumns+` FROM bins
		WHERE homeowner_id = $1 AND status = $2
		ORDER BY created_at, id`, homeownerID, models.BinStatusFull)
	return bins, err
}

// DeleteBin removes an unowned bin. Owned bins cannot be deleted.
func (s *Store) DeleteBin(ctx context.Context, id string) error {
	bin, err := s.GetBin(ctx, id)
	if err != nil {
		return err
	}
	if bin.HomeownerID != nil {
		return apperr.Conflict("This bin is already assigned to a homeowner")
	}

	// Re-check ownership in the delete itself so a concurrent allocation
	// cannot slip in between the read and the write.
	res, err := s.db.ExecContext(ctx, `DELETE FROM bins WHERE id = $1 AND homeowner_id IS NULL`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.Conflict("This bin is already assigned to a homeowner")
	}
	return nil
}

// AllocatePackage claims n unowned bins of the given size for the homeowner,
// records the package choice and, when a payment settles the choice, the
// payment row, all in one transaction. With release set the homeowner's
// current bins go back to the pool first, inside the same transaction, so a
// shortfall rolls the release back too and the homeowner keeps what they had.
// The candidate rows are locked for the span of the claim; either all n are
// claimed or none are.
func (s *Store) AllocatePackage(ctx context.Context, homeownerID, packageID, size string, n int, release bool, payment *models.Payment) ([]models.Bin, error) {
	now := time.Now().Unix()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if release {
		_, err = tx.ExecContext(ctx, `
			UPDATE bins
			SET homeowner_id = NULL, status = $1, updated_at = $2
			WHERE homeowner_id = $3
		`, models.BinStatusEmpty, now, homeownerID)
		if err != nil {
			return nil, err
		}
	}

	var ids []string
	err = tx.SelectContext(ctx, &ids, `
		SELECT id FROM bins
		WHERE homeowner_id IS NULL AND size = $1
		ORDER BY created_at, id
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, size, n)
	if err != nil {
		return nil, err
	}

	if len(ids) < n {
		return nil, apperr.Capacity("There are not enough available bins")
	}

	var claimed []models.Bin
	err = tx.SelectContext(ctx, &claimed, `
		UPDATE bins
		SET homeowner_id = $1, updated_at = $2
		WHERE id = ANY($3)
		RETURNING `+binColumns+`
	`, homeownerID, now, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	if len(claimed) != n {
		return nil, apperr.Capacity("There are not enough available bins")
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET package_id = $1, updated_at = $2 WHERE id = $3
	`, packageID, now, homeownerID)
	if err != nil {
		return nil, err
	}

	if payment != nil {
		if err := insertPayment(ctx, tx, payment); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return claimed, nil
}

// SetBinsStatus flips the fill status of the homeowner's bins. An empty
// binIDs slice targets all of them. Bins not owned by the homeowner are a
// forbidden request, not a silent skip.
func (s *Store) SetBinsStatus(ctx context.Context, homeownerID string, binIDs []string, status string) ([]models.Bin, error) {
	now := time.Now().Unix()

	if len(binIDs) == 0 {
		var bins []models.Bin
		err := s.db.SelectContext(ctx, &bins, `
			UPDATE bins SET status = $1, updated_at = $2
			WHERE homeowner_id = $3
			RETURNING `+binColumns+`
		`, status, now, homeownerID)
		return bins, err
	}

	var owned int
	err := s.db.GetContext(ctx, &owned, `
		SELECT COUNT(*) FROM bins WHERE homeowner_id = $1 AND id = ANY($2)
	`, homeownerID, pq.Array(binIDs))
	if err != nil {
		return nil, err
	}
	if owned != len(binIDs) {
		return nil, apperr.Forbidden("You can only update your own bins")
	}

	var bins []models.Bin
	err = s.db.SelectContext(ctx, &bins, `
		UPDATE bins SET status = $1, updated_at = $2
		WHERE homeowner_id = $3 AND id = ANY($4)
		RETURNING `+binColumns+`
	`, status, now, homeownerID, pq.Array(binIDs))
	return bins, err
}
