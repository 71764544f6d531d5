package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"
)

const settingsColumns = `id, daily_pickup_limit_per_driver, pickup_price, created_at, updated_at`

// CreateSettings inserts the singleton settings row. The primary key is
// pinned to 1, so a second create collides instead of adding a row.
func (s *Store) CreateSettings(ctx context.Context, req models.PickupSettingsRequest) (*models.PickupSettings, error) {
	now := time.Now().Unix()
	settings := models.PickupSettings{
		ID:                        1,
		DailyPickupLimitPerDriver: req.DailyPickupLimitPerDriver,
		PickupPrice:               req.PickupPrice,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pickup_settings (id, daily_pickup_limit_per_driver, pickup_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, settings.ID, settings.DailyPickupLimitPerDriver, settings.PickupPrice, settings.CreatedAt, settings.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("A setting record already exists. Edit that one instead")
		}
		return nil, err
	}
	return &settings, nil
}

func (s *Store) GetSettings(ctx context.Context) (*models.PickupSettings, error) {
	var settings models.PickupSettings
	err := s.db.GetContext(ctx, &settings, `SELECT `+settingsColumns+` FROM pickup_settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("There are no settings. Please create one")
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Store) UpdateSettings(ctx context.Context, req models.PickupSettingsRequest) (*models.PickupSettings, error) {
	var settings models.PickupSettings
	err := s.db.GetContext(ctx, &settings, `
		UPDATE pickup_settings
		SET daily_pickup_limit_per_driver = $1, pickup_price = $2, updated_at = $3
		WHERE id = 1
		RETURNING `+settingsColumns+`
	`, req.DailyPickupLimitPerDriver, req.PickupPrice, time.Now().Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("There are no settings. Please create one")
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
