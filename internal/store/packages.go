package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"

	"github.com/google/uuid"
)

const packageColumns = `id, name, price, size, bin_num, is_custom, created_at, updated_at`

func (s *Store) CreatePackage(ctx context.Context, req models.CreatePackageRequest, isCustom bool) (*models.Package, error) {
	now := time.Now().Unix()
	pkg := models.Package{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Price:     req.Price,
		Size:      req.Size,
		BinNum:    req.BinNum,
		IsCustom:  isCustom,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO packages (id, name, price, size, bin_num, is_custom, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, pkg.ID, pkg.Name, pkg.Price, pkg.Size, pkg.BinNum, pkg.IsCustom, pkg.CreatedAt, pkg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (s *Store) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	var pkg models.Package
	err := s.db.GetContext(ctx, &pkg, `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Package does not exist")
	}
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ListPackages returns the purchasable catalog; custom packages stay private
// to the homeowner they were built for.
func (s *Store) ListPackages(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	err := s.db.SelectContext(ctx, &packages, `
		SELECT `+packageColumns+` FROM packages WHERE is_custom = FALSE ORDER BY price, id`)
	return packages, err
}

func (s *Store) UpdatePackage(ctx context.Context, id string, req models.UpdatePackageRequest) (*models.Package, error) {
	var pkg models.Package
	err := s.db.GetContext(ctx, &pkg, `
		UPDATE packages
		SET name    = COALESCE($2, name),
		    price   = COALESCE($3, price),
		    size    = COALESCE($4, size),
		    bin_num = COALESCE($5, bin_num),
		    updated_at = $6
		WHERE id = $1
		RETURNING `+packageColumns+`
	`, id, req.Name, req.Price, req.Size, req.BinNum, time.Now().Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Package does not exist")
	}
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// DeletePackage removes a package nobody holds.
func (s *Store) DeletePackage(ctx context.Context, id string) error {
	if _, err := s.GetPackage(ctx, id); err != nil {
		return err
	}

	inUse, err := s.AnyHomeownerOnPackage(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.Conflict("There are users on this package")
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	return err
}
