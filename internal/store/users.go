package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"
)

const userColumns = `id, email, password, surname, othernames, phone, role, is_suspended, is_approved, package_id, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	now := time.Now().Unix()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password, surname, othernames, phone, role, is_suspended, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, u.ID, u.Email, u.Password, u.Surname, u.Othernames, u.Phone, u.Role, u.IsSuspended, u.IsApproved, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("User already exists with this email")
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Account not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Account not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, `
		SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at, id`, role)
	return users, err
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("Account not found")
	}
	return nil
}

// SetUserSuspended flips the suspension flag. Flipping to the value already
// in place is a conflict, enforced in the update itself.
func (s *Store) SetUserSuspended(ctx context.Context, id string, suspended bool) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `
		UPDATE users SET is_suspended = $1, updated_at = $2
		WHERE id = $3 AND is_suspended = NOT $1
		RETURNING `+userColumns+`
	`, suspended, time.Now().Unix(), id)
	if errors.Is(err, sql.ErrNoRows) {
		if suspended {
			return nil, apperr.Conflict("Account has already been suspended")
		}
		return nil, apperr.Conflict("Account has already been unsuspended")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) SetUserApproved(ctx context.Context, id string, approved bool) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `
		UPDATE users SET is_approved = $1, updated_at = $2
		WHERE id = $3 AND is_approved = NOT $1
		RETURNING `+userColumns+`
	`, approved, time.Now().Unix(), id)
	if errors.Is(err, sql.ErrNoRows) {
		if approved {
			return nil, apperr.Conflict("Account has already been approved")
		}
		return nil, apperr.Conflict("Account has already been rejected")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AnyHomeownerOnPackage reports whether some homeowner currently holds the
// package. Used to block catalog deletions.
func (s *Store) AnyHomeownerOnPackage(ctx context.Context, packageID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE package_id = $1`, packageID)
	return count > 0, err
}
