package store

import (
	"context"
	"fmt"
	"time"

	"wasteflow-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// insertPayment writes the payment row through whatever execer the caller is
// in: the bare pool for standalone records, a transaction when the payment
// commits together with the state it settles.
func insertPayment(ctx context.Context, q sqlx.ExtContext, p *models.Payment) error {
	p.CreatedAt = time.Now().Unix()

	_, err := q.ExecContext(ctx, `
		INSERT INTO payments (id, homeowner_id, payment_type, payment_method, response, total_amount, ref_number, package_id, pickup_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.HomeownerID, p.PaymentType, p.PaymentMethod, p.Response, p.TotalAmount, p.RefNumber, p.PackageID, p.PickupID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// CreatePayment records a standalone payment outcome, typically a declined
// attempt that settles nothing.
func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	return insertPayment(ctx, s.db, p)
}

func (s *Store) ListPaymentsByHomeowner(ctx context.Context, homeownerID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.SelectContext(ctx, &payments, `
		SELECT id, homeowner_id, payment_type, payment_method, response, total_amount, ref_number, package_id, pickup_id, created_at
		FROM payments WHERE homeowner_id = $1 ORDER BY created_at DESC, id
	`, homeownerID)
	return payments, err
}
