package models

// Pickup statuses
const (
	PickupStatusPending   = "pending"
	PickupStatusAssigned  = "assigned"
	PickupStatusOngoing   = "ongoing"
	PickupStatusCompleted = "completed"
	PickupStatusPaid      = "paid"
	PickupStatusCancelled = "cancelled"
)

// PickupDateLayout is the wire and storage format for pickup dates.
const PickupDateLayout = "2006-01-02"

type Pickup struct {
	ID          string  `json:"id" db:"id"`
	HomeownerID string  `json:"homeowner_id" db:"homeowner_id"`
	DriverID    *string `json:"driver_id,omitempty" db:"driver_id"`
	PaymentID   *string `json:"payment_id,omitempty" db:"payment_id"`
	Date        string  `json:"date" db:"pickup_date"` // YYYY-MM-DD
	Status      string  `json:"status" db:"status"`
	CreatedAt   int64   `json:"created_at" db:"created_at"`
	UpdatedAt   int64   `json:"updated_at" db:"updated_at"`
}

// PickupResponse is a pickup with its snapshotted bin set attached.
type PickupResponse struct {
	Pickup
	Bins []Bin `json:"bins"`
}

// CreatePickupRequest is the request body for POST /api/pickups
type CreatePickupRequest struct {
	Date string `json:"date"`
}

// ReschedulePickupRequest is the request body for PATCH /api/pickups/reschedule/{id}
type ReschedulePickupRequest struct {
	Date string `json:"date"`
}

// ActivePickupStatuses are the states that count against the one-active-pickup
// rule and block bin status changes.
func ActivePickupStatuses() []string {
	return []string{PickupStatusPending, PickupStatusAssigned, PickupStatusOngoing, PickupStatusCompleted}
}
