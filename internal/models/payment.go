package models

// Payment types
const (
	PaymentTypeBin    = "bin"
	PaymentTypePickup = "pickup"
)

// Payment responses reported by the payment provider
const (
	PaymentResponseSuccess = "success"
	PaymentResponseFailure = "failure"
)

type Payment struct {
	ID            string  `json:"id" db:"id"`
	HomeownerID   string  `json:"homeowner_id" db:"homeowner_id"`
	PaymentType   string  `json:"payment_type" db:"payment_type"`
	PaymentMethod string  `json:"payment_method" db:"payment_method"` // card, mobile_money, bank
	Response      string  `json:"response" db:"response"`
	TotalAmount   float64 `json:"total_amount" db:"total_amount"`
	RefNumber     string  `json:"ref_number" db:"ref_number"`
	PackageID     *string `json:"package_id,omitempty" db:"package_id"`
	PickupID      *string `json:"pickup_id,omitempty" db:"pickup_id"`
	CreatedAt     int64   `json:"created_at" db:"created_at"`
}

// CreatePaymentRequest is the request body for recording a payment outcome.
type CreatePaymentRequest struct {
	PaymentMethod string  `json:"payment_method"`
	Response      string  `json:"response"`
	TotalAmount   float64 `json:"total_amount"`
	RefNumber     string  `json:"ref_number"`
}

func ValidPaymentMethod(method string) bool {
	switch method {
	case "card", "mobile_money", "bank":
		return true
	}
	return false
}
