package models

// PickupSettings is a singleton record; the scheduler refuses to run without it.
type PickupSettings struct {
	ID                        int     `json:"id" db:"id"`
	DailyPickupLimitPerDriver int     `json:"daily_pickup_limit_per_driver" db:"daily_pickup_limit_per_driver"`
	PickupPrice               float64 `json:"pickup_price" db:"pickup_price"`
	CreatedAt                 int64   `json:"created_at" db:"created_at"`
	UpdatedAt                 int64   `json:"updated_at" db:"updated_at"`
}

// PickupSettingsRequest is the request body for creating or updating settings.
type PickupSettingsRequest struct {
	DailyPickupLimitPerDriver int     `json:"daily_pickup_limit_per_driver"`
	PickupPrice               float64 `json:"pickup_price"`
}
