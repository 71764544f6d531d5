package models

type Package struct {
	ID        string  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Price     float64 `json:"price" db:"price"`
	Size      string  `json:"size" db:"size"`
	BinNum    int     `json:"bin_num" db:"bin_num"`
	IsCustom  bool    `json:"is_custom" db:"is_custom"`
	CreatedAt int64   `json:"created_at" db:"created_at"`
	UpdatedAt int64   `json:"updated_at" db:"updated_at"`
}

// CreatePackageRequest is the request body for POST /api/packages and
// POST /api/packages/custom.
type CreatePackageRequest struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Size   string  `json:"size"`
	BinNum int     `json:"bin_num"`
}

// UpdatePackageRequest is the request body for PATCH /api/packages/{id}
type UpdatePackageRequest struct {
	Name   *string  `json:"name,omitempty"`
	Price  *float64 `json:"price,omitempty"`
	Size   *string  `json:"size,omitempty"`
	BinNum *int     `json:"bin_num,omitempty"`
}
