package models

// Bin categories
const (
	BinCategoryRecycling = "recycling"
	BinCategoryTrash     = "trash"
)

// Bin sizes (shared with packages)
const (
	BinSizeSmall  = "small"
	BinSizeMedium = "medium"
	BinSizeLarge  = "large"
)

// Bin fill statuses
const (
	BinStatusFull  = "full"
	BinStatusEmpty = "empty"
)

type Bin struct {
	ID          string  `json:"id" db:"id"`
	Category    string  `json:"category" db:"category"`
	Size        string  `json:"size" db:"size"`
	Status      string  `json:"status" db:"status"`
	Price       float64 `json:"price" db:"price"`
	HomeownerID *string `json:"homeowner_id,omitempty" db:"homeowner_id"` // nil = unassigned
	CreatedAt   int64   `json:"created_at" db:"created_at"`               // Unix timestamp
	UpdatedAt   int64   `json:"updated_at" db:"updated_at"`               // Unix timestamp
}

// CreateBinRequest is the request body for POST /api/bins
type CreateBinRequest struct {
	Category string  `json:"category"`
	Size     string  `json:"size"`
	Price    float64 `json:"price"`
}

// CreateBinsRequest is the request body for POST /api/bins/multiple
type CreateBinsRequest struct {
	Category string  `json:"category"`
	Size     string  `json:"size"`
	Price    float64 `json:"price"`
	Count    int     `json:"count"`
}

// BinStatusRequest selects which of the caller's bins to fill or empty.
// An empty BinIDs slice means all of the caller's bins.
type BinStatusRequest struct {
	BinIDs []string `json:"bin_ids"`
}

func ValidBinCategory(category string) bool {
	return category == BinCategoryRecycling || category == BinCategoryTrash
}

func ValidBinSize(size string) bool {
	return size == BinSizeSmall || size == BinSizeMedium || size == BinSizeLarge
}
