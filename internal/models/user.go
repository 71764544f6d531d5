package models

// User roles
const (
	RoleHomeowner = "homeowner"
	RoleDriver    = "driver"
	RoleManager   = "manager"
)

type User struct {
	ID          string  `json:"id" db:"id"`
	Email       string  `json:"email" db:"email"`
	Password    string  `json:"-" db:"password"` // Never return password in JSON
	Surname     string  `json:"surname" db:"surname"`
	Othernames  string  `json:"othernames" db:"othernames"`
	Phone       string  `json:"phone" db:"phone"`
	Role        string  `json:"role" db:"role"`
	IsSuspended bool    `json:"is_suspended" db:"is_suspended"`
	IsApproved  bool    `json:"is_approved" db:"is_approved"`
	PackageID   *string `json:"package_id,omitempty" db:"package_id"` // homeowners only
	CreatedAt   int64   `json:"created_at" db:"created_at"`
	UpdatedAt   int64   `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Surname     string  `json:"surname"`
	Othernames  string  `json:"othernames"`
	Phone       string  `json:"phone"`
	Role        string  `json:"role"`
	IsSuspended bool    `json:"is_suspended"`
	IsApproved  bool    `json:"is_approved"`
	PackageID   *string `json:"package_id,omitempty"`
	CreatedAt   int64   `json:"created_at"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Surname:     u.Surname,
		Othernames:  u.Othernames,
		Phone:       u.Phone,
		Role:        u.Role,
		IsSuspended: u.IsSuspended,
		IsApproved:  u.IsApproved,
		PackageID:   u.PackageID,
		CreatedAt:   u.CreatedAt,
	}
}

// RegisterHomeownerRequest is the request body for POST /api/homeowners
type RegisterHomeownerRequest struct {
	Surname    string `json:"surname"`
	Othernames string `json:"othernames"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
}

// CreateDriverRequest is the request body for POST /api/drivers (manager only).
// The driver's initial password is generated and mailed.
type CreateDriverRequest struct {
	Surname    string `json:"surname"`
	Othernames string `json:"othernames"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}
