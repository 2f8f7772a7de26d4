package dto

// UserListRequest filters admin user listings.
type UserListRequest struct {
	Role   string `validate:"omitempty,oneof=student teacher admin"`
	Search string
}

// UserUpdateRequest carries a partial admin update of an account.
type UserUpdateRequest struct {
	Role     *string `json:"role" validate:"omitempty,oneof=student teacher admin"`
	IsActive *bool   `json:"isActive"`
}
