package dto

type CreateUserRequest struct {
	Username string  `json:"username"  validate:"required,min=3"`
	Password string  `json:"password"  validate:"required,min=6"`
	FullName string  `json:"full_name" validate:"required"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Role     string  `json:"role"      validate:"omitempty,oneof=admin manager cashier"`
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role"  validate:"omitempty,oneof=admin manager cashier"`
	Active   *bool   `json:"is_active"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	Active    bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
}
