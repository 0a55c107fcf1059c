package user

type CreateUserRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	Role       string  `json:"role" binding:"required,oneof=ADMIN HR STAFF"`
	EmployeeID *string `json:"employee_id"`
}

type UpdateUserRequest struct {
	Name     string  `json:"name"`
	Role     string  `json:"role" binding:"omitempty,oneof=ADMIN HR STAFF"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

type UserResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	EmployeeID *string `json:"employee_id,omitempty"`
	IsActive   bool    `json:"is_active"`
}
