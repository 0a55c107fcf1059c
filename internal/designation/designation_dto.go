package designation

type CreateDesignationRequest struct {
	Title        string  `json:"title" binding:"required"`
	DepartmentID *string `json:"department_id"`
	Level        int     `json:"level" binding:"omitempty,min=1"`
}

type UpdateDesignationRequest struct {
	Title        string  `json:"title"`
	DepartmentID *string `json:"department_id"`
	Level        *int    `json:"level" binding:"omitempty,min=1"`
}

type DesignationResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	DepartmentID *string `json:"department_id,omitempty"`
	Level        int     `json:"level"`
}
