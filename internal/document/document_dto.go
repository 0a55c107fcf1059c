package document

type GenerateLetterRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	DocType    string `json:"doc_type" binding:"required,oneof=OFFER_LETTER EXPERIENCE_LETTER SALARY_CERTIFICATE"`
}

type DocumentResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	DocType     string `json:"doc_type"`
	ReferenceNo string `json:"reference_no"`
	FilePath    string `json:"file_path"`
	CreatedAt   string `json:"created_at"`
}
