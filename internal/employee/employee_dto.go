package employee

// All money fields are int64 paise on the wire as well as in storage.

type CompensationInput struct {
	AnnualCTC       int64 `json:"annual_ctc" binding:"required,gt=0"`
	MonthlyBasic    int64 `json:"monthly_basic" binding:"required,gt=0"`
	HRA             int64 `json:"hra" binding:"gte=0"`
	Conveyance      int64 `json:"conveyance" binding:"gte=0"`
	TelephoneAllow  int64 `json:"telephone_allowance" binding:"gte=0"`
	MedicalAllow    int64 `json:"medical_allowance" binding:"gte=0"`
	SpecialAllow    int64 `json:"special_allowance" binding:"gte=0"`
	IncludePF       bool  `json:"include_pf"`
	IncludeESI      bool  `json:"include_esi"`
	ProfessionalTax int64 `json:"professional_tax" binding:"gte=0"`
	TDS             int64 `json:"tds" binding:"gte=0"`
}

type CreateEmployeeRequest struct {
	EmployeeCode  string `json:"employee_code"`
	FullName      string `json:"full_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone"`
	DepartmentID  string `json:"department_id"`
	DesignationID string `json:"designation_id"`
	JoinDate      string `json:"join_date" binding:"required"`
	Status        string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`

	Compensation CompensationInput `json:"compensation" binding:"required"`

	BankAccountNumber string `json:"bank_account_number"`
	BankIFSC          string `json:"bank_ifsc"`
	PAN               string `json:"pan"`
}

type UpdateEmployeeRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
	DepartmentID  string `json:"department_id"`
	DesignationID string `json:"designation_id"`
	JoinDate      string `json:"join_date"`
	Status        string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`

	Compensation *CompensationInput `json:"compensation"`

	BankAccountNumber string `json:"bank_account_number"`
	BankIFSC          string `json:"bank_ifsc"`
	PAN               string `json:"pan"`
}

type EmployeeDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmployeeDesignationResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type CompensationResponse struct {
	AnnualCTC       int64 `json:"annual_ctc"`
	MonthlyBasic    int64 `json:"monthly_basic"`
	HRA             int64 `json:"hra"`
	Conveyance      int64 `json:"conveyance"`
	TelephoneAllow  int64 `json:"telephone_allowance"`
	MedicalAllow    int64 `json:"medical_allowance"`
	SpecialAllow    int64 `json:"special_allowance"`
	IncludePF       bool  `json:"include_pf"`
	IncludeESI      bool  `json:"include_esi"`
	ProfessionalTax int64 `json:"professional_tax"`
	TDS             int64 `json:"tds"`
}

type EmployeeResponse struct {
	ID            string `json:"id"`
	EmployeeCode  string `json:"employee_code"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	DepartmentID  string `json:"department_id,omitempty"`
	DesignationID string `json:"designation_id,omitempty"`
	JoinDate      string `json:"join_date"`
	Status        string `json:"status"`

	Compensation CompensationResponse `json:"compensation"`

	BankAccountNumber string `json:"bank_account_number,omitempty"`
	BankIFSC          string `json:"bank_ifsc,omitempty"`
	PAN               string `json:"pan,omitempty"`

	Department  *EmployeeDepartmentResponse  `json:"department,omitempty"`
	Designation *EmployeeDesignationResponse `json:"designation,omitempty"`
}
