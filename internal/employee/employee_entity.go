package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Employee carries both the HR profile and the fixed monthly compensation
// structure the payroll pipeline reads. All money fields are in paise.
type Employee struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeCode  string     `gorm:"uniqueIndex;type:varchar(20)"`
	FullName      string     `gorm:"not null"`
	Email         string     `gorm:"uniqueIndex"`
	Phone         string     `gorm:"type:varchar(20)"`
	DepartmentID  *uuid.UUID `gorm:"type:uuid"`
	DesignationID *uuid.UUID `gorm:"type:uuid"`
	JoinDate      time.Time  `gorm:"type:date"`
	Status        string     `gorm:"type:varchar(10);default:'ACTIVE';index"`

	AnnualCTC         int64 `gorm:"not null"`
	MonthlyBasic      int64 `gorm:"not null"`
	HRA               int64
	Conveyance        int64
	TelephoneAllow    int64
	MedicalAllow      int64
	SpecialAllow      int64
	IncludePF         bool  `gorm:"default:true"`
	IncludeESI        bool  `gorm:"default:false"`
	ProfessionalTax   int64 // flat monthly amount
	TDS               int64 // flat monthly amount
	BankAccountNumber string
	BankIFSC          string `gorm:"type:varchar(15)"`
	PAN               string `gorm:"type:varchar(12)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Department  *EmployeeDepartmentRef  `gorm:"foreignKey:DepartmentID"`
	Designation *EmployeeDesignationRef `gorm:"foreignKey:DesignationID"`
}

// Local read-only refs so this module does not import department/designation.
type EmployeeDepartmentRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

func (EmployeeDepartmentRef) TableName() string { return "departments" }

type EmployeeDesignationRef struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title string
}

func (EmployeeDesignationRef) TableName() string { return "designations" }
