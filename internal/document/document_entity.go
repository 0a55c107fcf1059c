package document

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeOfferLetter       = "OFFER_LETTER"
	TypeExperienceLetter  = "EXPERIENCE_LETTER"
	TypeSalaryCertificate = "SALARY_CERTIFICATE"
	TypePayslip           = "PAYSLIP"
)

// GeneratedDocument is the ledger of every PDF the system produced, so HR
// can re-download without re-rendering.
type GeneratedDocument struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;index"`
	DocType      string    `gorm:"type:varchar(20);index"`
	ReferenceNo  string    `gorm:"uniqueIndex;type:varchar(30)"`
	FilePath     string
	GeneratedBy  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

func (GeneratedDocument) TableName() string { return "generated_documents" }
