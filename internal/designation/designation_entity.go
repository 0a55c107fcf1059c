package designation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Designation struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	Title        string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Level        int        `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Designation) TableName() string {
	return "designations"
}
