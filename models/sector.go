package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sector groups industries by IndustryType. Count is denormalized and is kept
// in step with industry inserts inside the same transaction.
type Sector struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"                 json:"id"`
	SectorName string    `gorm:"column:sector_name;size:100;uniqueIndex;not null" json:"sector_name"`
	Count      int64     `gorm:"not null"                             json:"count"`
}

func (s *Sector) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// DefaultSectors are seeded on first start.
var DefaultSectors = []string{
	"Textile",
	"Chemical",
	"Pharmaceutical",
	"Food Processing",
	"Paper and Pulp",
	"Domestic",
}
