package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Industry is a registered effluent-producing facility. IndustryType holds the
// name of the Sector it belongs to.
type Industry struct {
	ID                                uuid.UUID      `gorm:"type:uuid;primaryKey"                           json:"id"`
	Name                              string         `gorm:"size:200;not null"                              json:"name"`
	IndustryCode                      string         `gorm:"column:industry_code;size:50;uniqueIndex;not null" json:"industry_code"`
	IndustryType                      string         `gorm:"column:industry_type;size:100;index;not null"   json:"industry_type"`
	IndustrySize                      string         `gorm:"column:industry_size;size:20"                   json:"industry_size,omitempty"`
	OwnerID                           *uuid.UUID     `gorm:"type:uuid;index"                                json:"owner_id,omitempty"`
	Location                          string         `gorm:"size:255"                                       json:"location"`
	Latitude                          *float64       `json:"latitude,omitempty"`
	Longitude                         *float64       `json:"longitude,omitempty"`
	PhoneNumber                       string         `gorm:"column:phone_number;size:20"                    json:"phone_number"`
	Description                       string         `gorm:"type:text"                                      json:"description,omitempty"`
	RegistrationNumber                string         `gorm:"size:100"                                       json:"registration_number,omitempty"`
	WaterSource                       string         `gorm:"size:100"                                       json:"water_source,omitempty"`
	DailyWaterConsumption             *float64       `json:"daily_water_consumption,omitempty"`
	WastewaterGeneration              *float64       `json:"wastewater_generation,omitempty"`
	WastewaterTreatmentMethods        datatypes.JSON `gorm:"type:jsonb"                                     json:"wastewater_treatment_methods,omitempty"`
	TreatedWaterReuse                 string         `gorm:"size:100"                                       json:"treated_water_reuse,omitempty"`
	DischargePoints                   datatypes.JSON `gorm:"type:jsonb"                                     json:"discharge_points,omitempty"`
	EnvironmentalClearanceCertificate bool           `gorm:"not null"                                      json:"environmental_clearance_certificate"`
	PCBApprovalStatus                 string         `gorm:"column:pcb_approval_status;size:50"             json:"pcb_approval_status,omitempty"`
	LastEnvironmentalAuditDate        *JSONTime      `gorm:"type:date"                                      json:"last_environmental_audit_date,omitempty"`
	ViolationsReported                string         `gorm:"type:text"                                      json:"violations_reported,omitempty"`
	FineOrLegalActionsTaken           string         `gorm:"type:text"                                      json:"fine_or_legal_actions_taken,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *Industry) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// HasCoordinates reports whether both latitude and longitude were provided.
func (i *Industry) HasCoordinates() bool {
	return i.Latitude != nil && i.Longitude != nil
}
