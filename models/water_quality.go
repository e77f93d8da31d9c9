package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// KitType tells which side of the treatment plant a kit samples.
type KitType string

const (
	KitIncoming KitType = "incoming"
	KitOutgoing KitType = "outgoing"
)

// ParseKitType matches case-insensitively.
func ParseKitType(s string) (KitType, bool) {
	switch KitType(strings.ToLower(strings.TrimSpace(s))) {
	case KitIncoming:
		return KitIncoming, true
	case KitOutgoing:
		return KitOutgoing, true
	}
	return "", false
}

// Parameter keys, in the order they are evaluated and charted.
const (
	ParamPH              = "ph"
	ParamTurbidity       = "turbidity"
	ParamTemperature     = "temperature"
	ParamTDS             = "tds"
	ParamDissolvedOxygen = "dissolved_oxygen"
)

var Parameters = []string{ParamPH, ParamTurbidity, ParamTemperature, ParamTDS, ParamDissolvedOxygen}

// WaterQualitySample is one kit measurement. Samples are never updated.
type WaterQualitySample struct {
	ID              uint64         `gorm:"primaryKey"                                                                 json:"id"`
	IndustryID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_water_quality_industry_measured,priority:1" json:"industry_id"`
	KitType         KitType        `gorm:"column:kit_type;size:20;not null"                                          json:"kit_type"`
	MeasuredAt      time.Time      `gorm:"not null;index:idx_water_quality_industry_measured,priority:2"           json:"measured_at"`
	PH              Reading        `gorm:"column:ph;type:text"                                                       json:"ph"`
	Turbidity       Reading        `gorm:"column:turbidity;type:text"                                                json:"turbidity"`
	Temperature     Reading        `gorm:"column:temperature;type:text"                                              json:"temperature"`
	TDS             Reading        `gorm:"column:tds;type:text"                                                      json:"tds"`
	DissolvedOxygen Reading        `gorm:"column:dissolved_oxygen;type:text"                                         json:"dissolved_oxygen"`
	Raw             datatypes.JSON `gorm:"type:jsonb"                                                                json:"raw,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"                                                            json:"created_at"`
}

func (WaterQualitySample) TableName() string {
	return "water_quality"
}

// Reading returns the stored value for a parameter key.
func (s *WaterQualitySample) Reading(param string) (Reading, bool) {
	switch param {
	case ParamPH:
		return s.PH, true
	case ParamTurbidity:
		return s.Turbidity, true
	case ParamTemperature:
		return s.Temperature, true
	case ParamTDS:
		return s.TDS, true
	case ParamDissolvedOxygen:
		return s.DissolvedOxygen, true
	}
	return "", false
}
