package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert records one threshold breach of one sample. WaterQualityMeasuredAt is
// a lookup key back to the sample, not a foreign key. idx_alerts_dedup makes
// (industry_code, parameter, water_quality_measured_at) unique.
type Alert struct {
	ID                     uint64    `gorm:"primaryKey"                                                   json:"id"`
	IndustryID             uuid.UUID `gorm:"type:uuid;index"                                              json:"industry_id"`
	IndustryCode           string    `gorm:"size:50;not null;uniqueIndex:idx_alerts_dedup,priority:1"     json:"industry_code"`
	IndustryName           string    `gorm:"size:200"                                                     json:"industry_name"`
	IndustryType           string    `gorm:"size:100;index"                                               json:"industry_type"`
	Parameter              string    `gorm:"size:100;not null;uniqueIndex:idx_alerts_dedup,priority:2"    json:"parameter"`
	CurrentValue           float64   `json:"current_value"`
	ThresholdValue         float64   `json:"threshold_value"`
	AlertDatetime          time.Time `gorm:"not null;index"                                               json:"alert_datetime"`
	WaterQualityMeasuredAt time.Time `gorm:"not null;uniqueIndex:idx_alerts_dedup,priority:3"             json:"water_quality_measured_at"`
}

func (Alert) TableName() string {
	return "alerts"
}
