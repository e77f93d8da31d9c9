package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// SentEmail is the audit trail of outbound mail. It is independent of alerts.
type SentEmail struct {
	ID         uint64     `gorm:"primaryKey"               json:"id"`
	Recipient  string     `gorm:"size:255;not null;index"  json:"to"`
	Subject    string     `gorm:"size:500;not null"        json:"subject"`
	Content    string     `gorm:"type:text"                json:"content"`
	IndustryID *uuid.UUID `gorm:"type:uuid;index"          json:"industry_id,omitempty"`
	Status     string     `gorm:"size:20;default:'sent'"   json:"status"`
	Error      string     `gorm:"type:text"                json:"error,omitempty"`
	SentAt     time.Time  `gorm:"not null;index"           json:"sent_at"`
}

func (SentEmail) TableName() string {
	return "email_sent"
}
