// Package alerting turns threshold breaches into stored alerts and warning
// emails. It holds no package state; every collaborator is injected.
package alerting

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"p9e.in/riverai/models"
)

var ErrMissingContact = errors.New("alerting: industry or owner contact missing")

// AlertStore is the alerts table.
type AlertStore interface {
	Exists(ctx context.Context, industryCode, parameter string, measuredAt time.Time) (bool, error)
	InsertIfAbsent(ctx context.Context, a *models.Alert) (bool, error)
}

// IndustryStore is the industries table.
type IndustryStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Industry, error)
	List(ctx context.Context) ([]models.Industry, error)
}

// SampleStore returns the latest sample of an industry, or store.ErrNotFound.
type SampleStore interface {
	Latest(ctx context.Context, industryID uuid.UUID) (*models.WaterQualitySample, error)
}

// UserStore resolves industry owners.
type UserStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
}

