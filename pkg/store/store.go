// Package store is the gorm-backed data store.
package store

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate")
)

// Store groups the repositories over one database handle.
type Store struct {
	Industries *IndustryRepository
	Sectors    *SectorRepository
	Users      *UserRepository
	Samples    *SampleRepository
	Alerts     *AlertRepository
	Emails     *EmailRepository
}

func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{
		Industries: NewIndustryRepository(db, logger),
		Sectors:    NewSectorRepository(db, logger),
		Users:      NewUserRepository(db, logger),
		Samples:    NewSampleRepository(db, logger),
		Alerts:     NewAlertRepository(db, logger),
		Emails:     NewEmailRepository(db, logger),
	}
}

// translate maps gorm errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
