package alerting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/notify"
	"p9e.in/riverai/pkg/store"
)

type memAlerts struct {
	mu   sync.Mutex
	rows map[string]models.Alert
	// existsLies makes Exists always miss so the insert path has to dedup.
	existsLies bool
	err        error
}

func newMemAlerts() *memAlerts {
	return &memAlerts{rows: map[string]models.Alert{}}
}

func alertKey(code, param string, at time.Time) string {
	return fmt.Sprintf("%s|%s|%d", code, param, at.UnixNano())
}

func (m *memAlerts) Exists(_ context.Context, code, param string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if m.existsLies {
		return false, nil
	}
	_, ok := m.rows[alertKey(code, param, at)]
	return ok, nil
}

func (m *memAlerts) InsertIfAbsent(_ context.Context, a *models.Alert) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	k := alertKey(a.IndustryCode, a.Parameter, a.WaterQualityMeasuredAt)
	if _, ok := m.rows[k]; ok {
		return false, nil
	}
	a.ID = uint64(len(m.rows) + 1)
	m.rows[k] = *a
	return true, nil
}

func (m *memAlerts) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type memIndustries struct {
	list []models.Industry
	err  error
}

func (m *memIndustries) Get(_ context.Context, id uuid.UUID) (*models.Industry, error) {
	for i := range m.list {
		if m.list[i].ID == id {
			ind := m.list[i]
			return &ind, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memIndustries) List(context.Context) ([]models.Industry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.Industry(nil), m.list...), nil
}

type memSamples struct {
	latest map[uuid.UUID]models.WaterQualitySample
	err    error
}

func (m *memSamples) Latest(_ context.Context, id uuid.UUID) (*models.WaterQualitySample, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.latest[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

type memUsers map[uuid.UUID]models.User

func (m memUsers) Get(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

type denyLease struct{}

func (denyLease) Acquire(context.Context, string, time.Duration) (bool, error) {
	return false, nil
}

// fixture is one owned industry with a sample store ready for tests.
type fixture struct {
	owner      models.User
	industry   models.Industry
	industries *memIndustries
	samples    *memSamples
	users      memUsers
	alerts     *memAlerts
	sender     *recordingSender
}

func newFixture() *fixture {
	ownerID := uuid.New()
	ind := models.Industry{
		ID:           uuid.New(),
		Name:         "Blue Dye Works",
		IndustryCode: "TX-001",
		IndustryType: "Textile",
		OwnerID:      &ownerID,
	}
	owner := models.User{ID: ownerID, Email: "owner@bluedye.in", Role: models.RoleIndustryOwner}
	return &fixture{
		owner:      owner,
		industry:   ind,
		industries: &memIndustries{list: []models.Industry{ind}},
		samples:    &memSamples{latest: map[uuid.UUID]models.WaterQualitySample{}},
		users:      memUsers{ownerID: owner},
		alerts:     newMemAlerts(),
		sender:     &recordingSender{},
	}
}

func (f *fixture) setLatest(s models.WaterQualitySample) {
	s.IndustryID = f.industry.ID
	f.samples.latest[f.industry.ID] = s
}
