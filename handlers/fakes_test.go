package handlers

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/alerting"
	"p9e.in/riverai/pkg/notify"
	"p9e.in/riverai/pkg/reports"
	"p9e.in/riverai/pkg/store"
)

var errBoom = errors.New("boom")

type fakeIndustries struct {
	byID    map[uuid.UUID]models.Industry
	listErr error
}

func newFakeIndustries(inds ...models.Industry) *fakeIndustries {
	f := &fakeIndustries{byID: map[uuid.UUID]models.Industry{}}
	for _, ind := range inds {
		f.byID[ind.ID] = ind
	}
	return f
}

func (f *fakeIndustries) Create(_ context.Context, ind *models.Industry) error {
	for _, existing := range f.byID {
		if existing.IndustryCode == ind.IndustryCode {
			return store.ErrDuplicate
		}
	}
	if ind.ID == uuid.Nil {
		ind.ID = uuid.New()
	}
	f.byID[ind.ID] = *ind
	return nil
}

func (f *fakeIndustries) Update(_ context.Context, ind *models.Industry) error {
	if _, ok := f.byID[ind.ID]; !ok {
		return store.ErrNotFound
	}
	f.byID[ind.ID] = *ind
	return nil
}

func (f *fakeIndustries) Get(_ context.Context, id uuid.UUID) (*models.Industry, error) {
	ind, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &ind, nil
}

func (f *fakeIndustries) all() []models.Industry {
	out := make([]models.Industry, 0, len(f.byID))
	for _, ind := range f.byID {
		out = append(out, ind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeIndustries) List(context.Context) ([]models.Industry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.all(), nil
}

func (f *fakeIndustries) ListBySector(_ context.Context, name string) ([]models.Industry, error) {
	var out []models.Industry
	for _, ind := range f.all() {
		if ind.IndustryType == name {
			out = append(out, ind)
		}
	}
	return out, nil
}

func (f *fakeIndustries) ListForOwner(_ context.Context, owner uuid.UUID) ([]models.Industry, error) {
	var out []models.Industry
	for _, ind := range f.all() {
		if ind.OwnerID != nil && *ind.OwnerID == owner {
			out = append(out, ind)
		}
	}
	return out, nil
}

type fakeSectors struct {
	sectors []models.Sector
	err     error
}

func (f *fakeSectors) List(context.Context) ([]models.Sector, error) {
	return f.sectors, f.err
}

func (f *fakeSectors) Get(_ context.Context, id uuid.UUID) (*models.Sector, error) {
	for _, s := range f.sectors {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeSectors) Counts(context.Context) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]int64{}
	for _, s := range f.sectors {
		out[s.SectorName] = s.Count
	}
	return out, nil
}

func (f *fakeSectors) Reconcile(ctx context.Context) (map[string]int64, error) {
	return f.Counts(ctx)
}

type fakeUsers struct {
	byID map[uuid.UUID]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[uuid.UUID]models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	u.ID = uuid.New()
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) List(_ context.Context, role string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.byID {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) SetVerification(_ context.Context, id uuid.UUID, v bool) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Verification = v
	f.byID[id] = u
	return &u, nil
}

type fakeSamples struct {
	samples []models.WaterQualitySample
	filters []store.SampleFilter
}

func (f *fakeSamples) ListForIndustry(_ context.Context, id uuid.UUID, sf store.SampleFilter) ([]models.WaterQualitySample, error) {
	f.filters = append(f.filters, sf)
	var out []models.WaterQualitySample
	for _, s := range f.samples {
		if s.IndustryID != id {
			continue
		}
		if sf.Kit != "" && s.KitType != sf.Kit {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type fakeAlerts struct {
	alerts  []models.Alert
	filters []store.AlertFilter
	err     error
}

func (f *fakeAlerts) List(_ context.Context, af store.AlertFilter) ([]models.Alert, error) {
	f.filters = append(f.filters, af)
	return f.alerts, f.err
}

type fakeEmails struct {
	emails []models.SentEmail
	limit  int
}

func (f *fakeEmails) List(_ context.Context, limit int) ([]models.SentEmail, error) {
	f.limit = limit
	return f.emails, nil
}

type fakeChecker struct {
	alerts []models.Alert
	called []uuid.UUID
}

func (f *fakeChecker) CheckIndustry(_ context.Context, id uuid.UUID) ([]models.Alert, error) {
	f.called = append(f.called, id)
	return f.alerts, nil
}

type fakeWarner struct {
	res alerting.WarningResult
	err error
}

func (f *fakeWarner) SendWarning(context.Context, uuid.UUID) (alerting.WarningResult, error) {
	return f.res, f.err
}

type fakeRecorder struct {
	stored  []models.WaterQualitySample
	sources []string
}

func (f *fakeRecorder) Store(_ context.Context, s *models.WaterQualitySample, source string) error {
	f.stored = append(f.stored, *s)
	f.sources = append(f.sources, source)
	return nil
}

type fakeSender struct {
	sent []notify.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg notify.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeReports struct {
	period reports.Period
	day    time.Time
}

func (f *fakeReports) Generate(_ context.Context, _ uuid.UUID, p reports.Period, day time.Time) (*reports.Report, error) {
	f.period, f.day = p, day
	return &reports.Report{
		Filename: "IND-1-daily-report-20250301-120000.xlsx",
		Title:    p.Title(),
		Location: "archive/IND-1-daily-report-20250301-120000.xlsx",
		Content:  []byte("PK"),
	}, nil
}
