package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/store"
)

type IndustryGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Industry, error)
}

type UserGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type SampleLister interface {
	ListForIndustry(ctx context.Context, industryID uuid.UUID, f store.SampleFilter) ([]models.WaterQualitySample, error)
}

type AlertLister interface {
	List(ctx context.Context, f store.AlertFilter) ([]models.Alert, error)
}

// Report is a rendered workbook.
type Report struct {
	Filename string
	Title    string
	Location string
	Content  []byte
}

type Generator struct {
	industries IndustryGetter
	users      UserGetter
	samples    SampleLister
	alerts     AlertLister
	archive    Archive
	logger     *zap.Logger
	now        func() time.Time
}

// NewGenerator builds a generator. archive may be nil.
func NewGenerator(industries IndustryGetter, users UserGetter, samples SampleLister, alerts AlertLister, archive Archive, logger *zap.Logger) *Generator {
	return &Generator{
		industries: industries,
		users:      users,
		samples:    samples,
		alerts:     alerts,
		archive:    archive,
		logger:     logger,
		now:        time.Now,
	}
}

// Generate renders the report for one industry and archives a copy. An
// archive failure is logged and the report is still returned.
func (g *Generator) Generate(ctx context.Context, industryID uuid.UUID, period Period, day time.Time) (*Report, error) {
	ind, err := g.industries.Get(ctx, industryID)
	if err != nil {
		return nil, err
	}

	now := g.now().UTC()
	from, to := period.Window(now, day)
	d := Data{
		Period:      period,
		Day:         day,
		From:        from,
		To:          to,
		GeneratedAt: now,
		Industry:    *ind,
	}
	if ind.OwnerID != nil {
		owner, err := g.users.Get(ctx, *ind.OwnerID)
		switch {
		case err == nil:
			d.OwnerEmail = owner.Email
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}
	if d.Samples, err = g.samples.ListForIndustry(ctx, ind.ID, store.SampleFilter{Since: from, Until: to}); err != nil {
		return nil, err
	}
	if d.Alerts, err = g.alerts.List(ctx, store.AlertFilter{IndustryCode: ind.IndustryCode, Since: from, Until: to}); err != nil {
		return nil, err
	}

	f, err := Build(d)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	rep := &Report{
		Title:    period.Title(),
		Filename: fmt.Sprintf("%s-%s-%s.xlsx", ind.IndustryCode, strings.ReplaceAll(strings.ToLower(period.Title()), " ", "-"), now.Format("20060102-150405")),
		Content:  buf.Bytes(),
	}
	if g.archive != nil {
		loc, err := g.archive.Put(ctx, rep.Filename, rep.Content)
		if err != nil {
			g.logger.Warn("Report archive failed", zap.String("file", rep.Filename), zap.Error(err))
		} else {
			rep.Location = loc
		}
	}
	g.logger.Info("Report generated",
		zap.String("industry_code", ind.IndustryCode),
		zap.String("period", string(period)),
		zap.Int("samples", len(d.Samples)),
		zap.Int("alerts", len(d.Alerts)),
	)
	return rep, nil
}
