// Package ingest turns kit readings into stored water quality samples.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/metrics"
)

var (
	ErrBadTopic   = errors.New("ingest: topic is not riverai/kits/<industry_code>/<kit_type>")
	ErrBadKitType = errors.New("ingest: kit type must be incoming or outgoing")
	ErrBadPayload = errors.New("ingest: malformed payload")
)

// Payload is one kit reading. Readings may be numbers, strings or null.
type Payload struct {
	MeasuredAt      *models.JSONTime `json:"measured_at"`
	KitType         string           `json:"kit_type,omitempty"`
	PH              models.Reading   `json:"ph"`
	Turbidity       models.Reading   `json:"turbidity"`
	Temperature     models.Reading   `json:"temperature"`
	TDS             models.Reading   `json:"tds"`
	DissolvedOxygen models.Reading   `json:"dissolved_oxygen"`
}

// ParseTopic splits riverai/kits/<industry_code>/<kit_type>.
func ParseTopic(topic string) (code string, kit models.KitType, err error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "riverai" || parts[1] != "kits" || parts[2] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadTopic, topic)
	}
	kit, ok := models.ParseKitType(parts[3])
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrBadKitType, parts[3])
	}
	return parts[2], kit, nil
}

// BuildSample decodes a payload for an industry. kit may be empty when the
// payload names its own kit_type. A missing measured_at means now.
func BuildSample(industryID uuid.UUID, kit models.KitType, body []byte, now time.Time) (*models.WaterQualitySample, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if kit == "" {
		k, ok := models.ParseKitType(p.KitType)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadKitType, p.KitType)
		}
		kit = k
	}
	measuredAt := now
	if p.MeasuredAt != nil && !p.MeasuredAt.Time().IsZero() {
		measuredAt = p.MeasuredAt.Time()
	}
	return &models.WaterQualitySample{
		IndustryID:      industryID,
		KitType:         kit,
		MeasuredAt:      measuredAt.UTC(),
		PH:              p.PH,
		Turbidity:       p.Turbidity,
		Temperature:     p.Temperature,
		TDS:             p.TDS,
		DissolvedOxygen: p.DissolvedOxygen,
		Raw:             datatypes.JSON(body),
	}, nil
}

// IndustryLookup resolves the industry code in a topic.
type IndustryLookup interface {
	GetByCode(ctx context.Context, code string) (*models.Industry, error)
}

// SampleWriter stores samples.
type SampleWriter interface {
	Create(ctx context.Context, s *models.WaterQualitySample) error
}

// Ingester validates and stores kit messages.
type Ingester struct {
	industries IndustryLookup
	samples    SampleWriter
	logger     *zap.Logger
	now        func() time.Time
}

func NewIngester(industries IndustryLookup, samples SampleWriter, logger *zap.Logger) *Ingester {
	return &Ingester{industries: industries, samples: samples, logger: logger, now: time.Now}
}

// HandleMessage stores one MQTT message. Bad messages are returned as errors
// for the caller to log; nothing is retried.
func (in *Ingester) HandleMessage(ctx context.Context, topic string, body []byte) error {
	code, kit, err := ParseTopic(topic)
	if err != nil {
		metrics.IngestRejected.WithLabelValues("topic").Inc()
		return err
	}
	ind, err := in.industries.GetByCode(ctx, code)
	if err != nil {
		metrics.IngestRejected.WithLabelValues("industry").Inc()
		return fmt.Errorf("industry %q: %w", code, err)
	}
	sample, err := BuildSample(ind.ID, kit, body, in.now())
	if err != nil {
		metrics.IngestRejected.WithLabelValues("payload").Inc()
		return err
	}
	return in.Store(ctx, sample, "mqtt")
}

// Store writes a built sample and counts it under source.
func (in *Ingester) Store(ctx context.Context, sample *models.WaterQualitySample, source string) error {
	if err := in.samples.Create(ctx, sample); err != nil {
		return err
	}
	metrics.SamplesIngested.WithLabelValues(source).Inc()
	in.logger.Debug("Sample stored",
		zap.String("industry_id", sample.IndustryID.String()),
		zap.String("kit_type", string(sample.KitType)),
		zap.Time("measured_at", sample.MeasuredAt),
		zap.String("source", source),
	)
	return nil
}
