package alerting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/notify"
	"p9e.in/riverai/pkg/store"
	"p9e.in/riverai/pkg/threshold"
)

const (
	ReasonNoSamples        = "no samples"
	ReasonWithinThresholds = "within thresholds"
)

// WarningResult describes what a warning attempt did. Sent is false with a
// Reason when there was nothing to warn about.
type WarningResult struct {
	Sent      bool                       `json:"sent"`
	Reason    string                     `json:"reason,omitempty"`
	Recipient string                     `json:"recipient,omitempty"`
	Subject   string                     `json:"subject,omitempty"`
	Breaches  []threshold.Breach         `json:"breaches,omitempty"`
	Sample    *models.WaterQualitySample `json:"sample,omitempty"`
}

// Warner emails an industry owner about the breaches in its latest sample.
type Warner struct {
	industries IndustryStore
	users      UserStore
	samples    SampleStore
	sender     notify.Sender
	logger     *zap.Logger
}

func NewWarner(industries IndustryStore, users UserStore, samples SampleStore, sender notify.Sender, logger *zap.Logger) *Warner {
	return &Warner{
		industries: industries,
		users:      users,
		samples:    samples,
		sender:     sender,
		logger:     logger,
	}
}

// SendWarning resolves the industry and its owner, evaluates the latest
// sample against the full rule table and sends the warning template when
// anything breached. No samples or no breach is not an error.
func (w *Warner) SendWarning(ctx context.Context, industryID uuid.UUID) (WarningResult, error) {
	ind, err := w.industries.Get(ctx, industryID)
	if errors.Is(err, store.ErrNotFound) {
		return WarningResult{}, fmt.Errorf("%w: industry %s", ErrMissingContact, industryID)
	}
	if err != nil {
		return WarningResult{}, err
	}
	to, err := w.ownerEmail(ctx, ind)
	if err != nil {
		return WarningResult{}, err
	}

	sample, err := w.samples.Latest(ctx, ind.ID)
	if errors.Is(err, store.ErrNotFound) {
		w.logger.Info("No samples, warning skipped", zap.String("industry_code", ind.IndustryCode))
		return WarningResult{Reason: ReasonNoSamples}, nil
	}
	if err != nil {
		return WarningResult{}, err
	}

	breaches := threshold.Evaluate(sample)
	if len(breaches) == 0 {
		w.logger.Info("No parameter exceeded safe thresholds, warning skipped",
			zap.String("industry_code", ind.IndustryCode))
		return WarningResult{Reason: ReasonWithinThresholds, Sample: sample}, nil
	}

	msg := ComposeWarning(ind, to, breaches)
	res := WarningResult{Recipient: to, Subject: msg.Subject, Breaches: breaches, Sample: sample}
	if err := w.sender.Send(ctx, msg); err != nil {
		return res, fmt.Errorf("send warning to %s: %w", to, err)
	}
	res.Sent = true
	w.logger.Info("Warning email sent",
		zap.String("industry_code", ind.IndustryCode),
		zap.String("to", to),
		zap.Int("breaches", len(breaches)),
	)
	return res, nil
}

// NotifyBreaches sends the warning template for breaches already evaluated,
// as the monitor does after recording new alerts.
func (w *Warner) NotifyBreaches(ctx context.Context, ind *models.Industry, breaches []threshold.Breach) error {
	if len(breaches) == 0 {
		return nil
	}
	to, err := w.ownerEmail(ctx, ind)
	if err != nil {
		return err
	}
	return w.sender.Send(ctx, ComposeWarning(ind, to, breaches))
}

func (w *Warner) ownerEmail(ctx context.Context, ind *models.Industry) (string, error) {
	if ind.OwnerID == nil {
		return "", fmt.Errorf("%w: industry %s has no owner", ErrMissingContact, ind.IndustryCode)
	}
	owner, err := w.users.Get(ctx, *ind.OwnerID)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("%w: owner of %s not found", ErrMissingContact, ind.IndustryCode)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(owner.Email) == "" {
		return "", fmt.Errorf("%w: owner of %s has no email", ErrMissingContact, ind.IndustryCode)
	}
	return owner.Email, nil
}

// ComposeWarning renders the fixed warning template.
func ComposeWarning(ind *models.Industry, to string, breaches []threshold.Breach) notify.Message {
	lines := make([]string, len(breaches))
	for i, b := range breaches {
		lines[i] = b.Line()
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s Team,\n\n", ind.Name)
	body.WriteString("Our monitoring system, River AI, has detected the following water quality parameter(s) exceeding safe thresholds:\n\n")
	body.WriteString(strings.Join(lines, "\n"))
	body.WriteString("\n\n")
	body.WriteString("This may indicate potential contamination risks. Kindly review the details and take corrective actions as necessary.\n\n")
	body.WriteString("Best Regards,\n")
	body.WriteString("River AI Monitoring Team")

	id := ind.ID
	return notify.Message{
		To:         to,
		Subject:    "Urgent: Water Quality Alert for " + ind.Name,
		Body:       body.String(),
		IndustryID: &id,
	}
}
