package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/metrics"
)

// EmailLog persists sent-email audit rows.
type EmailLog interface {
	Create(ctx context.Context, e *models.SentEmail) error
}

// AuditedSender records every delivery attempt in email_sent. A failed audit
// write is logged and does not change the send result.
type AuditedSender struct {
	next   Sender
	log    EmailLog
	logger *zap.Logger
	now    func() time.Time
}

func NewAuditedSender(next Sender, log EmailLog, logger *zap.Logger) *AuditedSender {
	return &AuditedSender{next: next, log: log, logger: logger, now: time.Now}
}

func (a *AuditedSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	sendErr := a.next.Send(ctx, msg)

	row := &models.SentEmail{
		Recipient:  msg.To,
		Subject:    msg.Subject,
		Content:    msg.Body,
		IndustryID: msg.IndustryID,
		Status:     models.EmailStatusSent,
		SentAt:     a.now().UTC(),
	}
	if sendErr != nil {
		row.Status = models.EmailStatusFailed
		row.Error = sendErr.Error()
	}
	metrics.NotificationsTotal.WithLabelValues(row.Status).Inc()

	if err := a.log.Create(ctx, row); err != nil {
		a.logger.Warn("Failed to record sent email",
			zap.String("to", msg.To),
			zap.String("status", row.Status),
			zap.Error(err),
		)
	}
	return sendErr
}
