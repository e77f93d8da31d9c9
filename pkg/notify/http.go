package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// HTTPSender posts {to, subject, body} to a remote send-email endpoint.
type HTTPSender struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

func NewHTTPSender(url string, logger *zap.Logger) *HTTPSender {
	// single attempt; the next monitor tick is the retry
	client := resty.New().
		SetTimeout(15*time.Second).
		SetLogger(logger.Sugar()).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &HTTPSender{client: client, url: url, logger: logger}
}

type sendResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (s *HTTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	var out sendResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(&out).
		SetError(&out).
		Post(s.url)
	if err != nil {
		s.logger.Error("Notifier endpoint call failed", zap.String("url", s.url), zap.Error(err))
		return fmt.Errorf("notifier endpoint: %w", err)
	}
	if resp.IsError() {
		s.logger.Error("Notifier endpoint rejected message",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("error", out.Error),
		)
		return fmt.Errorf("notifier endpoint: status %d: %s", resp.StatusCode(), out.Error)
	}
	return nil
}
