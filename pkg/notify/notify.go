// Package notify delivers outbound email.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidMessage = errors.New("notify: invalid message")

// Message is the payload accepted by every Sender and by POST /emails.
type Message struct {
	To         string     `json:"to"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	IndustryID *uuid.UUID `json:"-"`
}

// Validate checks the recipient and subject.
func (m Message) Validate() error {
	to := strings.TrimSpace(m.To)
	if to == "" || !strings.Contains(to, "@") {
		return fmt.Errorf("%w: recipient %q", ErrInvalidMessage, m.To)
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: empty subject", ErrInvalidMessage)
	}
	return nil
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
