package mailer

import (
	"context"
	"fmt"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun delivers reminder emails through the Mailgun HTTP API.
type Mailgun struct {
	client *mg.MailgunImpl
	sender string
	tag    string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), sender: sender, tag: "diary-reminder"}
}

// WithAPIBase points the client at another endpoint, e.g. the EU region or a
// test server. base must include the version segment ("…/v3").
func (m *Mailgun) WithAPIBase(base string) *Mailgun {
	m.client.SetAPIBase(base)
	return m
}

func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	if m.tag != "" {
		if err := msg.AddTag(m.tag); err != nil {
			return fmt.Errorf("mailgun tag: %w", err)
		}
	}
	if _, _, err := m.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	return nil
}
