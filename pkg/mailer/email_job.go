package mailer

import (
	"fmt"

	"github.com/oksasatya/go-ddd-diary/pkg/mailer/templates"
)

// EmailJob is the queued payload consumed by cmd/email_worker. A job either
// names a Template rendered with Data or carries a literal Subject and body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// ReminderJob builds the daily "you didn't write today" email for one user.
func ReminderJob(to, name, day, message string) EmailJob {
	return EmailJob{
		To:       to,
		Template: templates.DailyReminder,
		Data:     map[string]any{"Name": name, "Date": day, "Message": message},
	}
}

func (j EmailJob) validate() error {
	if j.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}
	if j.Template == "" && (j.Subject == "" || (j.Text == "" && j.HTML == "")) {
		return fmt.Errorf("%w: empty message", ErrBadJob)
	}
	return nil
}
