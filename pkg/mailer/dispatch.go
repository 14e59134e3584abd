package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oksasatya/go-ddd-diary/pkg/mailer/templates"
)

// ErrBadJob marks a job that can never be delivered; it should not be requeued.
var ErrBadJob = errors.New("bad email job")

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Dispatcher turns queued EmailJob payloads into sent emails.
type Dispatcher struct {
	Sender Sender
	// Defaults are merged into template data when the job does not set them
	// (AppName, ClientURL).
	Defaults    map[string]any
	SendTimeout time.Duration
}

// Handle decodes, renders and sends a single job.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if err := job.validate(); err != nil {
		return err
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		data := make(map[string]any, len(d.Defaults)+len(job.Data))
		for k, v := range d.Defaults {
			data[k] = v
		}
		for k, v := range job.Data {
			data[k] = v
		}
		s, t, h, err := templates.Render(job.Template, data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadJob, err)
		}
		subject, text, html = s, t, h
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty message", ErrBadJob)
	}

	if d.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.SendTimeout)
		defer cancel()
	}
	return d.Sender.Send(ctx, job.To, subject, text, html)
}
