// Package templates renders the transactional emails sent by the worker.
package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

const DailyReminder = "daily_reminder"

type rendered struct {
	subject string
	text    *texttpl.Template
	html    *htmpl.Template
}

var registry = map[string]rendered{
	DailyReminder: {
		subject: "Don't forget your diary today",
		text: texttpl.Must(texttpl.New("reminder.txt").Parse(
			"Hi {{if .Name}}{{.Name}}{{else}}there{{end}},\n\n{{.Message}}\n\nOpen {{.AppName}}: {{.ClientURL}}\n")),
		html: htmpl.Must(htmpl.New("reminder.html").Parse(
			`<p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p><p>{{.Message}}</p><p><a href="{{.ClientURL}}">Open {{.AppName}}</a></p>`)),
	},
}

// Render returns subject, text and html bodies for a named template.
func Render(name string, data map[string]any) (string, string, string, error) {
	t, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	var tb, hb bytes.Buffer
	if err := t.text.Execute(&tb, data); err != nil {
		return "", "", "", err
	}
	if err := t.html.Execute(&hb, data); err != nil {
		return "", "", "", err
	}
	return t.subject, tb.String(), hb.String(), nil
}
