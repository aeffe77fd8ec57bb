package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/candidhq/intake/internal/core/domain"
)

type mailData struct {
	App      *domain.Application
	Previous domain.ApplicationStatus
}

var receivedTemplate = template.Must(template.New("received").Parse(`
<p>Hi {{.App.FullName}},</p>
<p>We received your application for <strong>{{.App.Position}}</strong>.
Our team will review it and get back to you.</p>
<p>Reference: {{.App.ID}}</p>
`))

var statusTemplate = template.Must(template.New("status").Parse(`
<p>Hi {{.App.FullName}},</p>
<p>Your application for <strong>{{.App.Position}}</strong> moved from
<em>{{.Previous}}</em> to <em>{{.App.Status}}</em>.</p>
<p>Reference: {{.App.ID}}</p>
`))

func render(t *template.Template, app *domain.Application, previous domain.ApplicationStatus) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, mailData{App: app, Previous: previous}); err != nil {
		return "", fmt.Errorf("failed to render mail template: %w", err)
	}
	return buf.String(), nil
}
