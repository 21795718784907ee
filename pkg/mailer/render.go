package mailer

import (
	"errors"

	"github.com/oksasatya/lingo-social/pkg/mailer/templates"
)

// Compose turns a job into subject/text/html, rendering its template when set.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", errors.New("email job without recipient")
	}
	if job.Template != "" {
		return templates.Render(job.Template, job.Data)
	}
	if job.Subject == "" || (job.Text == "" && job.HTML == "") {
		return "", "", "", errors.New("email job needs a template or a subject with text/html")
	}
	return job.Subject, job.Text, job.HTML, nil
}
