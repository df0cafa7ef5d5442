// Package worker holds the queue consumers that run beside the API.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dietia/dietia-backend/pkg/helpers"
	"github.com/dietia/dietia-backend/pkg/mailer"
	mailtpl "github.com/dietia/dietia-backend/pkg/mailer/templates"
)

// ErrMalformedJob marks a message that can never be delivered.
var ErrMalformedJob = errors.New("malformed email job")

// EmailProcessor renders queued EmailJobs and hands them to a Sender.
type EmailProcessor struct {
	Sender   mailer.Sender
	Resolver mailtpl.GeoResolver
	Logger   *logrus.Logger
	Timeout  time.Duration
}

func NewEmailProcessor(sender mailer.Sender, resolver mailtpl.GeoResolver, logger *logrus.Logger) *EmailProcessor {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &EmailProcessor{Sender: sender, Resolver: resolver, Logger: logger, Timeout: 15 * time.Second}
}

// Render turns a job into the final subject and bodies.
func (p *EmailProcessor) Render(ctx context.Context, job mailer.EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", fmt.Errorf("%w: missing recipient", ErrMalformedJob)
	}
	helpers.EnsureRecipientAndEmail(&job)
	helpers.NormalizeTemplate(&job)

	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", fmt.Errorf("%w: raw job needs subject and body", ErrMalformedJob)
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	if !strings.EqualFold(job.Template, mailtpl.Universal) {
		return "", "", "", fmt.Errorf("%w: unknown template %q", ErrMalformedJob, job.Template)
	}

	helpers.LocalizeTimesIfPossible(ctx, p.Resolver, job.Data)
	text, html, err = mailtpl.Render(mailtpl.Universal, job.Data)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	return helpers.SubjectForJob(job), text, html, nil
}

// Handle processes one queue message. requeue is true only for delivery
// failures worth retrying.
func (p *EmailProcessor) Handle(ctx context.Context, body []byte) (requeue bool, err error) {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	subject, text, html, err := p.Render(ctx, job)
	if err != nil {
		return false, err
	}

	c, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	if err := p.Sender.Send(c, job.To, subject, text, html); err != nil {
		return true, fmt.Errorf("send to %s: %w", job.To, err)
	}
	p.Logger.WithFields(logrus.Fields{"to": job.To, "subject": subject}).Info("email sent")
	return false, nil
}
