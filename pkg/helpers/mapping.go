package helpers

import (
	"fmt"
	"strings"

	"github.com/dietia/dietia-backend/pkg/mailer"
	mailtpl "github.com/dietia/dietia-backend/pkg/mailer/templates"
)

func dataString(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// EnsureRecipientAndEmail defaults the address fields of a template job to job.To.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if dataString(job.Data, "Email") == "" {
		job.Data["Email"] = job.To
	}
	if dataString(job.Data, "RecipientEmail") == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// NormalizeTemplate routes jobs that name a notification type directly
// (template "diet_ready") through the universal layout.
func NormalizeTemplate(job *mailer.EmailJob) {
	if job.Template == "" || strings.EqualFold(job.Template, mailtpl.Universal) {
		return
	}
	if !mailtpl.KnownType(job.Template) {
		return
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if dataString(job.Data, "Type") == "" {
		job.Data["Type"] = strings.ToLower(job.Template)
	}
	job.Template = mailtpl.Universal
}

// SubjectForJob prefers an explicit subject, then the type's default.
func SubjectForJob(job mailer.EmailJob) string {
	if job.Subject != "" {
		return job.Subject
	}
	return mailtpl.SubjectFor(dataString(job.Data, "Type"), dataString(job.Data, "AppName"))
}
