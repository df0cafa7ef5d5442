package helpers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/dietia/dietia-backend/pkg/mailer"
	mailtpl "github.com/dietia/dietia-backend/pkg/mailer/templates"
)

type stubResolver struct {
	geo mailtpl.Geo
	err error
}

func (s stubResolver) Lookup(context.Context, string) (mailtpl.Geo, error) { return s.geo, s.err }

func TestNormalizeTemplate(t *testing.T) {
	job := mailer.EmailJob{To: "a@b.c", Template: "DIET_READY"}
	NormalizeTemplate(&job)
	if job.Template != mailtpl.Universal || job.Data["Type"] != "diet_ready" {
		t.Errorf("unexpected job %+v", job)
	}

	raw := mailer.EmailJob{To: "a@b.c", Template: "custom"}
	NormalizeTemplate(&raw)
	if raw.Template != "custom" {
		t.Errorf("unknown templates must be left alone, got %q", raw.Template)
	}
}

func TestEnsureRecipientAndEmail(t *testing.T) {
	job := mailer.EmailJob{To: "a@b.c", Data: map[string]any{"Email": "", "RecipientEmail": "x@y.z"}}
	EnsureRecipientAndEmail(&job)
	if job.Data["Email"] != "a@b.c" || job.Data["RecipientEmail"] != "x@y.z" {
		t.Errorf("unexpected data %v", job.Data)
	}
}

func TestSubjectForJob(t *testing.T) {
	job := mailer.EmailJob{Data: map[string]any{"Type": "welcome", "AppName": "DietIA"}}
	if got := SubjectForJob(job); got != "Welcome to DietIA" {
		t.Errorf("unexpected subject %q", got)
	}
	job.Subject = "Custom"
	if SubjectForJob(job) != "Custom" {
		t.Error("explicit subject should win")
	}
}

func TestLocalizeTimesIfPossible(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	data := map[string]any{
		"IP":     "8.8.8.8",
		"TimeAt": at.Format(time.RFC3339Nano),
		"Time":   "01 May 2026, 12:00",
	}
	LocalizeTimesIfPossible(context.Background(), stubResolver{geo: mailtpl.Geo{City: "Recife", Country: "Brazil", Timezone: "America/Recife"}}, data)
	if data["Location"] != "Recife, Brazil" {
		t.Errorf("location not filled: %v", data["Location"])
	}
	if got, _ := data["Time"].(string); !strings.HasPrefix(got, "01 May 2026, 09:00") {
		t.Errorf("expected time in UTC-3, got %q", got)
	}
}

func TestLocalizeTimesIfPossible_LookupFails(t *testing.T) {
	data := map[string]any{"IP": "8.8.8.8", "Time": "unchanged"}
	LocalizeTimesIfPossible(context.Background(), stubResolver{err: errors.New("down")}, data)
	if data["Time"] != "unchanged" {
		t.Error("data should be untouched when lookup fails")
	}
}
