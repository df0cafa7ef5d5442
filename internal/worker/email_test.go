package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dietia/dietia-backend/config"
	"github.com/dietia/dietia-backend/pkg/mailer"
	mailtpl "github.com/dietia/dietia-backend/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	msgs []sent
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, sent{to, subject, text, html})
	return nil
}

func encode(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func dietReadyJob() mailer.EmailJob {
	cfg := &config.Config{AppName: "DietIA", CompanyName: "DietIA Ltda", AppURL: "http://app.test"}
	d := mailtpl.NewEmailData(cfg, mailtpl.DietReady, "Ana", "ana@example.com",
		mailtpl.WithPlan("http://app.test/diets/1", "Almoço\nArroz", 1780))
	return mailer.EmailJob{To: "ana@example.com", Template: mailtpl.Universal, Data: mailtpl.ToMap(d)}
}

func TestHandle_Universal(t *testing.T) {
	s := &fakeSender{}
	p := NewEmailProcessor(s, nil, nil)

	requeue, err := p.Handle(context.Background(), encode(t, dietReadyJob()))
	if err != nil || requeue {
		t.Fatalf("unexpected result requeue=%v err=%v", requeue, err)
	}
	if len(s.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(s.msgs))
	}
	m := s.msgs[0]
	if m.subject != "Your DietIA diet plan is ready" {
		t.Errorf("unexpected subject %q", m.subject)
	}
	if !strings.Contains(m.text, "1780 kcal") || m.html == "" {
		t.Errorf("plan not rendered:\n%s", m.text)
	}
}

func TestHandle_TypeAsTemplate(t *testing.T) {
	s := &fakeSender{}
	p := NewEmailProcessor(s, nil, nil)
	job := mailer.EmailJob{To: "ana@example.com", Template: mailtpl.Welcome, Data: map[string]any{"Name": "Ana", "AppName": "DietIA"}}

	if _, err := p.Handle(context.Background(), encode(t, job)); err != nil {
		t.Fatal(err)
	}
	if len(s.msgs) != 1 || s.msgs[0].subject != "Welcome to DietIA" {
		t.Errorf("type template not routed through the universal layout: %+v", s.msgs)
	}
}

func TestHandle_Raw(t *testing.T) {
	s := &fakeSender{}
	p := NewEmailProcessor(s, nil, nil)
	job := mailer.EmailJob{To: "ana@example.com", Subject: "Oi", Text: "corpo"}
	if _, err := p.Handle(context.Background(), encode(t, job)); err != nil {
		t.Fatal(err)
	}
	if s.msgs[0].subject != "Oi" || s.msgs[0].text != "corpo" {
		t.Errorf("raw job altered: %+v", s.msgs[0])
	}
}

func TestHandle_Failures(t *testing.T) {
	tests := []struct {
		name      string
		body      []byte
		sendErr   error
		requeue   bool
		malformed bool
	}{
		{"not json", []byte("{"), nil, false, true},
		{"no recipient", []byte(`{"subject":"x","text":"y"}`), nil, false, true},
		{"raw without body", []byte(`{"to":"a@b.c","subject":"x"}`), nil, false, true},
		{"unknown template", []byte(`{"to":"a@b.c","template":"newsletter"}`), nil, false, true},
		{"mailgun down", []byte(`{"to":"a@b.c","subject":"x","text":"y"}`), errors.New("503"), true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewEmailProcessor(&fakeSender{err: tc.sendErr}, nil, nil)
			requeue, err := p.Handle(context.Background(), tc.body)
			if err == nil {
				t.Fatal("expected an error")
			}
			if requeue != tc.requeue {
				t.Errorf("requeue = %v, want %v", requeue, tc.requeue)
			}
			if errors.Is(err, ErrMalformedJob) != tc.malformed {
				t.Errorf("malformed = %v, want %v (%v)", !tc.malformed, tc.malformed, err)
			}
		})
	}
}
