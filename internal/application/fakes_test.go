package application

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dietia/dietia-backend/config"
	"github.com/dietia/dietia-backend/internal/domain/entity"
	repo "github.com/dietia/dietia-backend/internal/domain/repository"
	"github.com/dietia/dietia-backend/internal/infrastructure/search"
	"github.com/dietia/dietia-backend/pkg/helpers"
	"github.com/dietia/dietia-backend/pkg/mailer"
)

/* ─── Repositories ─── */

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]*entity.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if strings.EqualFold(x.Email, u.Email) {
			return repo.ErrConflict
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return repo.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeAudits struct {
	mu     sync.Mutex
	events []entity.AuditEvent
}

func (f *fakeAudits) Insert(_ context.Context, ev *entity.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev.ID = int64(len(f.events) + 1)
	ev.CreatedAt = time.Now()
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeAudits) LastByAction(_ context.Context, userID, action string) (*entity.AuditEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.events) - 1; i >= 0; i-- {
		if ev := f.events[i]; ev.UserID == userID && ev.Action == action {
			return &ev, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeAudits) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Action)
	}
	return out
}

type fakeAssessments struct {
	mu        sync.Mutex
	rows      []entity.Assessment
	lastLimit int
}

func (f *fakeAssessments) Create(_ context.Context, a *entity.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().Add(time.Duration(len(f.rows)) * time.Millisecond)
	a.UpdatedAt = a.CreatedAt
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAssessments) Update(_ context.Context, a *entity.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == a.ID && f.rows[i].UserID == a.UserID {
			a.UpdatedAt = time.Now()
			f.rows[i] = *a
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeAssessments) Latest(_ context.Context, userID string) (*entity.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			a := f.rows[i]
			return &a, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeAssessments) List(_ context.Context, userID string, limit int) ([]entity.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	out := []entity.Assessment{}
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

type fakePlans struct {
	mu    sync.Mutex
	plans map[string]entity.DietPlan
}

func newFakePlans() *fakePlans { return &fakePlans{plans: map[string]entity.DietPlan{}} }

func (f *fakePlans) Create(_ context.Context, p *entity.DietPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().Add(time.Duration(len(f.plans)) * time.Millisecond)
	f.plans[p.ID] = *p
	return nil
}

func (f *fakePlans) GetByID(_ context.Context, userID, id string) (*entity.DietPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok || p.UserID != userID {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

func (f *fakePlans) List(_ context.Context, userID string, limit int) ([]entity.DietPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.DietPlan{}
	for _, p := range f.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePlans) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok || p.UserID != userID {
		return repo.ErrNotFound
	}
	delete(f.plans, id)
	return nil
}

/* ─── Collaborators ─── */

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if job, ok := body.(mailer.EmailJob); ok {
		f.jobs = append(f.jobs, job)
	}
	return nil
}

// types returns the notification type of every queued job.
func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.jobs))
	for _, j := range f.jobs {
		t, _ := j.Data["Type"].(string)
		out = append(out, t)
	}
	return out
}

type fakeStore struct {
	paths []string
	err   error
}

func (f *fakeStore) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.paths = append(f.paths, objectPath)
	return helpers.PublicURL("avatars-bucket", objectPath), nil
}

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func (f *fakeGenerator) Model() string { return "gemini-test" }

type fakeIndex struct {
	indexed      []string
	deleted      []string
	deletedUsers []string
	searches     int
	err          error
}

func (f *fakeIndex) Index(_ context.Context, p *entity.DietPlan) error {
	f.indexed = append(f.indexed, p.ID)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, _, q string, _ int) ([]search.Hit, error) {
	f.searches++
	return []search.Hit{{ID: "hit", Prompt: q}}, f.err
}

func (f *fakeIndex) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeIndex) DeleteByUser(_ context.Context, userID string) error {
	f.deletedUsers = append(f.deletedUsers, userID)
	return f.err
}

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	return &config.Config{AppName: "dietia", MailSendEnabled: true, AppURL: "https://app.test"}
}

func testNotifier(pub *fakePublisher) *Notifier {
	return NewNotifier(pub, testConfig(), nil, helpers.NopLogger())
}
