package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dietia/dietia-backend/internal/domain/dietplan"
	"github.com/dietia/dietia-backend/internal/domain/entity"
	repo "github.com/dietia/dietia-backend/internal/domain/repository"
	"github.com/dietia/dietia-backend/internal/infrastructure/search"
	"github.com/dietia/dietia-backend/internal/metrics"
	"github.com/dietia/dietia-backend/pkg/helpers"
	tpl "github.com/dietia/dietia-backend/pkg/mailer/templates"
)

const MaxPromptLength = 8000

// DietService generates meal plans with the language model and stores the
// cleaned text.
type DietService struct {
	Repo        repo.DietPlanRepository
	Users       repo.UserRepository
	Assessments repo.AssessmentRepository
	Generator   TextGenerator
	Logger      *logrus.Logger

	Index    DietSearchIndex
	Notifier *Notifier
	// AppURL prefixes links to a plan in e-mails.
	AppURL string
}

func NewDietService(plans repo.DietPlanRepository, users repo.UserRepository, assessments repo.AssessmentRepository, gen TextGenerator, logger *logrus.Logger) *DietService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &DietService{Repo: plans, Users: users, Assessments: assessments, Generator: gen, Logger: logger}
}

// Generate sends prompt to the model, formats the reply into meal blocks
// and saves it linked to the user's latest assessment.
func (s *DietService) Generate(ctx context.Context, userID, prompt string) (*entity.DietPlan, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if len(prompt) > MaxPromptLength {
		return nil, ErrPromptTooLong
	}
	if s.Generator == nil {
		return nil, ErrDietUnavailable
	}

	raw, err := s.Generator.Generate(ctx, prompt)
	if err != nil {
		metrics.DietGenerationFailure.Add(1)
		s.Logger.WithError(err).WithField("user_id", userID).Error("diet generation failed")
		return nil, fmt.Errorf("%w: %v", ErrDietUnavailable, err)
	}
	content := dietplan.Format(raw)
	if content == "" {
		metrics.DietGenerationFailure.Add(1)
		return nil, fmt.Errorf("%w: empty plan", ErrDietUnavailable)
	}

	plan := &entity.DietPlan{
		UserID:  userID,
		Prompt:  prompt,
		RawText: raw,
		Content: content,
		Model:   s.Generator.Model(),
	}
	var kcal int
	if s.Assessments != nil {
		a, err := s.Assessments.Latest(ctx, userID)
		switch {
		case err == nil:
			plan.AssessmentID = &a.ID
			kcal = a.DailyCalories()
		case !errors.Is(err, repo.ErrNotFound):
			s.Logger.WithError(err).WithField("user_id", userID).Warn("latest assessment lookup failed")
		}
	}
	if err := s.Repo.Create(ctx, plan); err != nil {
		return nil, err
	}
	metrics.DietGenerations.Add(1)

	if s.Index != nil {
		if err := s.Index.Index(ctx, plan); err != nil {
			s.Logger.WithError(err).WithField("diet_id", plan.ID).Warn("diet index failed")
		}
	}
	s.notifyReady(ctx, plan, kcal)
	return plan, nil
}

func (s *DietService) planURL(id string) string {
	return strings.TrimRight(s.AppURL, "/") + "/diets/" + id
}

func (s *DietService) notifyReady(ctx context.Context, plan *entity.DietPlan, kcal int) {
	if s.Notifier == nil || s.Users == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, plan.UserID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", plan.UserID).Warn("diet notification skipped")
		return
	}
	s.Notifier.Notify(ctx, tpl.DietReady, u.Name, u.Email, tpl.WithPlan(s.planURL(plan.ID), plan.Content, kcal))
}

// SendByEmail re-sends the "diet ready" e-mail for a stored plan.
func (s *DietService) SendByEmail(ctx context.Context, userID, id string) error {
	plan, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	var kcal int
	if s.Assessments != nil && plan.AssessmentID != nil {
		if a, err := s.Assessments.Latest(ctx, userID); err == nil && a.ID == *plan.AssessmentID {
			kcal = a.DailyCalories()
		}
	}
	s.notifyReady(ctx, plan, kcal)
	return nil
}

func (s *DietService) List(ctx context.Context, userID string, limit int) ([]entity.DietPlan, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.Repo.List(ctx, userID, limit)
}

func (s *DietService) Get(ctx context.Context, userID, id string) (*entity.DietPlan, error) {
	p, err := s.Repo.GetByID(ctx, userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDietNotFound
	}
	return p, err
}

func (s *DietService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrDietNotFound
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("diet_id", id).Warn("diet unindex failed")
		}
	}
	return nil
}

// Search matches q against the user's own plans. Without a search index
// the result is empty.
func (s *DietService) Search(ctx context.Context, userID, q string, size int) ([]search.Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" || s.Index == nil {
		return []search.Hit{}, nil
	}
	return s.Index.Search(ctx, userID, q, size)
}
