package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dietia/dietia-backend/internal/domain/anthropometry"
	"github.com/dietia/dietia-backend/internal/domain/entity"
	repo "github.com/dietia/dietia-backend/internal/domain/repository"
	"github.com/dietia/dietia-backend/internal/metrics"
	"github.com/dietia/dietia-backend/pkg/helpers"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
)

// AssessmentService runs the estimator for signed-in users and keeps their
// assessment history. The latest assessment is cached in Redis.
type AssessmentService struct {
	Repo      repo.AssessmentRepository
	Estimator *anthropometry.Estimator
	Redis     *redis.Client
	CacheTTL  time.Duration
	Logger    *logrus.Logger
}

func NewAssessmentService(assessments repo.AssessmentRepository, est *anthropometry.Estimator, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *AssessmentService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &AssessmentService{Repo: assessments, Estimator: est, Redis: rdb, CacheTTL: ttl, Logger: logger}
}

// Questionnaire holds the answers that only feed diet prompts.
type Questionnaire struct {
	ActivityLevel string
	Meals         int
	Restrictions  string
	TrainingType  string
	Foods         string
	Supplements   string
}

type MetabolismInput struct {
	Subject anthropometry.Subject
	Goal    anthropometry.Goal
	Questionnaire
}

type SkinfoldInput struct {
	// Age and Sex override the latest assessment when set.
	Age   int
	Sex   anthropometry.Sex
	Folds anthropometry.SkinfoldMeasurement
}

// CalculateMetabolism runs the estimator without persisting anything.
func (s *AssessmentService) CalculateMetabolism(subject anthropometry.Subject, goal anthropometry.Goal) (anthropometry.MetabolicResult, error) {
	res, err := s.Estimator.EstimateMetabolism(subject, goal)
	if err != nil {
		metrics.EstimationRejections.Add(1)
		return res, err
	}
	metrics.MetabolicEstimations.Add(1)
	if res.HasWarning(anthropometry.WarningNegativeCarbs) {
		metrics.NegativeCarbWarnings.Add(1)
	}
	return res, nil
}

// CalculateBodyFat runs the estimator without persisting anything.
func (s *AssessmentService) CalculateBodyFat(subject anthropometry.Subject, folds anthropometry.SkinfoldMeasurement) (anthropometry.BodyCompositionResult, error) {
	res, err := s.Estimator.EstimateBodyFat(subject, folds)
	if err != nil {
		metrics.EstimationRejections.Add(1)
		return res, err
	}
	metrics.BodyFatEstimations.Add(1)
	if res.HasWarning(anthropometry.WarningBodyFatOutOfRange) {
		metrics.BodyFatOutOfRange.Add(1)
	}
	return res, nil
}

// PreviewBodyFat is the unvalidated live estimate shown while folds are
// typed in; incomplete input yields zero.
func (s *AssessmentService) PreviewBodyFat(age int, sex anthropometry.Sex, folds anthropometry.SkinfoldMeasurement) anthropometry.BodyCompositionResult {
	return s.Estimator.PreviewBodyFat(age, sex, folds)
}

// RecordMetabolism estimates BMR and macros and stores them as a new
// assessment.
func (s *AssessmentService) RecordMetabolism(ctx context.Context, userID string, in MetabolismInput) (*entity.Assessment, error) {
	res, err := s.CalculateMetabolism(in.Subject, in.Goal)
	if err != nil {
		return nil, err
	}
	a := &entity.Assessment{
		UserID:        userID,
		Age:           in.Subject.Age,
		Sex:           in.Subject.Sex,
		HeightCM:      in.Subject.HeightCM,
		WeightKG:      in.Subject.WeightKG,
		Goal:          in.Goal,
		ActivityLevel: in.ActivityLevel,
		Meals:         in.Meals,
		Restrictions:  in.Restrictions,
		TrainingType:  in.TrainingType,
		Foods:         in.Foods,
		Supplements:   in.Supplements,
		Metabolic:     &res,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.cache(ctx, a)
	if res.HasWarning(anthropometry.WarningNegativeCarbs) {
		s.Logger.WithFields(logrus.Fields{"user_id": userID, "carb_g": res.CarbG}).Info("negative carbohydrate target")
	}
	return a, nil
}

// RecordSkinfolds estimates body fat and attaches it to the latest
// assessment, which supplies age and sex unless the input overrides them.
func (s *AssessmentService) RecordSkinfolds(ctx context.Context, userID string, in SkinfoldInput) (*entity.Assessment, error) {
	a, err := s.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	subject := a.Subject()
	if in.Age != 0 {
		subject.Age = in.Age
	}
	if in.Sex != "" {
		subject.Sex = in.Sex
	}
	res, err := s.CalculateBodyFat(subject, in.Folds)
	if err != nil {
		return nil, err
	}
	folds := in.Folds
	a.Skinfolds = &folds
	a.BodyComposition = &res
	if err := s.Repo.Update(ctx, a); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.invalidate(ctx, userID)
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	s.cache(ctx, a)
	return a, nil
}

// Latest returns the newest assessment, from cache when possible.
func (s *AssessmentService) Latest(ctx context.Context, userID string) (*entity.Assessment, error) {
	key := helpers.KeyLatestAssessment(userID)
	if s.Redis != nil {
		var cached entity.Assessment
		ok, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached)
		if err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("assessment cache read failed")
		}
		if ok && cached.UserID == userID {
			return &cached, nil
		}
	}
	a, err := s.Repo.Latest(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	s.cache(ctx, a)
	return a, nil
}

// History lists assessments newest first; limit is clamped to [1, 50].
func (s *AssessmentService) History(ctx context.Context, userID string, limit int) ([]entity.Assessment, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.Repo.List(ctx, userID, limit)
}

func (s *AssessmentService) cache(ctx context.Context, a *entity.Assessment) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return
	}
	key := helpers.KeyLatestAssessment(a.UserID)
	if err := helpers.RedisSetJSON(ctx, s.Redis, key, a, s.CacheTTL); err != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("assessment cache write failed")
	}
}

func (s *AssessmentService) invalidate(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, helpers.KeyLatestAssessment(userID)); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("assessment cache delete failed")
	}
}
