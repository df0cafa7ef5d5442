package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"

	"github.com/dietia/dietia-backend/config"
	"github.com/dietia/dietia-backend/internal/application"
	"github.com/dietia/dietia-backend/internal/domain/anthropometry"
	"github.com/dietia/dietia-backend/internal/domain/entity"
	repo "github.com/dietia/dietia-backend/internal/domain/repository"
	pginfra "github.com/dietia/dietia-backend/internal/infrastructure/postgres"
	"github.com/dietia/dietia-backend/pkg/helpers"
)

// Seeds a demo account with one assessment, skinfolds included.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	opts, err := cfg.EstimatorOptions()
	if err != nil {
		logger.Fatal(err)
	}
	users := pginfra.NewUserRepository(pool)
	assessments := application.NewAssessmentService(pginfra.NewAssessmentRepository(pool), anthropometry.MustEstimator(opts), nil, 0, logger)

	const (
		email    = "demo@dietia.app"
		password = "password123"
	)
	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		hash, hErr := helpers.HashPassword(password)
		if hErr != nil {
			logger.Fatalf("failed to hash password: %v", hErr)
		}
		u = &entity.User{Email: email, Password: hash, Name: "Demo User"}
		err = users.Create(ctx, u)
	}
	if err != nil {
		logger.Fatalf("failed to seed user: %v", err)
	}
	logger.WithField("user_id", u.ID).Infof("seeded user %s / %s", email, password)

	a, err := assessments.RecordMetabolism(ctx, u.ID, application.MetabolismInput{
		Subject: anthropometry.Subject{Age: 30, Sex: anthropometry.SexMale, HeightCM: 180, WeightKG: 80},
		Goal:    anthropometry.GoalHypertrophy,
		Questionnaire: application.Questionnaire{
			ActivityLevel: "moderate",
			Meals:         5,
			TrainingType:  "strength",
			Foods:         "chicken, rice, eggs, oats",
		},
	})
	if err != nil {
		logger.Fatalf("failed to seed assessment: %v", err)
	}
	a, err = assessments.RecordSkinfolds(ctx, u.ID, application.SkinfoldInput{
		Folds: anthropometry.SkinfoldMeasurement{
			Subscapular: 10, Triceps: 10, Axillary: 10, Suprailiac: 10, Chest: 13, Abdominal: 15, Thigh: 11,
		},
	})
	if err != nil {
		logger.Fatalf("failed to seed skinfolds: %v", err)
	}
	logger.WithFields(map[string]any{
		"assessment_id": a.ID,
		"kcal":          a.DailyCalories(),
		"body_fat":      a.BodyComposition.BodyFatPercentage,
	}).Info("seeded assessment")
}
