package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dietia/dietia-backend/internal/domain/anthropometry"
	"github.com/dietia/dietia-backend/internal/domain/entity"
	"github.com/dietia/dietia-backend/internal/domain/repository"
)

type AssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

const assessmentColumns = `id, user_id, age, sex, height_cm, weight_kg, goal,
	activity_level, meals, restrictions, training_type, foods, supplements,
	metabolic, skinfolds, body_composition, created_at, updated_at`

// jsonOrNil encodes v for a nullable JSONB column.
func jsonOrNil[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func decodeJSON[T any](b []byte) (*T, error) {
	if len(b) == 0 {
		return nil, nil
	}
	v := new(T)
	if err := json.Unmarshal(b, v); err != nil {
		return nil, err
	}
	return v, nil
}

func scanAssessment(row pgx.Row) (*entity.Assessment, error) {
	a := &entity.Assessment{}
	var metabolic, folds, body []byte
	err := row.Scan(&a.ID, &a.UserID, &a.Age, &a.Sex, &a.HeightCM, &a.WeightKG, &a.Goal,
		&a.ActivityLevel, &a.Meals, &a.Restrictions, &a.TrainingType, &a.Foods, &a.Supplements,
		&metabolic, &folds, &body, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if a.Metabolic, err = decodeJSON[anthropometry.MetabolicResult](metabolic); err != nil {
		return nil, err
	}
	if a.Skinfolds, err = decodeJSON[anthropometry.SkinfoldMeasurement](folds); err != nil {
		return nil, err
	}
	if a.BodyComposition, err = decodeJSON[anthropometry.BodyCompositionResult](body); err != nil {
		return nil, err
	}
	return a, nil
}

func assessmentJSON(a *entity.Assessment) (metabolic, folds, body []byte, err error) {
	if metabolic, err = jsonOrNil(a.Metabolic); err != nil {
		return
	}
	if folds, err = jsonOrNil(a.Skinfolds); err != nil {
		return
	}
	body, err = jsonOrNil(a.BodyComposition)
	return
}

func (r *AssessmentRepository) Create(ctx context.Context, a *entity.Assessment) error {
	metabolic, folds, body, err := assessmentJSON(a)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO assessments (user_id, age, sex, height_cm, weight_kg, goal,
			activity_level, meals, restrictions, training_type, foods, supplements,
			metabolic, skinfolds, body_composition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`, a.UserID, a.Age, a.Sex, a.HeightCM, a.WeightKG, a.Goal,
		a.ActivityLevel, a.Meals, a.Restrictions, a.TrainingType, a.Foods, a.Supplements,
		metabolic, folds, body)
	return row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AssessmentRepository) Update(ctx context.Context, a *entity.Assessment) error {
	metabolic, folds, body, err := assessmentJSON(a)
	if err != nil {
		return err
	}
	a.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE assessments
		SET age = $1, sex = $2, height_cm = $3, weight_kg = $4, goal = $5,
			activity_level = $6, meals = $7, restrictions = $8, training_type = $9,
			foods = $10, supplements = $11, metabolic = $12, skinfolds = $13,
			body_composition = $14, updated_at = $15
		WHERE id = $16 AND user_id = $17
	`, a.Age, a.Sex, a.HeightCM, a.WeightKG, a.Goal,
		a.ActivityLevel, a.Meals, a.Restrictions, a.TrainingType,
		a.Foods, a.Supplements, metabolic, folds, body, a.UpdatedAt, a.ID, a.UserID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AssessmentRepository) Latest(ctx context.Context, userID string) (*entity.Assessment, error) {
	return scanAssessment(r.pool.QueryRow(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID))
}

func (r *AssessmentRepository) List(ctx context.Context, userID string, limit int) ([]entity.Assessment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Assessment, 0, limit)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

var _ repository.AssessmentRepository = (*AssessmentRepository)(nil)
