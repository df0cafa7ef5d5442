package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dietia/dietia-backend/internal/domain/entity"
	"github.com/dietia/dietia-backend/internal/domain/repository"
)

type DietPlanRepository struct {
	pool *pgxpool.Pool
}

func NewDietPlanRepository(pool *pgxpool.Pool) *DietPlanRepository {
	return &DietPlanRepository{pool: pool}
}

const dietPlanColumns = `id, user_id, assessment_id, prompt, raw_text, content, model, created_at`

func scanDietPlan(row pgx.Row) (*entity.DietPlan, error) {
	p := &entity.DietPlan{}
	if err := row.Scan(&p.ID, &p.UserID, &p.AssessmentID, &p.Prompt, &p.RawText, &p.Content, &p.Model, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *DietPlanRepository) Create(ctx context.Context, p *entity.DietPlan) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO diet_plans (user_id, assessment_id, prompt, raw_text, content, model)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, p.UserID, p.AssessmentID, p.Prompt, p.RawText, p.Content, p.Model)
	return row.Scan(&p.ID, &p.CreatedAt)
}

// GetByID only returns plans owned by userID.
func (r *DietPlanRepository) GetByID(ctx context.Context, userID, id string) (*entity.DietPlan, error) {
	return scanDietPlan(r.pool.QueryRow(ctx, `
		SELECT `+dietPlanColumns+`
		FROM diet_plans
		WHERE id = $1 AND user_id = $2
	`, id, userID))
}

func (r *DietPlanRepository) List(ctx context.Context, userID string, limit int) ([]entity.DietPlan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+dietPlanColumns+`
		FROM diet_plans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.DietPlan, 0, limit)
	for rows.Next() {
		p, err := scanDietPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *DietPlanRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM diet_plans WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.DietPlanRepository = (*DietPlanRepository)(nil)
