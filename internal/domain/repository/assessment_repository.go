package repository

import (
	"context"

	"github.com/dietia/dietia-backend/internal/domain/entity"
)

type AssessmentRepository interface {
	Create(ctx context.Context, a *entity.Assessment) error
	Update(ctx context.Context, a *entity.Assessment) error
	Latest(ctx context.Context, userID string) (*entity.Assessment, error)
	// List returns the newest assessments first.
	List(ctx context.Context, userID string, limit int) ([]entity.Assessment, error)
}

type DietPlanRepository interface {
	Create(ctx context.Context, p *entity.DietPlan) error
	GetByID(ctx context.Context, userID, id string) (*entity.DietPlan, error)
	List(ctx context.Context, userID string, limit int) ([]entity.DietPlan, error)
	Delete(ctx context.Context, userID, id string) error
}

type AuditRepository interface {
	Insert(ctx context.Context, ev *entity.AuditEvent) error
	// LastByAction returns the newest event of action for the user.
	LastByAction(ctx context.Context, userID, action string) (*entity.AuditEvent, error)
}
