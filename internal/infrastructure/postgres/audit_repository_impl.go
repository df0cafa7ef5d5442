package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dietia/dietia-backend/internal/domain/entity"
	"github.com/dietia/dietia-backend/internal/domain/repository"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// nullable maps "" to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *AuditRepository) Insert(ctx context.Context, ev *entity.AuditEvent) error {
	md := ev.Metadata
	if md == nil {
		md = map[string]any{}
	}
	b, err := json.Marshal(md)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, nullable(ev.UserID), ev.Email, ev.Action, ev.IP, ev.UserAgent, b)
	return row.Scan(&ev.ID, &ev.CreatedAt)
}

func (r *AuditRepository) LastByAction(ctx context.Context, userID, action string) (*entity.AuditEvent, error) {
	ev := &entity.AuditEvent{}
	var uid pgtype.Text
	var md []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id::text, email, action, ip, user_agent, metadata, created_at
		FROM audit_logs
		WHERE user_id = $1 AND action = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, action).Scan(&ev.ID, &uid, &ev.Email, &ev.Action, &ev.IP, &ev.UserAgent, &md, &ev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	ev.UserID = uid.String
	if len(md) > 0 {
		_ = json.Unmarshal(md, &ev.Metadata)
	}
	return ev, nil
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
