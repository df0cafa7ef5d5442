package application

import (
	"context"
	"io"

	"github.com/dietia/dietia-backend/internal/domain/entity"
	"github.com/dietia/dietia-backend/internal/infrastructure/search"
)

// ObjectStore uploads a file and returns its public URL.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// JobPublisher puts a JSON message on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// TextGenerator produces a diet plan from a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// DietSearchIndex mirrors diet plans into the search engine.
type DietSearchIndex interface {
	Index(ctx context.Context, p *entity.DietPlan) error
	Search(ctx context.Context, userID, q string, size int) ([]search.Hit, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// RequestMeta describes the client behind a request, for audit rows and
// security notifications.
type RequestMeta struct {
	IP        string
	UserAgent string
}
