// Package search keeps diet plans searchable in Elasticsearch. Every query
// is scoped to a single user.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/dietia/dietia-backend/internal/domain/entity"
	"github.com/dietia/dietia-backend/pkg/helpers"
)

const requestTimeout = 3 * time.Second

// DietMapping is applied when the index does not exist yet.
const DietMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "user_id":    {"type": "keyword"},
      "prompt":     {"type": "text"},
      "content":    {"type": "text"},
      "model":      {"type": "keyword"},
      "created_at": {"type": "date"}
    }
  }
}`

type DietIndex struct {
	es    *elasticsearch.Client
	index string
}

// NewDietIndex returns nil when es is nil; a nil index is a no-op.
func NewDietIndex(es *elasticsearch.Client, index string) *DietIndex {
	if es == nil || index == "" {
		return nil
	}
	return &DietIndex{es: es, index: index}
}

func (d *DietIndex) Ensure(ctx context.Context) error {
	if d == nil {
		return nil
	}
	return helpers.EnsureIndex(ctx, d.es, d.index, DietMapping)
}

type dietDoc struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Prompt    string    `json:"prompt"`
	Content   string    `json:"content"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// Hit is one matching plan with highlighted fragments of its content.
type Hit struct {
	ID        string    `json:"id"`
	Score     float64   `json:"score"`
	Prompt    string    `json:"prompt"`
	Snippets  []string  `json:"snippets,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *DietIndex) Index(ctx context.Context, p *entity.DietPlan) error {
	if d == nil {
		return nil
	}
	b, err := json.Marshal(dietDoc{
		ID: p.ID, UserID: p.UserID, Prompt: p.Prompt,
		Content: p.Content, Model: p.Model, CreatedAt: p.CreatedAt,
	})
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndexRequest{Index: d.index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}.Do(c, d.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index diet %s: %s", p.ID, res.Status())
	}
	return nil
}

// Search runs a match query over prompt and content of userID's plans.
func (d *DietIndex) Search(ctx context.Context, userID, q string, size int) ([]Hit, error) {
	if d == nil {
		return []Hit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"content", "prompt^2"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"highlight": map[string]any{
			"fields": map[string]any{"content": map[string]any{"number_of_fragments": 3}},
		},
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := d.es.Search(
		d.es.Search.WithContext(c),
		d.es.Search.WithIndex(d.index),
		d.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search diets: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID        string              `json:"_id"`
				Score     float64             `json:"_score"`
				Source    dietDoc             `json:"_source"`
				Highlight map[string][]string `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, Hit{
			ID:        h.ID,
			Score:     h.Score,
			Prompt:    h.Source.Prompt,
			Snippets:  h.Highlight["content"],
			CreatedAt: h.Source.CreatedAt,
		})
	}
	return out, nil
}

func (d *DietIndex) Delete(ctx context.Context, id string) error {
	if d == nil {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: d.index, DocumentID: id}.Do(c, d.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// 404 means it was never indexed.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete diet %s: %s", id, res.Status())
	}
	return nil
}

// DeleteByUser drops every document owned by userID.
func (d *DietIndex) DeleteByUser(ctx context.Context, userID string) error {
	if d == nil {
		return nil
	}
	body := fmt.Sprintf(`{"query":{"term":{"user_id":%q}}}`, userID)
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.DeleteByQueryRequest{Index: []string{d.index}, Body: strings.NewReader(body)}.Do(c, d.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("delete diets of %s: %s", userID, res.Status())
	}
	return nil
}
